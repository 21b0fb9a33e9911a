package commands

import "strings"

type fieldsPatch struct {
	title       *string
	description *string
}

// textPatch trims the provided fields and rejects a patch that would blank a
// title. Nil fields stay nil and are left unchanged by the writer.
func textPatch(title, description *string, invalid error) (fieldsPatch, error) {
	var patch fieldsPatch
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return fieldsPatch{}, invalid
		}
		patch.title = &trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		patch.description = &trimmed
	}
	return patch, nil
}
