package queries

const defaultListLimit = 100

// normalizePage runs before the cache key is built, so every equivalent
// paging request maps onto the same cache slot.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return skip, limit
}
