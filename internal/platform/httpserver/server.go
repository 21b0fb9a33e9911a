package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	catalog "carte/contexts/catalog"
	catalogerrors "carte/contexts/catalog/domain/errors"
	cataloghttp "carte/contexts/catalog/transport/http"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	catalog catalog.Module
}

func New(catalogModule catalog.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		catalog: catalogModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-driven checks.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/menus", s.handleListMenus)
	s.mux.HandleFunc("POST /api/v1/menus", s.handleCreateMenu)
	s.mux.HandleFunc("GET /api/v1/menus/{menu_id}", s.handleGetMenu)
	s.mux.HandleFunc("PATCH /api/v1/menus/{menu_id}", s.handleUpdateMenu)
	s.mux.HandleFunc("DELETE /api/v1/menus/{menu_id}", s.handleDeleteMenu)

	s.mux.HandleFunc("GET /api/v1/menus/{menu_id}/submenus", s.handleListSubmenus)
	s.mux.HandleFunc("POST /api/v1/menus/{menu_id}/submenus", s.handleCreateSubmenu)
	s.mux.HandleFunc("GET /api/v1/menus/{menu_id}/submenus/{submenu_id}", s.handleGetSubmenu)
	s.mux.HandleFunc("PATCH /api/v1/menus/{menu_id}/submenus/{submenu_id}", s.handleUpdateSubmenu)
	s.mux.HandleFunc("DELETE /api/v1/menus/{menu_id}/submenus/{submenu_id}", s.handleDeleteSubmenu)

	s.mux.HandleFunc("GET /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes", s.handleListDishes)
	s.mux.HandleFunc("POST /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes", s.handleCreateDish)
	s.mux.HandleFunc("GET /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", s.handleGetDish)
	s.mux.HandleFunc("PATCH /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", s.handleUpdateDish)
	s.mux.HandleFunc("DELETE /api/v1/menus/{menu_id}/submenus/{submenu_id}/dishes/{dish_id}", s.handleDeleteDish)
}

func (s *Server) handleListMenus(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}
	resp, err := s.catalog.Handler.ListMenusHandler(r.Context(), skip, limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMenu(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateMenuHandler(r.Context(), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetMenuHandler(r.Context(), r.PathValue("menu_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMenu(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateMenuHandler(r.Context(), r.PathValue("menu_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMenu(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.DeleteMenuHandler(r.Context(), r.PathValue("menu_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSubmenus(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}
	resp, err := s.catalog.Handler.ListSubmenusHandler(r.Context(), r.PathValue("menu_id"), skip, limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSubmenu(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateSubmenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateSubmenuHandler(r.Context(), r.PathValue("menu_id"), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSubmenu(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetSubmenuHandler(r.Context(), r.PathValue("submenu_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSubmenu(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.UpdateSubmenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateSubmenuHandler(
		r.Context(),
		r.PathValue("menu_id"),
		r.PathValue("submenu_id"),
		req,
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSubmenu(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.DeleteSubmenuHandler(
		r.Context(),
		r.PathValue("menu_id"),
		r.PathValue("submenu_id"),
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDishes(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePage(w, r)
	if !ok {
		return
	}
	resp, err := s.catalog.Handler.ListDishesHandler(r.Context(), r.PathValue("submenu_id"), skip, limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.CreateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.CreateDishHandler(
		r.Context(),
		r.PathValue("menu_id"),
		r.PathValue("submenu_id"),
		req,
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetDish(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.GetDishHandler(r.Context(), r.PathValue("dish_id"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateDish(w http.ResponseWriter, r *http.Request) {
	var req cataloghttp.UpdateDishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.catalog.Handler.UpdateDishHandler(
		r.Context(),
		r.PathValue("menu_id"),
		r.PathValue("submenu_id"),
		r.PathValue("dish_id"),
		req,
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDish(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.DeleteDishHandler(
		r.Context(),
		r.PathValue("menu_id"),
		r.PathValue("submenu_id"),
		r.PathValue("dish_id"),
	)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parsePage(w http.ResponseWriter, r *http.Request) (skip int, limit int, ok bool) {
	query := r.URL.Query()
	if raw := query.Get("skip"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_skip", "skip must be an integer")
			return 0, 0, false
		}
		skip = parsed
	}
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return 0, 0, false
		}
		limit = parsed
	}
	return skip, limit, true
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrMenuNotFound):
		writeCatalogError(w, http.StatusNotFound, "menu_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrSubmenuNotFound):
		writeCatalogError(w, http.StatusNotFound, "submenu_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrDishNotFound):
		writeCatalogError(w, http.StatusNotFound, "dish_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidMenuInput),
		errors.Is(err, catalogerrors.ErrInvalidSubmenuInput),
		errors.Is(err, catalogerrors.ErrInvalidDishInput),
		errors.Is(err, catalogerrors.ErrInvalidDishPrice):
		writeCatalogError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
