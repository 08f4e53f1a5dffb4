package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/directory"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
	"evals/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/directory", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDirectoryRead)).Get("/employees", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead)).Get("/employees/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite)).Post("/employees", h.handleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite)).Put("/employees/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead)).Get("/org-units", h.handleListOrgUnits)
		r.With(middleware.RequirePermission(auth.PermDirectoryRead)).Get("/positions", h.handleListPositions)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_lookup_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request) (directory.EmployeeInput, bool) {
	var input directory.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return directory.EmployeeInput{}, false
	}

	v := shared.NewValidator()
	v.Required("name", input.Name, "employee name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return directory.EmployeeInput{}, false
	}
	return input, true
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}

	id, err := h.Service.CreateEmployee(r.Context(), input)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}

	err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), input)
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOrgUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Service.ListOrgUnits(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "org_unit_list_failed", "failed to list org units", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, units, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Service.ListPositions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "position_list_failed", "failed to list positions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, positions, middleware.GetRequestID(r.Context()))
}
