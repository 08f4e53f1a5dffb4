package evidencehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/evidence"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
	"evals/internal/transport/http/shared"
)

type Handler struct {
	Service *evidence.Service
}

func NewHandler(service *evidence.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evidence", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvidenceRead)).Get("/tasks", h.handleListTasks)
		r.With(middleware.RequirePermission(auth.PermEvidenceRead)).Get("/logs", h.handleListWeek)
		r.With(middleware.RequirePermission(auth.PermEvidenceWrite)).Post("/logs", h.handleCreateLog)
		r.With(middleware.RequirePermission(auth.PermEvidenceWrite)).Put("/logs/{logID}", h.handleUpdateLog)
		r.With(middleware.RequirePermission(auth.PermEvidenceWrite)).Post("/logs/{logID}/links", h.handleAddLink)
	})
}

func failEvidence(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, evidence.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	case errors.Is(err, evidence.ErrLogNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task log not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "evidence_error", "evidence operation failed", reqID)
	}
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.ListTasks(r.Context())
	if err != nil {
		failEvidence(w, r, err)
		return
	}
	api.Success(w, tasks, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	weekStart, err := shared.ParseDate(r.URL.Query().Get("week"))
	if err != nil || weekStart.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "week query parameter is required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && requested != user.EmployeeID {
		if !user.HasRole(auth.RoleManager) && !user.HasRole(auth.RoleHR) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's logs", middleware.GetRequestID(r.Context()))
			return
		}
		employeeID = requested
	}

	logs, err := h.Service.ListWeek(r.Context(), employeeID, weekStart)
	if err != nil {
		failEvidence(w, r, err)
		return
	}
	api.Success(w, logs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		TaskID    string  `json:"taskId"`
		WeekStart string  `json:"weekStart"`
		Quantity  int     `json:"quantity"`
		Points    float64 `json:"points"`
		Note      string  `json:"note"`
		LinkKind  string  `json:"linkKind"`
		LinkValue string  `json:"linkValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	weekStart, err := shared.ParseDate(payload.WeekStart)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid week start date", middleware.GetRequestID(r.Context()))
		return
	}

	log := evidence.TaskLog{
		EmployeeID: user.EmployeeID,
		TaskID:     payload.TaskID,
		WeekStart:  weekStart,
		Quantity:   payload.Quantity,
		Points:     payload.Points,
		Note:       payload.Note,
	}
	var link *evidence.Link
	if payload.LinkValue != "" {
		link = &evidence.Link{Kind: payload.LinkKind, Value: payload.LinkValue}
	}

	id, err := h.Service.CreateLog(r.Context(), log, link)
	if err != nil {
		failEvidence(w, r, err)
		return
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Quantity *int     `json:"quantity"`
		Points   *float64 `json:"points"`
		Note     *string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateLog(r.Context(), chi.URLParam(r, "logID"), user.EmployeeID, payload.Quantity, payload.Points, payload.Note); err != nil {
		failEvidence(w, r, err)
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddLink(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.AddLink(r.Context(), chi.URLParam(r, "logID"), user.EmployeeID, payload.Kind, payload.Value); err != nil {
		failEvidence(w, r, err)
		return
	}
	api.Created(w, map[string]any{"added": true}, middleware.GetRequestID(r.Context()))
}
