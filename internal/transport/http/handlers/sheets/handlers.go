package sheetshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/directory"
	"evals/internal/domain/notifications"
	"evals/internal/domain/scoring"
	"evals/internal/domain/workflow"
	"evals/internal/platform/metrics"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
)

type Handler struct {
	Service   *workflow.Service
	Scoring   *scoring.Service
	Directory *directory.Service
	Notify    *notifications.Service
	Collector *metrics.Collector
}

func NewHandler(service *workflow.Service, scoringSvc *scoring.Service, dir *directory.Service, notify *notifications.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Scoring: scoringSvc, Directory: dir, Notify: notify, Collector: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sheets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/", h.handleListOwn)
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/inbox", h.handleInbox)
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/{sheetID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/{sheetID}/scores", h.handleListScores)
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/{sheetID}/actions", h.handleListActions)
		r.With(middleware.RequirePermission(auth.PermSheetsRead)).Get("/{sheetID}/aggregate", h.handleAggregate)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Post("/{sheetID}/submit", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Post("/{sheetID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Post("/{sheetID}/return", h.handleReturn)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Post("/{sheetID}/finalize", h.handleFinalize)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Put("/{sheetID}/scores/{itemID}/manager", h.handleSetManagerScore)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Put("/{sheetID}/scores/{itemID}/final", h.handleSetFinalScore)
		r.With(middleware.RequirePermission(auth.PermSheetsAct)).Put("/{sheetID}/scores/{itemID}/self", h.handleSetSelfComment)
	})
}

func failWorkflow(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, workflow.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
	case errors.Is(err, workflow.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), reqID)
	case errors.Is(err, workflow.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, workflow.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), reqID)
	case errors.Is(err, workflow.ErrSheetNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "sheet not found", reqID)
	case errors.Is(err, workflow.ErrScoreRowNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "score row not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "workflow_error", "workflow operation failed", reqID)
	}
}

// canReadSheet limits sheet reads to the owner, the owner's manager, and hr.
func (h *Handler) canReadSheet(r *http.Request, user auth.UserContext, sheet workflow.Sheet) bool {
	if user.HasRole(auth.RoleHR) {
		return true
	}
	if sheet.EmployeeID == user.EmployeeID {
		return true
	}
	if user.HasRole(auth.RoleManager) {
		manages, err := h.Directory.IsManagerOfEmployee(r.Context(), sheet.EmployeeID, user.EmployeeID)
		if err != nil {
			slog.Warn("manager check failed", "sheetId", sheet.ID, "err", err)
			return false
		}
		return manages
	}
	return false
}

func (h *Handler) loadReadable(w http.ResponseWriter, r *http.Request) (workflow.Sheet, auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return workflow.Sheet{}, auth.UserContext{}, false
	}

	sheet, err := h.Service.GetSheet(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		failWorkflow(w, r, err)
		return workflow.Sheet{}, auth.UserContext{}, false
	}

	if !h.canReadSheet(r, user, sheet) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this sheet", middleware.GetRequestID(r.Context()))
		return workflow.Sheet{}, auth.UserContext{}, false
	}
	return sheet, user, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sheet, _, ok := h.loadReadable(w, r)
	if !ok {
		return
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListScores(w http.ResponseWriter, r *http.Request) {
	sheet, _, ok := h.loadReadable(w, r)
	if !ok {
		return
	}
	scores, err := h.Service.ListScores(r.Context(), sheet.ID)
	if err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, scores, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListActions(w http.ResponseWriter, r *http.Request) {
	sheet, _, ok := h.loadReadable(w, r)
	if !ok {
		return
	}
	actions, err := h.Service.ListActions(r.Context(), sheet.ID)
	if err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, actions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	sheet, _, ok := h.loadReadable(w, r)
	if !ok {
		return
	}
	result, err := h.Scoring.ComputeAggregate(r.Context(), sheet.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "aggregate_failed", "failed to compute aggregate", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	sheets, err := h.Service.ListSheetsForEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sheet_list_failed", "failed to list sheets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sheets, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	sheets, err := h.Service.Inbox(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "inbox_failed", "failed to load inbox", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sheets, middleware.GetRequestID(r.Context()))
}

type transitionRequest struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

func decodeTransition(r *http.Request) transitionRequest {
	var payload transitionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	return payload
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, workflow.ActionSubmit, func(user auth.UserContext, sheetID string, payload transitionRequest) error {
		return h.Service.Submit(r.Context(), sheetID, user)
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, workflow.ActionApprove, func(user auth.UserContext, sheetID string, payload transitionRequest) error {
		return h.Service.Approve(r.Context(), sheetID, user, payload.Note)
	})
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, workflow.ActionReturn, func(user auth.UserContext, sheetID string, payload transitionRequest) error {
		return h.Service.Return(r.Context(), sheetID, user, payload.Reason)
	})
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, workflow.ActionFinalize, func(user auth.UserContext, sheetID string, payload transitionRequest) error {
		return h.Service.Finalize(r.Context(), sheetID, user, payload.Note)
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, run func(auth.UserContext, string, transitionRequest) error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	sheetID := chi.URLParam(r, "sheetID")
	payload := decodeTransition(r)

	if err := run(user, sheetID, payload); err != nil {
		if h.Collector != nil && errors.Is(err, workflow.ErrConflict) {
			h.Collector.RecordTransitionConflict()
		}
		failWorkflow(w, r, err)
		return
	}

	if h.Collector != nil {
		h.Collector.RecordTransition(action)
	}
	h.notifyTransition(r, sheetID, action, user)

	sheet, err := h.Service.GetSheet(r.Context(), sheetID)
	if err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, sheet, middleware.GetRequestID(r.Context()))
}

// notifyTransition is best effort; delivery failures never fail the request.
func (h *Handler) notifyTransition(r *http.Request, sheetID, action string, actor auth.UserContext) {
	if h.Notify == nil {
		return
	}

	sheet, err := h.Service.GetSheet(r.Context(), sheetID)
	if err != nil {
		slog.Warn("transition notification lookup failed", "sheetId", sheetID, "err", err)
		return
	}

	switch action {
	case workflow.ActionSubmit:
		employee, err := h.Directory.GetEmployee(r.Context(), sheet.EmployeeID)
		if err != nil || employee.ManagerID == "" {
			return
		}
		if err := h.Notify.Notify(r.Context(), employee.ManagerID, notifications.TypeSheetSubmitted,
			"Evaluation submitted", employee.Name+" submitted an evaluation sheet for review"); err != nil {
			slog.Warn("submit notification failed", "sheetId", sheetID, "err", err)
		}
	case workflow.ActionApprove:
		if err := h.Notify.Notify(r.Context(), sheet.EmployeeID, notifications.TypeSheetApproved,
			"Evaluation approved", "Your evaluation sheet moved to final review"); err != nil {
			slog.Warn("approve notification failed", "sheetId", sheetID, "err", err)
		}
	case workflow.ActionReturn:
		if err := h.Notify.Notify(r.Context(), sheet.EmployeeID, notifications.TypeSheetReturned,
			"Evaluation returned", "Your evaluation sheet was returned for rework"); err != nil {
			slog.Warn("return notification failed", "sheetId", sheetID, "err", err)
		}
	case workflow.ActionFinalize:
		if err := h.Notify.Notify(r.Context(), sheet.EmployeeID, notifications.TypeSheetFinalized,
			"Evaluation finalized", "Your evaluation sheet has been finalized"); err != nil {
			slog.Warn("finalize notification failed", "sheetId", sheetID, "err", err)
		}
	}
}

type scoreRequest struct {
	Point   *int   `json:"point"`
	Comment string `json:"comment"`
}

func (h *Handler) handleSetManagerScore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetManagerScore(r.Context(), chi.URLParam(r, "sheetID"), chi.URLParam(r, "itemID"), user, payload.Point, payload.Comment); err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetFinalScore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetFinalScore(r.Context(), chi.URLParam(r, "sheetID"), chi.URLParam(r, "itemID"), user, payload.Point, payload.Comment); err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetSelfComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetSelfComment(r.Context(), chi.URLParam(r, "sheetID"), chi.URLParam(r, "itemID"), user, payload.Comment); err != nil {
		failWorkflow(w, r, err)
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}
