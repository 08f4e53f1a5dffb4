package cycleshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/cycles"
	"evals/internal/platform/metrics"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
	"evals/internal/transport/http/shared"
)

type Handler struct {
	Service   *cycles.Service
	Collector *metrics.Collector
}

func NewHandler(service *cycles.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Collector: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cycles", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/{cycleID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermCyclesManage)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCyclesManage)).Post("/{cycleID}/generate", h.handleGenerate)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name      string `json:"name"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		DueDate   string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "cycle name is required")
	var start, end, due time.Time
	if payload.StartDate != "" {
		start, _ = v.Date("startDate", payload.StartDate)
	}
	if payload.EndDate != "" {
		end, _ = v.Date("endDate", payload.EndDate)
	}
	if payload.DueDate != "" {
		due, _ = v.Date("dueDate", payload.DueDate)
	}
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.CreateCycleAndGenerate(r.Context(), payload.Name, optionalTime(start), optionalTime(end), optionalTime(due))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_create_failed", "failed to create cycle", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Collector != nil {
		h.Collector.RecordGeneration(result.Created, len(result.Skipped))
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.GenerateSheets(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, cycles.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "cycle not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "generation_failed", "failed to generate sheets", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Collector != nil {
		h.Collector.RecordGeneration(result.Created, len(result.Skipped))
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListCycles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_list_failed", "failed to list cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, cycles.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "cycle not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_lookup_failed", "failed to load cycle", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
