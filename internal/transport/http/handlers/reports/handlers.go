package reportshandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/reports"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
	"evals/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/cycles/{cycleID}/progress", h.handleCycleProgress)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/weekly-points", h.handleWeeklyPoints)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/sheets/{sheetID}/pdf", h.handleSheetPDF)
	})
}

func (h *Handler) handleCycleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Service.CycleProgress(r.Context(), chi.URLParam(r, "cycleID"))
	if errors.Is(err, reports.ErrCycleNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "cycle not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build cycle progress", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, progress, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleWeeklyPoints(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rows, err := h.Service.WeeklyPoints(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build weekly points", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSheetPDF(w http.ResponseWriter, r *http.Request) {
	sheetID := chi.URLParam(r, "sheetID")
	pdfBytes, err := h.Service.SheetPDF(r.Context(), sheetID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render sheet pdf", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-sheet-`+sheetID+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
