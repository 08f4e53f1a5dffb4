package templateshandler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"evals/internal/domain/auth"
	"evals/internal/domain/templates"
	"evals/internal/platform/metrics"
	"evals/internal/transport/http/api"
	"evals/internal/transport/http/middleware"
)

type Handler struct {
	Service   *templates.Service
	Collector *metrics.Collector
}

func NewHandler(service *templates.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Collector: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/templates", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTemplatesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTemplatesRead)).Get("/active", h.handleActive)
		r.With(middleware.RequirePermission(auth.PermTemplatesRead)).Get("/{templateID}/items", h.handleItems)
		r.With(middleware.RequirePermission(auth.PermTemplatesRead)).Get("/{templateID}/levels", h.handleLevels)
		r.With(middleware.RequirePermission(auth.PermTemplatesImport)).Post("/import", h.handleImport)
		r.With(middleware.RequirePermission(auth.PermTemplatesImport)).Post("/import/stage", h.handleStage)
		r.With(middleware.RequirePermission(auth.PermTemplatesImport)).Post("/import/commit", h.handleCommit)
	})
}

// csvBody extracts the CSV payload from either a multipart "file" field or
// the raw request body.
func csvBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return r.Body, nil
}

func (h *Handler) parseCSV(w http.ResponseWriter, r *http.Request) ([]templates.Row, bool) {
	body, err := csvBody(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "csv payload required", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	defer body.Close()

	rows, rowErrs, err := templates.ParseCSV(body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_csv", "failed to parse csv", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	if len(rowErrs) > 0 {
		h.rejectRows(w, r, rowErrs)
		return nil, false
	}
	return rows, true
}

func (h *Handler) rejectRows(w http.ResponseWriter, r *http.Request, rowErrs []templates.RowError) {
	if h.Collector != nil {
		h.Collector.RecordImportCommit(len(rowErrs))
	}
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"import rejected, nothing was committed",
		map[string]any{"rows": rowErrs},
		middleware.GetRequestID(r.Context()),
	)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.parseCSV(w, r)
	if !ok {
		return
	}

	versions, err := h.Service.Import(r.Context(), rows)
	if err != nil {
		h.failImport(w, r, err)
		return
	}
	if h.Collector != nil {
		h.Collector.RecordImportCommit(0)
	}
	api.Created(w, map[string]any{"versions": versions}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStage(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.parseCSV(w, r)
	if !ok {
		return
	}

	if err := h.Service.Stage(r.Context(), rows); err != nil {
		h.failImport(w, r, err)
		return
	}
	api.Success(w, map[string]any{"staged": len(rows)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Service.Commit(r.Context())
	if err != nil {
		h.failImport(w, r, err)
		return
	}
	if h.Collector != nil {
		h.Collector.RecordImportCommit(0)
	}
	api.Created(w, map[string]any{"versions": versions}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failImport(w http.ResponseWriter, r *http.Request, err error) {
	var importErr *templates.ImportError
	switch {
	case errors.As(err, &importErr):
		h.rejectRows(w, r, importErr.Rows)
	case errors.Is(err, templates.ErrNothingStaged):
		api.Fail(w, http.StatusBadRequest, "nothing_staged", "no staged import rows", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "import_failed", "failed to import templates", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListTemplates(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_list_failed", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	orgUnitID := r.URL.Query().Get("orgUnitId")
	positionID := r.URL.Query().Get("positionId")
	if orgUnitID == "" || positionID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "orgUnitId and positionId are required", middleware.GetRequestID(r.Context()))
		return
	}

	tmpl, err := h.Service.ActiveTemplate(r.Context(), orgUnitID, positionID)
	if errors.Is(err, templates.ErrNoActiveTemplate) {
		api.Fail(w, http.StatusNotFound, "not_found", "no active template for org unit and position", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_lookup_failed", "failed to resolve template", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.TemplateItems(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_items_failed", "failed to list template items", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.Service.ItemLevels(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_levels_failed", "failed to list item levels", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, levels, middleware.GetRequestID(r.Context()))
}
