package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"idrecon/internal/progress"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/platform/httputil"
)

// Service defines the job operations exposed over HTTP.
type Service interface {
	Start(ctx context.Context) (string, error)
	Status(ctx context.Context, jobID string) (*progress.Job, error)
	Cancel(ctx context.Context, jobID string) error
}

// ReportOpener serves saved report files by name.
type ReportOpener interface {
	Open(name string) (*os.File, error)
}

// Handler wires reconciliation endpoints to the job service.
type Handler struct {
	service Service
	reports ReportOpener
	logger  *slog.Logger
}

func New(service Service, reports ReportOpener, logger *slog.Logger) *Handler {
	return &Handler{service: service, reports: reports, logger: logger}
}

// Register mounts reconciliation and report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reconciliations", h.HandleStart)
	r.Get("/reconciliations/{jobID}", h.HandleStatus)
	r.Delete("/reconciliations/{jobID}", h.HandleCancel)
	r.Get("/reports/{name}", h.HandleReport)
}

// HandleStart handles POST /reconciliations.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID, err := h.service.Start(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start reconciliation",
			"request_id", chimw.GetReqID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, &StartResponse{JobID: jobID})
}

// HandleStatus handles GET /reconciliations/{jobID}.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Status(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toStatusResponse(job))
}

// HandleCancel handles DELETE /reconciliations/{jobID}.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), chi.URLParam(r, "jobID")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReport handles GET /reports/{name}.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	f, err := h.reports.Open(name)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "report not found"))
		return
	}
	defer f.Close()

	if _, err := httputil.WriteAttachment(w, "text/csv", name, f); err != nil {
		h.logger.WarnContext(ctx, "report download interrupted", "report", name, "error", err)
	}
}
