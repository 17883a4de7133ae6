package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"idrecon/internal/reference/models"
	"idrecon/pkg/platform/httputil"
)

// Service defines reference operations exposed over HTTP.
type Service interface {
	Import(ctx context.Context, source string) (*models.ImportResult, error)
	Verify(ctx context.Context, nationalID, surname string) (*models.Verification, error)
}

// Handler wires reference endpoints to the reference service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts reference endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reference/import", h.HandleImport)
	r.Get("/reference/{nationalID}", h.HandleVerify)
}

// HandleImport handles POST /reference/import. An empty body imports from
// the configured source.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	req, ok := httputil.DecodeOptionalAndPrepare[ImportRequest](ctx, w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Import(ctx, req.Source())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "reference import requested",
		"request_id", requestID,
		"success", result.Success,
		"records", result.RecordsProcessed,
		"fallback_used", result.FallbackUsed,
	)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	httputil.WriteJSON(w, status, result)
}

// HandleVerify handles GET /reference/{nationalID}?surname=.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Verify(r.Context(), chi.URLParam(r, "nationalID"), r.URL.Query().Get("surname"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}
