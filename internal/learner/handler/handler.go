package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"idrecon/internal/learner/models"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/httputil"
)

// maxMultipartMemory is the in-memory part of a multipart upload; the rest spills to disk.
const maxMultipartMemory = 8 << 20

// Service defines the learner operations exposed over HTTP.
type Service interface {
	ImportBulk(ctx context.Context, r io.Reader, batchTag string) *models.BulkImportResult
	Register(ctx context.Context, learner *models.Learner) (*models.Learner, error)
	MarkVerified(ctx context.Context, nationalID string) (*models.Learner, error)
	Find(ctx context.Context, nationalID string) (*models.Learner, error)
}

// Handler wires learner endpoints to the learner service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a learner handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts learner endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/learners/bulk", h.HandleBulkImport)
	r.Post("/learners", h.HandleRegister)
	r.Post("/learners/{nationalID}/verify", h.HandleVerify)
	r.Get("/learners/{nationalID}", h.HandleGet)
}

// HandleBulkImport handles POST /learners/bulk. The CSV is either the
// multipart "file" part or the raw request body.
func (h *Handler) HandleBulkImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	body, closeBody, err := uploadReader(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid bulk upload", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "a CSV file is required"))
		return
	}
	defer closeBody()

	result := h.service.ImportBulk(ctx, body, strings.TrimSpace(r.URL.Query().Get("batch")))
	if result.Fatal() {
		h.logger.ErrorContext(ctx, "bulk import failed", "request_id", requestID, "batch_id", result.BatchID)
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleRegister handles POST /learners.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](ctx, w, r, h.logger)
	if !ok {
		return
	}

	learner, err := h.service.Register(ctx, req.ToLearner())
	if err != nil {
		h.logger.WarnContext(ctx, "learner registration rejected",
			"request_id", requestID,
			"national_id", nationalid.Redact(req.NationalID),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, learner)
}

// HandleVerify handles POST /learners/{nationalID}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	learner, err := h.service.MarkVerified(ctx, chi.URLParam(r, "nationalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, learner)
}

// HandleGet handles GET /learners/{nationalID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	learner, err := h.service.Find(r.Context(), chi.URLParam(r, "nationalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, learner)
}

func uploadReader(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	return file, func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}, nil
}
