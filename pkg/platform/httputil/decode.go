package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "idrecon/pkg/domain-errors"
)

// Normalizable requests trim and canonicalise their fields before validation.
type Normalizable interface {
	Normalize()
}

type Validatable interface {
	Validate() error
}

// PrepareRequest runs Normalize then Validate on req when it implements them.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare decodes a JSON body into T and prepares it. On failure the
// error response is already written and ok is false.
//
//	req, ok := httputil.DecodeAndPrepare[RegisterRequest](ctx, w, r, h.logger)
//	if !ok {
//		return
//	}
func DecodeAndPrepare[T any](ctx context.Context, w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	return decode[T](ctx, w, r, logger, false)
}

// DecodeOptionalAndPrepare is DecodeAndPrepare for endpoints where an empty
// body means "use the defaults"; T is prepared in its zero state.
func DecodeOptionalAndPrepare[T any](ctx context.Context, w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	return decode[T](ctx, w, r, logger, true)
}

func decode[T any](ctx context.Context, w http.ResponseWriter, r *http.Request, logger *slog.Logger, allowEmpty bool) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if !allowEmpty || !errors.Is(err, io.EOF) {
			logger.WarnContext(ctx, "failed to decode request body", "error", err)
			WriteError(w, decodeError(err))
			return nil, false
		}
	}

	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid request", "error", err)
		var domainErr *dErrors.Error
		if !errors.As(err, &domainErr) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return dErrors.New(dErrors.CodeBadRequest, "request body too large")
	}
	return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
}
