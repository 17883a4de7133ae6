// Package httputil holds the JSON and file response helpers shared by the
// learner, reference and reconciliation handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	dErrors "idrecon/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status is already sent; an encoding error cannot be reported.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteAttachment streams body as a download named filename.
func WriteAttachment(w http.ResponseWriter, contentType, filename string, body io.Reader) (int64, error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	return io.Copy(w, body)
}

type errorMapping struct {
	status int
	name   string
}

// errorMappings gives each domain code its HTTP status and the "error"
// string clients switch on. Unlisted codes are internal errors.
var errorMappings = map[dErrors.Code]errorMapping{
	dErrors.CodeNotFound:     {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:   {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput: {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:   {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:     {http.StatusConflict, "conflict"},
	dErrors.CodeTimeout:      {http.StatusGatewayTimeout, "timeout"},
	dErrors.CodeUnavailable:  {http.StatusServiceUnavailable, "unavailable"},
}

var internalError = errorMapping{http.StatusInternalServerError, "internal_error"}

func mappingFor(code dErrors.Code) errorMapping {
	if m, ok := errorMappings[code]; ok {
		return m
	}
	return internalError
}

// DomainCodeToHTTPStatus maps a domain code onto a response status.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	return mappingFor(code).status
}

// WriteError renders err as {"error", "error_description"}. Only client
// errors expose their message; anything else is a bare internal_error.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internalError.status, map[string]string{"error": internalError.name})
		return
	}

	m := mappingFor(domainErr.Code)
	body := map[string]string{"error": m.name}
	if m.status < http.StatusInternalServerError && domainErr.Message != "" {
		body["error_description"] = domainErr.Message
	}
	WriteJSON(w, m.status, body)
}
