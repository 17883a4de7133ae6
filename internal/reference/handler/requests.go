package handler

import (
	"strings"

	dErrors "idrecon/pkg/domain-errors"
)

// ImportRequest is the optional body of POST /reference/import.
type ImportRequest struct {
	URL string `json:"url,omitempty"`
	CSV string `json:"csv,omitempty"`
}

func (r *ImportRequest) Normalize() {
	r.URL = strings.TrimSpace(r.URL)
}

func (r *ImportRequest) Validate() error {
	if r.URL != "" && r.CSV != "" {
		return dErrors.New(dErrors.CodeValidation, "provide either url or csv, not both")
	}
	if r.URL != "" && !strings.HasPrefix(strings.ToLower(r.URL), "http://") && !strings.HasPrefix(strings.ToLower(r.URL), "https://") {
		return dErrors.New(dErrors.CodeValidation, "url must be http or https")
	}
	return nil
}

// Source returns the importer input, empty meaning the configured default.
func (r *ImportRequest) Source() string {
	if r.URL != "" {
		return r.URL
	}
	return r.CSV
}
