package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	// Bulk learner uploads and validation report downloads are whole files.
	transferTimeout = 2 * time.Minute
	idleTimeout     = 90 * time.Second
)

// New returns the API server. Shutdown is left to the caller.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       transferTimeout,
		WriteTimeout:      transferTimeout,
		IdleTimeout:       idleTimeout,
	}
}
