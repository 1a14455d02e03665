// Package httpserver builds the process HTTP server with limits sized for an
// image-upload workload.
package httpserver

import (
	"net/http"
	"time"

	"roomalchemy/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second

	// writeSlack is added on top of the transform deadline so a response that
	// waited out the provider can still be written.
	writeSlack = 15 * time.Second
)

// New builds the server. The read timeout must admit a full-size upload over a
// slow link; the write timeout must outlive the transform call, which holds
// the response open for up to the provider deadline.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.TransformTimeout,
		WriteTimeout:      cfg.TransformTimeout + writeSlack,
		IdleTimeout:       idleTimeout,
	}
}
