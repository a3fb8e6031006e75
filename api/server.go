package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/ecodott-storefront/pkg/config"
)

// NewServer returns the HTTP server that cmd/storefront runs.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
