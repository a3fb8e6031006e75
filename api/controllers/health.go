package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/ecodott-storefront/api/responses"
	"github.com/angelmondragon/ecodott-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

const envHeader = "X-EcoDott-Env"

// Pinger is satisfied by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "store not configured"))
			return
		}
		if err := store.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store unavailable").
				WithDetails(map[string]string{"backend": cfg.Store.Backend}))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "store": cfg.Store.Backend})
	}
}
