package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/karunasetu/karuna-backend/api/responses"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/db"
	"github.com/karunasetu/karuna-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live", "env": cfg.App.Env})
	}
}

// HealthReady reports database reachability. The API serves degraded reads
// without the database, so an unreachable datasource is reported but still
// returns 200.
func HealthReady(cfg *config.Config, pinger db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"status": "ready", "env": cfg.App.Env, "database": "ok"}

		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				payload["database"] = "unavailable"
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.database.unreachable")
				}
			}
		}

		responses.WriteSuccess(w, payload)
	}
}
