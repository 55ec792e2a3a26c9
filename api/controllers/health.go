package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

const envHeader = "X-VitalShop-Env"

// Pinger is the readiness-probe contract a backing dependency
// exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadinessDeps builds the dependency set HealthReady checks.
func ReadinessDeps(db, cache Pinger) map[string]Pinger {
	return map[string]Pinger{
		"database": db,
		"redis":    cache,
	}
}
