package httpx

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck checks one dependency (token storage, ledger database).
type HealthCheck func(ctx context.Context) error

// healthHandler reports 200 when every check passes and 503 otherwise,
// listing each component's result.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(status)
			return
		}
		WriteJSON(w, status, map[string]any{"status": overall, "components": components})
	}
}
