package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/service"

	"go.uber.org/zap"
)

// GET /api/version
func versionHandler(counter port.ChangeCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int64{"version": counter.Current()})
	}
}

// POST /api/ping — the polling trigger point; marks the caller online.
func pingHandler(presence *service.PresenceTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if username := UsernameFromContext(r.Context()); username != "" {
			presence.MarkOnline(username)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GET /api/presence
func presenceHandler(presence *service.PresenceTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"online": presence.Online()})
	}
}

// GET /api/audit?limit=
func auditHandler(svc *service.AuditService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.List(r.Context(), parseLimit(r, 0))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GET /api/stats
func statsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}

// POST /api/login
func loginHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Login(r.Context(), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /api/me
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"username": UsernameFromContext(r.Context())})
	}
}

// Pinger checks a dependency for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GET /healthz
func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// GET /readyz
func readyzHandler(store Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
