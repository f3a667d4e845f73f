package handler

import (
	"encoding/json"
	"net/http"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /api/recurring
func listRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		costs, err := svc.List(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, costs)
	}
}

// POST /api/recurring
func addRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rc domain.RecurringCost
		if err := json.NewDecoder(r.Body).Decode(&rc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.Add(r.Context(), &rc, UsernameFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// DELETE /api/recurring/{id}
func deleteRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.Delete(r.Context(), id, UsernameFromContext(r.Context())); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// GET /api/recurring/total?period=
func recurringTotalHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeframe := domain.NormalizePeriod(r.URL.Query().Get("period"))

		total, err := svc.ProjectedTotal(r.Context(), timeframe)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"period": timeframe,
			"total":  total,
		})
	}
}
