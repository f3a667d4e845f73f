package handler

import (
	"net/http"
	"time"

	"github.com/netigo/netigo-go/internal/domain"
	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/service"

	"go.uber.org/zap"
)

// GET /api/finance/summary?period=&from=&to=
func financeSummaryHandler(svc *service.SummaryService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		period := domain.NormalizePeriod(r.URL.Query().Get("period"))
		from := parseDateParam(r, "from")
		to := parseDateParam(r, "to")

		summary, err := svc.GetSummary(r.Context(), period, from, to)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		metrics.RecordRequestDuration("finance_summary", time.Since(start))
		writeJSON(w, http.StatusOK, summary)
	}
}

// GET /api/finance/timeline?period=&granularity=&from=&to=
func financeTimelineHandler(svc *service.SummaryService, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		period := domain.NormalizePeriod(r.URL.Query().Get("period"))
		granularity := r.URL.Query().Get("granularity")
		from := parseDateParam(r, "from")
		to := parseDateParam(r, "to")

		buckets, err := svc.GetBucketedTimeline(r.Context(), period, granularity, from, to)
		if err != nil {
			metrics.IncrRequest("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrRequest("success")
		metrics.RecordRequestDuration("finance_timeline", time.Since(start))
		writeJSON(w, http.StatusOK, buckets)
	}
}
