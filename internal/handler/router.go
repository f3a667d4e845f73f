package handler

import (
	"net/http"

	"github.com/netigo/netigo-go/internal/infra/observability"
	"github.com/netigo/netigo-go/internal/port"
	"github.com/netigo/netigo-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps bundles everything the router serves.
type Deps struct {
	Ledger    *service.LedgerService
	Summary   *service.SummaryService
	Notes     *service.NotesService
	Recurring *service.RecurringService
	Auth      *service.AuthService
	Audit     *service.AuditService
	Presence  *service.PresenceTracker
	Counter   port.ChangeCounter
	Store     Pinger
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
// Everything under /api except /api/login requires a Bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(d.Store, d.Logger))
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", loginHandler(d.Auth, d.Logger))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.Auth, d.Logger))

			r.Get("/me", meHandler())

			// Polling contract: presence ping + change counter.
			r.Post("/ping", pingHandler(d.Presence))
			r.Get("/version", versionHandler(d.Counter))
			r.Get("/presence", presenceHandler(d.Presence))

			// Finance summary & timeline.
			r.Get("/finance/summary", financeSummaryHandler(d.Summary, d.Metrics, d.Logger))
			r.Get("/finance/timeline", financeTimelineHandler(d.Summary, d.Metrics, d.Logger))

			// Transactions.
			r.Get("/transactions", listTransactionsHandler(d.Ledger, d.Logger))
			r.Post("/add", addTransactionHandler(d.Ledger, d.Logger))
			r.Delete("/delete/{id}", deleteTransactionHandler(d.Ledger, d.Logger))

			// Categories.
			r.Get("/categories", listCategoriesHandler(d.Ledger, d.Logger))
			r.Post("/categories", addCategoryHandler(d.Ledger, d.Logger))

			// Investors.
			r.Get("/investors", listInvestorsHandler(d.Ledger, d.Logger))
			r.Post("/investors", upsertInvestorHandler(d.Ledger, d.Logger))

			// Notes.
			r.Get("/notes", listNotesHandler(d.Notes, d.Logger))
			r.Post("/notes", addNoteHandler(d.Notes, d.Logger))
			r.Post("/notes/{id}/toggle", toggleNoteHandler(d.Notes, d.Logger))
			r.Delete("/notes/{id}", deleteNoteHandler(d.Notes, d.Logger))

			// Recurring costs.
			r.Get("/recurring", listRecurringHandler(d.Recurring, d.Logger))
			r.Get("/recurring/total", recurringTotalHandler(d.Recurring, d.Logger))
			r.Post("/recurring", addRecurringHandler(d.Recurring, d.Logger))
			r.Delete("/recurring/{id}", deleteRecurringHandler(d.Recurring, d.Logger))

			// Audit log and ops stats.
			r.Get("/audit", auditHandler(d.Audit, d.Logger))
			r.Get("/stats", statsHandler(d.Metrics))
		})
	})

	return r
}
