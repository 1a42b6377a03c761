/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request, echoed in request logs
  2. RequestLogger: One zap line per request
  3. Metrics:       Prometheus request counter and latency histogram
  4. Recoverer:     Panic recovery (500 instead of crash), counted by Metrics
  5. CORS:          Cross-origin requests for the dashboards

ROUTE GROUPS:
  /api/summary          Overview figures
  /api/analytics/*      Sector, county, lender, loan, flag, performance, fund aggregates
  /api/projects/*       Filtered listing, filter options, project detail
  /api/loans/*          Loan listing and detail
  /api/officials/{id}   Official performance summary
  /api/tenders/{id}     Tender, bids and savings
  /api/contractors/{id} Contractor with its projects and bids
  /api/flags            Filtered citizen flags
  /api/flags/{id}       One flag with its project and audit trail
  /api/changelog        Audit trail
  /api/integrity        Integrity report
  /api/export.xlsx      Dashboard workbook
  /metrics              Prometheus exposition
  /healthz              Liveness

SECURITY NOTE:
  Every endpoint is read-only and public. The store cannot be modified over
  HTTP.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/uwazi/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter. A nil Metrics disables /metrics.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *Metrics
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/sectors", h.GetSectorBreakdown)
			r.Get("/counties", h.GetCountyBreakdown)
			r.Get("/lenders", h.GetLenderBreakdown)
			r.Get("/loans", h.GetLoanPortfolio)
			r.Get("/flags", h.GetFlagStats)
			r.Get("/performance", h.GetPerformanceStats)
			r.Get("/funds", h.GetFundSummary)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Get("/filters", h.GetFilterOptions)
			r.Get("/{id}", h.GetProject)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", h.ListLoans)
			r.Get("/{id}", h.GetLoan)
		})

		r.Get("/officials/{id}", h.GetOfficial)
		r.Get("/tenders/{id}", h.GetTender)
		r.Get("/contractors/{id}", h.GetContractor)
		r.Get("/flags", h.ListFlags)
		r.Get("/flags/{id}", h.GetFlag)
		r.Get("/changelog", h.ListChangeLog)
		r.Get("/integrity", h.GetIntegrity)
		r.Get("/export.xlsx", h.ExportWorkbook)
	})

	return r
}
