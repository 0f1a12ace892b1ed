/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RealIP:        Client address for rate limiting
  3. RequestLogger: slog line per request (logging.go)
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. CORS:          Cross-origin requests for the frontend
  6. Rate limit:    Per-IP request budget on /api (ulule/limiter)

ROUTE GROUPS:
  /api/employees/*   Profiles, ledgers, day transitions, categories
  /api/holidays      Generated holiday calendar
  /api/leave-types   Merged catalog of every employee
  /api/stats         Aggregation
  /api/reports       Yearly dashboard
  /healthz           Liveness
  /readyz            Readiness (store ping)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string
	// RateLimit uses limiter's formatted syntax, e.g. "300-M". Empty disables
	// rate limiting.
	RateLimit string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) (*chi.Mux, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var rateLimit func(http.Handler) http.Handler
	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("rate limit %q: %w", opts.RateLimit, err)
		}
		rateLimit = stdlib.NewMiddleware(limiter.New(limitermemory.NewStore(), rate)).Handler
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)

	r.Route("/api", func(r chi.Router) {
		if rateLimit != nil {
			r.Use(rateLimit)
		}

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)
				r.Delete("/", h.DeleteEmployee)
				r.Post("/activate", h.ActivateEmployee)

				r.Get("/ledger", h.GetLedger)
				r.Put("/ledger", h.ReplaceLedger)
				r.Put("/work-days", h.SetWorkDays)

				r.Post("/days/{date}", h.AssignDay)
				r.Delete("/days/{date}", h.ClearDay)
				r.Post("/days/{date}/approve", h.ApproveDay)

				r.Post("/leave-types", h.AddLeaveType)
				r.Put("/leave-types/{key}", h.UpdateLeaveType)
				r.Delete("/leave-types/{key}", h.RemoveLeaveType)

				r.Get("/summary", h.GetSummary)
				r.Get("/request-form", h.GetRequestForm)
			})
		})

		r.Get("/holidays", h.ListHolidays)
		r.Get("/leave-types", h.ListLeaveTypes)
		r.Get("/stats", h.GetStats)
		r.Get("/reports", h.GetReport)
	})

	return r, nil
}
