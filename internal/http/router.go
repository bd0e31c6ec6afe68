package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/supersaver/internal/http/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/http/catalog"
	"github.com/MrJamesThe3rd/supersaver/internal/http/ledger"
	apimw "github.com/MrJamesThe3rd/supersaver/internal/http/middleware"
	"github.com/MrJamesThe3rd/supersaver/internal/http/report"
)

type Options struct {
	// JWTSecret enables bearer-token auth on /api/v1 when set.
	JWTSecret   []byte
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
	Metrics     http.Handler
}

func New(
	opts Options,
	catalogV1 *catalog.Handler,
	ledgerV1 *ledger.Handler,
	reportsV1 *report.Handler,
	billsV1 *bill.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(apimw.RateLimit(opts.RateLimit, opts.RateBurst))
		}

		if len(opts.JWTSecret) > 0 {
			r.Use(apimw.RequireJWT(opts.JWTSecret))
		}

		r.Route("/catalog", catalogV1.Routes)
		r.Route("/ledger", ledgerV1.Routes)

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reportsV1.Routes(r)
		})

		r.Route("/bills", billsV1.Routes)
	})

	return router
}
