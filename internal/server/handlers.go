package server

import (
	"net/http"
	"time"

	"tls-constraints/internal/handlers"
	"tls-constraints/internal/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(middlewares.AppContextMiddleware(ctx))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
		AllowedMethods:   ctx.Config.CORS.AllowedMethods,
		AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
		ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
		AllowCredentials: ctx.Config.CORS.AllowCredentials,
		MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
	}))

	r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reservations", ctx.HandlerFunc(handlers.GETReservations))
		r.Get("/outstanding", ctx.HandlerFunc(handlers.GETOutstanding))

		r.Route("/tenants/{tenantID}", func(r chi.Router) {
			r.Post("/requests", ctx.HandlerFunc(handlers.POSTTenantRequest))
			r.Post("/revocations", ctx.HandlerFunc(handlers.POSTTenantRevocation))
			r.Get("/certificates", ctx.HandlerFunc(handlers.GETTenantCertificates))
		})

		r.Route("/upstream", func(r chi.Router) {
			r.Post("/certificates", ctx.HandlerFunc(handlers.POSTUpstreamCertificate))
			r.Post("/invalidations", ctx.HandlerFunc(handlers.POSTUpstreamInvalidation))
			r.Post("/invalidate-all", ctx.HandlerFunc(handlers.POSTUpstreamInvalidateAll))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}
