package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hivelog/hivelog-api/internal/api"
	apimiddleware "github.com/hivelog/hivelog-api/internal/api/middleware"
)

// setupRouter registers every route and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(apimiddleware.Trace(app.logger))
	r.Use(app.recorder.Middleware)
	r.Use(chimiddleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.tokenLifetime())
	batchHandler := api.NewBatchHandler(app.batchService, app.stageLabels)
	analyticsHandler := api.NewAnalyticsHandler(app.analyticsService, app.stageLabels)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.RequireAuth(app.jwtService))

			r.Route("/batches", func(r chi.Router) {
				r.Post("/", batchHandler.CreateBatch)
				r.Get("/", batchHandler.ListBatches)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", batchHandler.GetBatch)
					r.Put("/", batchHandler.UpdateBatch)
					r.Delete("/", batchHandler.DeleteBatch)
					r.Post("/cells", batchHandler.AddCells)
					r.Get("/cells", batchHandler.ListCells)
					r.Get("/metrics", analyticsHandler.BatchMetrics)
				})
			})

			r.Post("/cells/{id}/transitions", batchHandler.TransitionCell)
			r.Get("/analytics/fleet", analyticsHandler.FleetAnalytics)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.recorder.Handler())

	return r
}
