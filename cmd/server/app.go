package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hivelog/hivelog-api/internal/api"
	"github.com/hivelog/hivelog-api/internal/config"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/hivelog/hivelog-api/internal/events"
	"github.com/hivelog/hivelog-api/internal/platform/metrics"
	"github.com/hivelog/hivelog-api/internal/platform/postgres"
	"github.com/hivelog/hivelog-api/internal/redact"
	"github.com/hivelog/hivelog-api/internal/service"
	"github.com/hivelog/hivelog-api/internal/service/auth"
	"github.com/hivelog/hivelog-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore  store.UserStore
	batchStore store.BatchStore
	cellStore  store.CellStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	batchService     service.BatchService
	analyticsService service.AnalyticsService

	recorder     *metrics.Recorder
	eventEmitter events.EventEmitter
	stageLabels  api.StageLabels
}

// newApplication wires stores, services and the event pipeline on top of an
// open database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		recorder:    metrics.NewRecorder(),
		stageLabels: api.DefaultStageLabels(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()
	logger.Info("authentication initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.batchStore = postgres.NewPostgresBatchStore(db, logger)
	app.cellStore = postgres.NewPostgresCellStore(db, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewTransitionCounter(app.recorder), events.EventTypeCellStageChanged)
	app.eventEmitter = emitter

	app.batchService, err = service.NewBatchService(db, app.batchStore, app.cellStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch service: %w", err)
	}

	alpha := cfg.Analytics.SmoothingAlpha
	params, err := funnel.NewParams(funnel.ParamsConfig{
		SmoothingAlpha: &alpha,
		ConfidenceZ:    cfg.Analytics.ConfidenceZ,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid analytics parameters: %w", err)
	}
	funnelService, err := funnel.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create funnel service: %w", err)
	}
	app.analyticsService, err = service.NewAnalyticsService(
		db, app.batchStore, app.cellStore, funnelService, app.recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}

	logger.Info("application initialized",
		slog.Float64("smoothing_alpha", params.SmoothingAlpha),
		slog.Float64("confidence_z", params.ConfidenceZ))
	return app, nil
}

func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", redact.ErrorAttr(err))
		}
	}
	app.logger.Info("application shutdown completed")
}
