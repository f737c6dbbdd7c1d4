package client

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketplan/pocketsync/internal/adapter"
	"github.com/pocketplan/pocketsync/internal/config"
	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/internal/service"
	"github.com/pocketplan/pocketsync/internal/store"
	"github.com/pocketplan/pocketsync/internal/workers"
	"github.com/pocketplan/pocketsync/models"
)

// statusInterval is how often the runtime logs the pending-changes
// indicator while idle.
const statusInterval = time.Minute

// healthInterval is how often the failure-risk heuristic re-evaluates
// between sync cycles, so a growing backlog or a degrading link warns
// before the next session completes.
const healthInterval = 5 * time.Minute

type App struct {
	cfg      *config.StructuredConfig
	services *service.Services
	workers  *workers.Workers
	logger   *logger.Logger
}

// NewApp wires the whole client: storage, server adapter, services, and the
// background sync scheduler.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	monitor := service.NewNetworkMonitor()

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.BaseURL,
		Timeout: cfg.Adapter.RequestTimeout,
	}, monitor)

	sink := notify.NewLogSink(log)
	services := service.NewServices(storages, serverAdapter, monitor, sink, cfg, log)

	app := &App{
		cfg:      cfg,
		services: services,
		logger:   log,
	}
	app.workers = workers.NewWorkers(
		&syncWorker{job: services.Job},
		&healthWorker{health: services.Health},
	)

	return app, nil
}

// Run starts the background workers and blocks until the process receives an
// interrupt or termination signal.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.workers.Run()
	defer a.services.Job.Stop()

	a.logger.Info().Str("server", a.cfg.Adapter.BaseURL).Msg("sync client started")

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			a.logStatus(ctx)
		}
	}
}

// Services exposes the wired service graph so embedders can enqueue
// operations and resolve conflicts.
func (a *App) Services() *service.Services {
	return a.services
}

func (a *App) logStatus(ctx context.Context) {
	counts, err := a.services.Queue.Counts(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("queue depth unavailable")
		return
	}

	snapshot := a.services.Health.Snapshot(ctx)

	a.logger.Info().
		Int("pending", counts[models.OpPending]).
		Int("in_flight", counts[models.OpInFlight]).
		Int("failed", counts[models.OpFailed]).
		Int("conflicts", len(a.services.Engine.ManualConflicts())).
		Str("state", string(a.services.Engine.State())).
		Float64("success_rate", snapshot.SuccessRate).
		Float64("risk", snapshot.Risk).
		Msg("sync status")
}

// syncWorker adapts the scheduler to the Worker contract. Start spawns the
// scheduler goroutine and returns, matching Worker's non-blocking usage.
type syncWorker struct {
	job service.SyncJob
}

func (w *syncWorker) Run() {
	w.job.Start(context.Background())
}

// healthWorker ticks the failure-risk evaluation independently of sync
// cycles. The tracker itself emits the threshold warning.
type healthWorker struct {
	health service.HealthTracker
}

func (w *healthWorker) Run() {
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for range ticker.C {
			w.health.PredictNextFailureRisk(context.Background())
		}
	}()
}
