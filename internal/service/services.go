package service

import (
	"github.com/pocketplan/pocketsync/internal/adapter"
	"github.com/pocketplan/pocketsync/internal/config"
	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/internal/store"
)

// Services bundles every domain service behind one constructor.
type Services struct {
	Queue    Queue
	Monitor  NetworkMonitor
	Resolver ConflictResolver
	Health   HealthTracker
	Engine   SyncEngine
	Job      SyncJob
}

// NewServices wires the service graph on top of the storage layer and the
// server adapter. The monitor is created by the caller because the adapter
// needs it as a transfer observer before the services exist.
func NewServices(
	storages *store.Storages,
	server adapter.ServerAdapter,
	monitor NetworkMonitor,
	sink notify.Sink,
	cfg *config.StructuredConfig,
	log *logger.Logger,
) *Services {
	queue := NewQueue(storages.OperationLog, storages.Records, sink, cfg.Sync.RetryCeiling, log)
	resolver := NewConflictResolver(log)
	health := NewHealthTracker(queue, monitor, sink, cfg.Health.HistorySize, cfg.Health.RiskThreshold, log)

	engine := NewSyncEngine(
		queue,
		monitor,
		resolver,
		health,
		server,
		storages.Records,
		storages.Meta,
		sink,
		EngineOptions{
			IntervalGood:        cfg.Sync.IntervalGood,
			IntervalFair:        cfg.Sync.IntervalFair,
			BackoffBase:         cfg.Sync.BackoffBase,
			BackoffCap:          cfg.Sync.BackoffCap,
			SuspendAfterOffline: cfg.Sync.SuspendAfterOffline,
			MaxBatchBytes:       cfg.Sync.MaxBatchBytes,
			DeferredEntityTypes: cfg.Sync.DeferredEntityTypes,
		},
		log,
	)

	return &Services{
		Queue:    queue,
		Monitor:  monitor,
		Resolver: resolver,
		Health:   health,
		Engine:   engine,
		Job:      NewSyncJob(engine, monitor, log),
	}
}
