package service

import (
	"context"
	"sync"
	"time"

	"github.com/pocketplan/pocketsync/internal/logger"
)

// manualPoll is how often the scheduler rechecks the engine when it reports
// no timer interval (poor or offline link, or suspended).
const manualPoll = 15 * time.Second

type syncJob struct {
	engine  SyncEngine
	monitor NetworkMonitor
	logger  *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan SyncTrigger
}

// NewSyncJob builds the scheduler that drives the engine from timer ticks,
// connectivity changes, and manual requests.
func NewSyncJob(engine SyncEngine, monitor NetworkMonitor, log *logger.Logger) SyncJob {
	return &syncJob{
		engine:  engine,
		monitor: monitor,
		logger:  log,
		trigger: make(chan SyncTrigger, 1),
	}
}

func (j *syncJob) Start(ctx context.Context) {
	j.Stop()

	ctx, cancel := context.WithCancel(ctx)

	j.mu.Lock()
	j.cancel = cancel
	j.done = make(chan struct{})
	done := j.done
	j.mu.Unlock()

	go j.run(ctx, done)
}

func (j *syncJob) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	j.logger.Info().Msg("sync scheduler started")

	for {
		wait := j.engine.NextWake()
		if wait <= 0 {
			wait = manualPoll
		}
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info().Msg("sync scheduler stopped")
			return

		case trigger := <-j.trigger:
			timer.Stop()
			j.sync(ctx, trigger)

		case <-timer.C:
			if j.engine.NextWake() <= 0 {
				// Manual-only mode, the tick was just a recheck.
				continue
			}
			j.sync(ctx, TriggerTimer)
		}
	}
}

func (j *syncJob) sync(ctx context.Context, trigger SyncTrigger) {
	if _, err := j.engine.RequestSync(ctx, trigger); err != nil {
		j.logger.Error().Err(err).Str("trigger", string(trigger)).Msg("sync cycle error")
	}
}

func (j *syncJob) TriggerNow() {
	select {
	case j.trigger <- TriggerManual:
	default:
	}
}

func (j *syncJob) OnConnectivityChange(connected bool) {
	j.monitor.SetConnected(connected)

	if !connected {
		return
	}
	select {
	case j.trigger <- TriggerConnectivity:
	default:
	}
}

func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	done := j.done
	j.cancel = nil
	j.done = nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
