package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/models"
)

type recordingEngine struct {
	mu       sync.Mutex
	triggers []SyncTrigger
	wake     time.Duration
}

func (e *recordingEngine) RequestSync(_ context.Context, trigger SyncTrigger) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggers = append(e.triggers, trigger)
	return "session", nil
}

func (e *recordingEngine) State() EngineState { return StateIdle }

func (e *recordingEngine) LastSession() *models.Session { return nil }

func (e *recordingEngine) ManualConflicts() []models.Conflict { return nil }

func (e *recordingEngine) ResolveManual(context.Context, string, string, models.ResolutionStrategy, map[string]any) error {
	return nil
}

func (e *recordingEngine) NextWake() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wake
}

func (e *recordingEngine) seen() []SyncTrigger {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SyncTrigger, len(e.triggers))
	copy(out, e.triggers)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSyncJobManualTrigger(t *testing.T) {
	engine := &recordingEngine{wake: time.Hour}
	job := NewSyncJob(engine, NewNetworkMonitor(), logger.Nop())

	job.Start(context.Background())
	defer job.Stop()

	job.TriggerNow()

	waitFor(t, func() bool { return len(engine.seen()) == 1 })
	assert.Equal(t, TriggerManual, engine.seen()[0])
}

func TestSyncJobTimerTick(t *testing.T) {
	engine := &recordingEngine{wake: 20 * time.Millisecond}
	job := NewSyncJob(engine, NewNetworkMonitor(), logger.Nop())

	job.Start(context.Background())
	defer job.Stop()

	waitFor(t, func() bool { return len(engine.seen()) >= 2 })
	for _, trigger := range engine.seen()[:2] {
		assert.Equal(t, TriggerTimer, trigger)
	}
}

func TestSyncJobConnectivityRegainTriggers(t *testing.T) {
	engine := &recordingEngine{wake: time.Hour}
	monitor := NewNetworkMonitor()
	job := NewSyncJob(engine, monitor, logger.Nop())

	job.Start(context.Background())
	defer job.Stop()

	job.OnConnectivityChange(false)
	assert.Equal(t, models.TierOffline, monitor.Sample().Tier)

	job.OnConnectivityChange(true)
	waitFor(t, func() bool { return len(engine.seen()) == 1 })
	assert.Equal(t, TriggerConnectivity, engine.seen()[0])
}

func TestSyncJobStopIsIdempotent(t *testing.T) {
	engine := &recordingEngine{wake: time.Hour}
	job := NewSyncJob(engine, NewNetworkMonitor(), logger.Nop())

	job.Stop()

	job.Start(context.Background())
	job.Stop()
	job.Stop()
}
