package service

import (
	"context"
	"sync"
	"time"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/internal/notify"
	"github.com/pocketplan/pocketsync/models"
)

// HealthSnapshot is the rolling view of recent sync behaviour shown in the
// status indicator.
type HealthSnapshot struct {
	Sessions        int                   `json:"sessions"`
	SuccessRate     float64               `json:"success_rate"`
	MeanDuration    time.Duration         `json:"mean_duration"`
	FailureReasons  map[string]int        `json:"failure_reasons"`
	LastOutcome     models.SessionOutcome `json:"last_outcome,omitempty"`
	LastCompletedAt time.Time             `json:"last_completed_at,omitempty"`
	Risk            float64               `json:"risk"`
}

type healthTracker struct {
	mu       sync.Mutex
	history  []models.Session
	reasons  map[string]int
	capacity int

	threshold float64
	warned    bool

	queue   Queue
	monitor NetworkMonitor
	sink    notify.Sink
	logger  *logger.Logger
}

// NewHealthTracker keeps a bounded history of completed sessions and a
// histogram of permanent operation failure reasons.
func NewHealthTracker(queue Queue, monitor NetworkMonitor, sink notify.Sink, historySize int, riskThreshold float64, log *logger.Logger) HealthTracker {
	if historySize <= 0 {
		historySize = 50
	}
	if riskThreshold <= 0 || riskThreshold > 1 {
		riskThreshold = 0.7
	}
	return &healthTracker{
		reasons:   make(map[string]int),
		capacity:  historySize,
		threshold: riskThreshold,
		queue:     queue,
		monitor:   monitor,
		sink:      sink,
		logger:    log,
	}
}

func (h *healthTracker) Record(session models.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, session)
	if len(h.history) > h.capacity {
		h.history = h.history[len(h.history)-h.capacity:]
	}

	if session.Outcome == models.OutcomeSuccess {
		// A clean cycle rearms the degradation warning.
		h.warned = false
	}
}

func (h *healthTracker) OperationFailed(opID, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reasons[reason]++

	h.logger.Warn().
		Str("op_id", opID).
		Str("reason", reason).
		Msg("permanent operation failure recorded")
}

func (h *healthTracker) PredictNextFailureRisk(ctx context.Context) float64 {
	h.mu.Lock()
	failRate := h.failureRateLocked()
	warned := h.warned
	h.mu.Unlock()

	tier := h.monitor.Sample().Tier

	var backlog float64
	if counts, err := h.queue.Counts(ctx); err == nil {
		pending := counts[models.OpPending] + counts[models.OpInFlight]
		backlog = min(float64(pending)/100, 1)
	}

	risk := 0.5*failRate + 0.3*tierWeight(tier) + 0.2*backlog

	if risk >= h.threshold && !warned {
		h.mu.Lock()
		h.warned = true
		h.mu.Unlock()
		h.sink.Notify(notify.Event{
			Severity: notify.SeverityWarning,
			Message:  "sync reliability is degrading",
			Context: map[string]any{
				"risk":         risk,
				"failure_rate": failRate,
				"network_tier": string(tier),
			},
		})
	}

	return risk
}

func (h *healthTracker) Snapshot(ctx context.Context) HealthSnapshot {
	risk := h.PredictNextFailureRisk(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	snap := HealthSnapshot{
		Sessions:       len(h.history),
		FailureReasons: make(map[string]int, len(h.reasons)),
		Risk:           risk,
	}
	for reason, n := range h.reasons {
		snap.FailureReasons[reason] = n
	}

	if len(h.history) == 0 {
		snap.SuccessRate = 1
		return snap
	}

	var successes int
	var total time.Duration
	for _, s := range h.history {
		if s.Outcome == models.OutcomeSuccess {
			successes++
		}
		total += s.Duration()
	}
	snap.SuccessRate = float64(successes) / float64(len(h.history))
	snap.MeanDuration = total / time.Duration(len(h.history))

	last := h.history[len(h.history)-1]
	snap.LastOutcome = last.Outcome
	snap.LastCompletedAt = last.CompletedAt

	return snap
}

func (h *healthTracker) failureRateLocked() float64 {
	if len(h.history) == 0 {
		return 0
	}
	var failures int
	for _, s := range h.history {
		if s.Outcome == models.OutcomeFailed {
			failures++
		}
	}
	return float64(failures) / float64(len(h.history))
}

func tierWeight(tier models.NetworkTier) float64 {
	switch tier {
	case models.TierExcellent:
		return 0
	case models.TierGood:
		return 0.1
	case models.TierFair:
		return 0.4
	case models.TierPoor:
		return 0.7
	default:
		return 1
	}
}
