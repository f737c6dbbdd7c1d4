package service

import (
	"sync"
	"time"

	"github.com/pocketplan/pocketsync/models"
)

const sampleWindowSize = 10

type transferSample struct {
	bytes    int
	duration time.Duration
	failed   bool
	at       time.Time
}

type networkMonitor struct {
	mu        sync.Mutex
	window    []transferSample
	connected bool
}

// NewNetworkMonitor estimates connection quality from recent transfer
// outcomes. It starts connected with an empty window, which classifies
// as fair until real samples arrive.
func NewNetworkMonitor() NetworkMonitor {
	return &networkMonitor{connected: true}
}

func (m *networkMonitor) Observe(bytes int, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.window = append(m.window, transferSample{
		bytes:    bytes,
		duration: duration,
		failed:   err != nil,
		at:       time.Now().UTC(),
	})
	if len(m.window) > sampleWindowSize {
		m.window = m.window[len(m.window)-sampleWindowSize:]
	}
}

func (m *networkMonitor) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = connected
	if !connected {
		// Stale throughput numbers mislead the first cycle after a
		// reconnect, so the window resets with connectivity.
		m.window = nil
	}
}

func (m *networkMonitor) Sample() models.NetworkQuality {
	m.mu.Lock()
	defer m.mu.Unlock()

	quality := models.NetworkQuality{SampledAt: time.Now().UTC()}

	if !m.connected {
		quality.Tier = models.TierOffline
		return quality
	}

	var (
		totalBytes    int
		totalDuration time.Duration
		successes     int
	)
	for _, s := range m.window {
		if s.failed {
			continue
		}
		successes++
		totalBytes += s.bytes
		totalDuration += s.duration
	}

	if len(m.window) > 0 && successes == 0 {
		quality.Tier = models.TierOffline
		return quality
	}
	if successes == 0 || totalDuration == 0 {
		quality.Tier = models.TierFair
		return quality
	}

	quality.BandwidthKbps = float64(totalBytes) * 8 / totalDuration.Seconds() / 1000
	quality.LatencyMs = float64(totalDuration.Milliseconds()) / float64(successes)
	quality.Tier = classifyTier(quality.BandwidthKbps, quality.LatencyMs)

	return quality
}

func classifyTier(bandwidthKbps, latencyMs float64) models.NetworkTier {
	switch {
	case bandwidthKbps >= 5000 && latencyMs < 100:
		return models.TierExcellent
	case bandwidthKbps >= 1000 && latencyMs < 300:
		return models.TierGood
	case bandwidthKbps >= 250:
		return models.TierFair
	default:
		return models.TierPoor
	}
}
