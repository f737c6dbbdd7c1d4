package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pocketplan/pocketsync/models"
)

func TestNetworkMonitorTiers(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int
		duration time.Duration
		want     models.NetworkTier
	}{
		{
			// 80 KB in 50ms is 12.8 Mbps.
			name:  "excellent",
			bytes: 80_000, duration: 50 * time.Millisecond,
			want: models.TierExcellent,
		},
		{
			// 50 KB in 200ms is 2 Mbps at 200ms latency.
			name:  "good",
			bytes: 50_000, duration: 200 * time.Millisecond,
			want: models.TierGood,
		},
		{
			// 25 KB in 500ms is 400 Kbps.
			name:  "fair",
			bytes: 25_000, duration: 500 * time.Millisecond,
			want: models.TierFair,
		},
		{
			// 5 KB in 2s is 20 Kbps.
			name:  "poor",
			bytes: 5_000, duration: 2 * time.Second,
			want: models.TierPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := NewNetworkMonitor()
			monitor.Observe(tt.bytes, tt.duration, nil)

			quality := monitor.Sample()
			assert.Equal(t, tt.want, quality.Tier)
			assert.True(t, quality.Online())
		})
	}
}

func TestNetworkMonitorEmptyWindowIsFair(t *testing.T) {
	monitor := NewNetworkMonitor()

	assert.Equal(t, models.TierFair, monitor.Sample().Tier)
}

func TestNetworkMonitorDisconnected(t *testing.T) {
	monitor := NewNetworkMonitor()
	monitor.Observe(80_000, 50*time.Millisecond, nil)

	monitor.SetConnected(false)
	assert.Equal(t, models.TierOffline, monitor.Sample().Tier)
	assert.False(t, monitor.Sample().Online())

	// Reconnecting drops the stale window and starts from fair.
	monitor.SetConnected(true)
	assert.Equal(t, models.TierFair, monitor.Sample().Tier)
}

func TestNetworkMonitorAllRecentFailuresMeansOffline(t *testing.T) {
	monitor := NewNetworkMonitor()
	for i := 0; i < 3; i++ {
		monitor.Observe(0, time.Second, errors.New("dial tcp: connection refused"))
	}

	assert.Equal(t, models.TierOffline, monitor.Sample().Tier)
}

func TestNetworkMonitorWindowIsBounded(t *testing.T) {
	monitor := NewNetworkMonitor()

	// Ten slow samples, then ten fast ones push them all out.
	for i := 0; i < sampleWindowSize; i++ {
		monitor.Observe(5_000, 2*time.Second, nil)
	}
	for i := 0; i < sampleWindowSize; i++ {
		monitor.Observe(80_000, 50*time.Millisecond, nil)
	}

	assert.Equal(t, models.TierExcellent, monitor.Sample().Tier)
}
