package models

import "time"

type NetworkTier string

const (
	TierExcellent NetworkTier = "excellent"
	TierGood      NetworkTier = "good"
	TierFair      NetworkTier = "fair"
	TierPoor      NetworkTier = "poor"
	TierOffline   NetworkTier = "offline"
)

// NetworkQuality is a point-in-time classification of the link, derived from
// recent real transfer timings rather than dedicated probe traffic.
type NetworkQuality struct {
	Tier          NetworkTier `json:"tier"`
	BandwidthKbps float64     `json:"estimated_bandwidth_kbps"`
	LatencyMs     float64     `json:"estimated_latency_ms"`
	SampledAt     time.Time   `json:"sampled_at"`
}

// Online reports whether the tier allows any sync traffic at all.
func (q NetworkQuality) Online() bool {
	return q.Tier != TierOffline
}
