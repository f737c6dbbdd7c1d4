// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigBuilder_DefaultsOnly verifies that building from defaults alone
// produces a valid configuration with all documented default values.
func TestConfigBuilder_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Sync.IntervalGood)
	assert.Equal(t, 120*time.Second, cfg.Sync.IntervalFair)
	assert.Equal(t, 5, cfg.Sync.RetryCeiling)
	assert.Equal(t, 2*time.Second, cfg.Sync.BackoffBase)
	assert.Equal(t, 5*time.Minute, cfg.Sync.BackoffCap)
	assert.Equal(t, 50, cfg.Health.HistorySize)
	assert.InDelta(t, 0.7, cfg.Health.RiskThreshold, 1e-9)
}

// TestConfigBuilder_HigherPriorityWins verifies that a value from an earlier
// source is not overridden by defaults merged afterwards.
func TestConfigBuilder_HigherPriorityWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter: Adapter{BaseURL: "https://sync.example.com"},
		Sync:    Sync{RetryCeiling: 9},
	})
	cfg, err := b.withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "https://sync.example.com", cfg.Adapter.BaseURL)
	assert.Equal(t, 9, cfg.Sync.RetryCeiling)
	// untouched fields still come from defaults
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
}

// TestConfigValidation_Errors verifies that a broken configuration reports
// every violated rule.
func TestConfigValidation_Errors(t *testing.T) {
	cfg := &StructuredConfig{
		Adapter: Adapter{BaseURL: "", RequestTimeout: 0},
		Sync:    Sync{RetryCeiling: 0, BackoffBase: 0},
		Health:  Health{RiskThreshold: 2},
	}

	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoServerURL)
	assert.ErrorIs(t, err, ErrNonPositiveTimeout)
	assert.ErrorIs(t, err, ErrNonPositiveRetryCeiling)
	assert.ErrorIs(t, err, ErrInvalidBackoff)
	assert.ErrorIs(t, err, ErrInvalidRiskThreshold)
}

// TestParseJSON_File verifies JSON parsing including duration strings.
func TestParseJSON_File(t *testing.T) {
	path := t.TempDir() + "/cfg.json"
	payload := `{
		"adapter": {"base_url": "https://json.example.com", "request_timeout": "45s"},
		"sync": {"interval_fair": "90s", "retry_ceiling": 3},
		"health": {"risk_threshold": 0.5}
	}`
	require.NoError(t, writeFile(path, payload))

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "https://json.example.com", cfg.Adapter.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.Sync.IntervalFair)
	assert.Equal(t, 3, cfg.Sync.RetryCeiling)
	assert.InDelta(t, 0.5, cfg.Health.RiskThreshold, 1e-9)
}
