// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for pocketsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the build version.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote sync API endpoint settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the local embedded database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds scheduling, batching, and retry settings for the sync
	// engine and operation queue.
	Sync Sync `envPrefix:"SYNC_"`

	// Health holds settings for the health tracker's rolling aggregates.
	Health Health `envPrefix:"HEALTH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Adapter holds configuration for the remote sync API client.
type Adapter struct {
	// BaseURL is the root URL of the sync server
	// (e.g. "https://sync.pocketplan.app").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the hard timeout applied to each push and pull
	// request. Exceeding it is treated as a transport failure.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds the local embedded database settings.
type Storage struct {
	// DB holds the sqlite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local sqlite database.
type DB struct {
	// DSN is the sqlite file path, or ":memory:" for an ephemeral store.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync groups the tunables of the sync engine, scheduler, and queue.
type Sync struct {
	// IntervalGood is the timer interval used on excellent and good links.
	// Env: SYNC_INTERVAL_GOOD
	IntervalGood time.Duration `env:"INTERVAL_GOOD"`

	// IntervalFair is the timer interval used on fair links. On poor links
	// the timer is disabled and sync runs only on explicit request.
	// Env: SYNC_INTERVAL_FAIR
	IntervalFair time.Duration `env:"INTERVAL_FAIR"`

	// RetryCeiling is the number of transport-failure attempts after which
	// an operation is marked failed instead of requeued.
	// Env: SYNC_RETRY_CEILING
	RetryCeiling int `env:"RETRY_CEILING"`

	// BackoffBase is the initial delay of the exponential retry backoff.
	// Env: SYNC_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffCap is the upper bound of the retry backoff.
	// Env: SYNC_BACKOFF_CAP
	BackoffCap time.Duration `env:"BACKOFF_CAP"`

	// SuspendAfterOffline is the number of consecutive offline triggers
	// after which the engine enters the Suspended state.
	// Env: SYNC_SUSPEND_AFTER_OFFLINE
	SuspendAfterOffline int `env:"SUSPEND_AFTER_OFFLINE"`

	// MaxBatchBytes caps the serialised size of a single push batch.
	// Env: SYNC_MAX_BATCH_BYTES
	MaxBatchBytes int `env:"MAX_BATCH_BYTES"`

	// DeferredEntityTypes lists entity types that are held back on poor
	// links until the connection improves.
	// Env: SYNC_DEFERRED_ENTITY_TYPES (comma-separated)
	DeferredEntityTypes []string `env:"DEFERRED_ENTITY_TYPES"`
}

// Health holds settings for the health tracker.
type Health struct {
	// HistorySize is the number of completed sessions kept for rolling
	// aggregates.
	// Env: HEALTH_HISTORY_SIZE
	HistorySize int `env:"HISTORY_SIZE"`

	// RiskThreshold is the PredictNextFailureRisk score above which a
	// warning event is emitted.
	// Env: HEALTH_RISK_THRESHOLD
	RiskThreshold float64 `env:"RISK_THRESHOLD"`
}
