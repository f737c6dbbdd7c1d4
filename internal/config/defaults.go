package config

import "time"

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Storage: Storage{
			DB: DB{DSN: "pocketsync.db"},
		},
		Sync: Sync{
			IntervalGood:        30 * time.Second,
			IntervalFair:        120 * time.Second,
			RetryCeiling:        5,
			BackoffBase:         2 * time.Second,
			BackoffCap:          5 * time.Minute,
			SuspendAfterOffline: 3,
			MaxBatchBytes:       256 << 10,
			DeferredEntityTypes: []string{"tag", "ui_pref"},
		},
		Health: Health{
			HistorySize:   50,
			RiskThreshold: 0.7,
		},
	}
}
