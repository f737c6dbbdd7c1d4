package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
	} `json:"app,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		IntervalGood        Duration `json:"interval_good"`
		IntervalFair        Duration `json:"interval_fair"`
		RetryCeiling        int      `json:"retry_ceiling"`
		BackoffBase         Duration `json:"backoff_base"`
		BackoffCap          Duration `json:"backoff_cap"`
		SuspendAfterOffline int      `json:"suspend_after_offline"`
		MaxBatchBytes       int      `json:"max_batch_bytes"`
		DeferredEntityTypes []string `json:"deferred_entity_types"`
	} `json:"sync,omitempty"`

	Health struct {
		HistorySize   int     `json:"history_size"`
		RiskThreshold float64 `json:"risk_threshold"`
	} `json:"health,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			IntervalGood:        time.Duration(jsonCfg.Sync.IntervalGood),
			IntervalFair:        time.Duration(jsonCfg.Sync.IntervalFair),
			RetryCeiling:        jsonCfg.Sync.RetryCeiling,
			BackoffBase:         time.Duration(jsonCfg.Sync.BackoffBase),
			BackoffCap:          time.Duration(jsonCfg.Sync.BackoffCap),
			SuspendAfterOffline: jsonCfg.Sync.SuspendAfterOffline,
			MaxBatchBytes:       jsonCfg.Sync.MaxBatchBytes,
			DeferredEntityTypes: jsonCfg.Sync.DeferredEntityTypes,
		},
		Health: Health{
			HistorySize:   jsonCfg.Health.HistorySize,
			RiskThreshold: jsonCfg.Health.RiskThreshold,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
