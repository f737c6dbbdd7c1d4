package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-s server base URL
//	-d local sqlite database path
//	-c/-config json file path with configs
//	-request-timeout push/pull request timeout (e.g., "30s", "1m")
//	-sync-interval timer interval on good links (e.g., "30s")
//	-retry-ceiling transport retry ceiling before an operation is failed
//	-deferred comma-separated entity types deferred on poor links
func ParseFlags() *StructuredConfig {
	var serverURL string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var retryCeiling int
	var deferred string

	flag.StringVar(&serverURL, "s", "", "Sync server base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local sqlite database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Sync interval on good links (e.g., 30s)")
	flag.IntVar(&retryCeiling, "retry-ceiling", 0, "Transport retry ceiling")
	flag.StringVar(&deferred, "deferred", "", "Entity types deferred on poor links (comma-separated)")

	flag.Parse()

	var deferredTypes []string
	if deferred != "" {
		for _, t := range strings.Split(deferred, ",") {
			if t = strings.TrimSpace(t); t != "" {
				deferredTypes = append(deferredTypes, t)
			}
		}
	}

	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        serverURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			IntervalGood:        syncInterval,
			RetryCeiling:        retryCeiling,
			DeferredEntityTypes: deferredTypes,
		},
		JSONFilePath: jsonConfigPath,
	}
}
