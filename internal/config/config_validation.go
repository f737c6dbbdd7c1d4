// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a joined error listing every
// violated rule otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Adapter.BaseURL == "" {
		errs = append(errs, ErrNoServerURL)
	} else if _, err := url.ParseRequestURI(cfg.Adapter.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidServerURL, err))
	}

	if cfg.Adapter.RequestTimeout <= 0 {
		errs = append(errs, ErrNonPositiveTimeout)
	}
	if cfg.Sync.RetryCeiling <= 0 {
		errs = append(errs, ErrNonPositiveRetryCeiling)
	}
	if cfg.Sync.BackoffBase <= 0 || cfg.Sync.BackoffCap < cfg.Sync.BackoffBase {
		errs = append(errs, ErrInvalidBackoff)
	}
	if cfg.Health.RiskThreshold < 0 || cfg.Health.RiskThreshold > 1 {
		errs = append(errs, ErrInvalidRiskThreshold)
	}

	return errors.Join(errs...)
}
