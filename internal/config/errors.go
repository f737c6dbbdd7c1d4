package config

import "errors"

var (
	ErrNoServerURL             = errors.New("no sync server base URL configured")
	ErrInvalidServerURL        = errors.New("invalid sync server base URL")
	ErrNonPositiveTimeout      = errors.New("request timeout must be positive")
	ErrNonPositiveRetryCeiling = errors.New("retry ceiling must be positive")
	ErrInvalidBackoff          = errors.New("backoff base must be positive and not exceed the cap")
	ErrInvalidRiskThreshold    = errors.New("risk threshold must be within [0,1]")
)
