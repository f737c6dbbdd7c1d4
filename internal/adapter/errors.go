// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package adapter

import (
	"errors"
	"fmt"
)

// TransportError wraps a network-level failure: connection errors, timeouts,
// and server statuses that indicate a transient condition (5xx, 408, 429).
// Transport errors are retryable with backoff.
type TransportError struct {
	Op  string // "push" or "pull"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectionError reports a server-side validation failure. Rejections are
// permanent: the request was understood and refused, so retrying the same
// payload cannot succeed.
type RejectionError struct {
	OperationID string
	Reason      string
}

func (e *RejectionError) Error() string {
	if e.OperationID == "" {
		return fmt.Sprintf("server rejected request: %s", e.Reason)
	}
	return fmt.Sprintf("server rejected operation %s: %s", e.OperationID, e.Reason)
}

// IsTransport reports whether err is (or wraps) a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejection reports whether err is (or wraps) an application-level
// rejection.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
