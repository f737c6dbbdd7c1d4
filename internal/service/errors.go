package service

import "errors"

var (
	// ErrInvalidOperation is returned by Enqueue when the caller supplies an
	// operation with a missing entity type/id or an unknown kind. Invalid
	// operations never enter the queue.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrManualResolutionRequired is returned when Resolve is asked to apply
	// the requireManual strategy without a manual payload. The affected
	// record stays dirty until a human or policy decides.
	ErrManualResolutionRequired = errors.New("conflict requires manual resolution")

	// ErrUnknownStrategy is returned when Resolve receives a strategy value
	// outside the supported set.
	ErrUnknownStrategy = errors.New("unknown resolution strategy")

	// ErrNotInFlight is returned when Requeue targets an operation that is
	// not currently in flight; only transport failures of pushed operations
	// may be requeued.
	ErrNotInFlight = errors.New("operation is not in flight")
)
