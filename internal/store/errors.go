package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a query or update targets a record
	// (identified by entity type and id) that does not exist locally.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrOperationNotFound is returned when a status transition targets an
	// operation-log entry that does not exist.
	ErrOperationNotFound = errors.New("operation was not found")

	// ErrInvalidTransition is returned when a status transition is requested
	// that the operation-log state machine does not allow (e.g. requeueing
	// an entry that is not in flight).
	ErrInvalidTransition = errors.New("invalid operation status transition")

	// ErrRecordStale is returned when a remote write would move a record's
	// synced version backwards, i.e. a replayed or out-of-date delta.
	ErrRecordStale = errors.New("record version is stale")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrStorage wraps any other sqlite-level failure. A storage error is
	// fatal to the current sync cycle; the next trigger retries.
	ErrStorage = errors.New("local storage failure")
)
