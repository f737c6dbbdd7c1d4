// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

// Package adapter provides transport-layer abstractions for communicating
// with the PocketPlan sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go separate the two failure classes the
// engine must treat differently: [TransportError] (retryable with backoff)
// and [RejectionError] (permanent, surfaced to the user). Callers match them
// with [errors.As] or the IsTransport / IsRejection helpers.
package adapter

import (
	"context"
	"time"

	"github.com/pocketplan/pocketsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, compression,
// and mapping transport-level errors to the types defined in this package.
type ServerAdapter interface {
	// Push sends a batch of queued operations to POST /sync/push. The server
	// applies push idempotently per operation id, so resending an
	// already-applied operation is a no-op success. When compress is true
	// the request body is gzip-encoded, trading CPU for bytes on
	// constrained links. Returns the per-operation accept/reject outcome,
	// or a *TransportError if the request never completed.
	Push(ctx context.Context, req models.PushRequest, compress bool) (models.PushResponse, error)

	// Pull requests remote deltas accumulated since cursor from
	// GET /sync/pull. An empty cursor asks for the full delta history. The
	// returned NextCursor must be persisted only after the deltas have been
	// applied locally.
	Pull(ctx context.Context, cursor string) (models.PullResponse, error)
}

// TransferObserver receives timings of real sync transfers. The network
// quality monitor implements it; measurement piggybacks on sync traffic so
// no probe requests are ever issued.
type TransferObserver interface {
	Observe(bytes int, duration time.Duration, err error)
}
