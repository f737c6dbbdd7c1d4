// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package models

// PushRequest is the body of POST /sync/push. Push is idempotent per
// operation ID: the server treats a resent, already-applied operation as a
// no-op success.
type PushRequest struct {
	Operations []Operation `json:"operations"`
	Length     int         `json:"length"`
}

// RejectedOperation reports a server-side validation failure for a single
// operation. Rejections are permanent; the client must not retry them.
type RejectedOperation struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type PushResponse struct {
	Accepted []string            `json:"accepted"`
	Rejected []RejectedOperation `json:"rejected,omitempty"`
}

// PullResponse carries remote deltas since the cursor the client presented.
// NextCursor is an opaque, monotonic server-issued token; the client persists
// it after the deltas are applied.
type PullResponse struct {
	Deltas     []RemoteDelta `json:"deltas"`
	NextCursor string        `json:"next_cursor"`
}
