// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

// Package client implements the sync client runtime.
//
// It wires local storage, the server adapter, the sync services, and the
// background scheduler into a single process lifecycle.
package client
