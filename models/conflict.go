// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package models

type ConflictSeverity string

const (
	SeverityLow      ConflictSeverity = "low"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityHigh     ConflictSeverity = "high"
	SeverityCritical ConflictSeverity = "critical"
)

// ResolutionStrategy selects how a conflict is resolved.
type ResolutionStrategy string

const (
	PreferLocal          ResolutionStrategy = "prefer_local"
	PreferRemote         ResolutionStrategy = "prefer_remote"
	PreferNewerTimestamp ResolutionStrategy = "prefer_newer_timestamp"
	FieldMerge           ResolutionStrategy = "field_merge"
	RequireManual        ResolutionStrategy = "require_manual"
)

// FieldDiff is a per-field comparison between the local and remote versions
// of the same record.
type FieldDiff struct {
	Field       string `json:"field"`
	LocalValue  any    `json:"local_value"`
	RemoteValue any    `json:"remote_value"`
}

// Conflict is created transiently when both the local record and the remote
// copy advanced past the last common synced version. It lives only for the
// duration of the sync session that detected it.
type Conflict struct {
	EntityType string      `json:"entity_type"`
	ID         string      `json:"id"`
	Local      Record      `json:"local"`
	Remote     RemoteDelta `json:"remote"`
	FieldDiffs []FieldDiff `json:"field_diffs"`

	// LocalDeleted marks a modify/delete race where the deletion is local:
	// the record was removed by a queued delete operation while the server
	// kept editing it. Local carries no snapshot in that case.
	LocalDeleted bool `json:"local_deleted,omitempty"`

	Severity          ConflictSeverity   `json:"severity"`
	SuggestedStrategy ResolutionStrategy `json:"suggested_strategy"`

	// ResolvedBy records who decided: "auto", "policy" or "user".
	ResolvedBy string              `json:"resolved_by,omitempty"`
	Resolution *ResolutionStrategy `json:"resolution,omitempty"`
}

// OverlappingFields returns the names of fields that changed on both sides
// to different values. These are the fields a field merge cannot decide.
func (c Conflict) OverlappingFields() []string {
	var out []string
	for _, d := range c.FieldDiffs {
		if d.LocalValue != nil && d.RemoteValue != nil {
			out = append(out, d.Field)
		}
	}
	return out
}
