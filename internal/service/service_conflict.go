// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketPlan Authors

package service

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/models"
)

type conflictResolver struct {
	critical map[string]bool
	high     map[string]bool
	medium   map[string]bool
	logger   *logger.Logger
}

// NewConflictResolver constructs a resolver with the default field classes.
func NewConflictResolver(log *logger.Logger) ConflictResolver {
	return NewConflictResolverWithClasses(models.CriticalFields, models.HighFields, models.MediumFields, log)
}

// NewConflictResolverWithClasses lets the application override which payload
// fields count as critical, high and medium. Unknown fields classify as low.
func NewConflictResolverWithClasses(critical, high, medium []string, log *logger.Logger) ConflictResolver {
	return &conflictResolver{
		critical: toSet(critical),
		high:     toSet(high),
		medium:   toSet(medium),
		logger:   log,
	}
}

func toSet(fields []string) map[string]bool {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func (r *conflictResolver) Detect(local models.Record, remote models.RemoteDelta, localDelta map[string]any) *models.Conflict {
	localChanged := local.Dirty && len(localDelta) > 0
	remoteChanged := remote.RemoteVersion > local.LastSyncedVersion

	if !localChanged || !remoteChanged {
		return nil
	}

	// The diff covers every field either side touched. A nil on one side
	// means that side left the field alone.
	fields := make(map[string]bool, len(localDelta)+len(remote.Payload))
	for f := range localDelta {
		fields[f] = true
	}
	for f := range remote.Payload {
		fields[f] = true
	}

	var diffs []models.FieldDiff
	for f := range fields {
		localVal, localOK := localDelta[f]
		remoteVal, remoteOK := remote.Payload[f]
		if localOK && remoteOK && reflect.DeepEqual(localVal, remoteVal) {
			// Both sides converged on the same value.
			continue
		}
		diff := models.FieldDiff{Field: f}
		if localOK {
			diff.LocalValue = localVal
		}
		if remoteOK {
			diff.RemoteValue = remoteVal
		}
		diffs = append(diffs, diff)
	}

	if len(diffs) == 0 {
		return nil
	}

	conflict := &models.Conflict{
		EntityType: local.EntityType,
		ID:         local.ID,
		Local:      local,
		Remote:     remote,
		FieldDiffs: diffs,
	}
	conflict.Severity = r.Classify(*conflict)
	conflict.SuggestedStrategy = r.SuggestResolution(*conflict)

	r.logger.Debug().
		Str("entity_type", conflict.EntityType).
		Str("entity_id", conflict.ID).
		Str("severity", string(conflict.Severity)).
		Int("fields", len(diffs)).
		Msg("conflict detected")

	return conflict
}

func (r *conflictResolver) Classify(conflict models.Conflict) models.ConflictSeverity {
	severity := models.SeverityLow
	for _, d := range conflict.FieldDiffs {
		switch {
		case r.critical[d.Field]:
			return models.SeverityCritical
		case r.high[d.Field]:
			severity = models.SeverityHigh
		case r.medium[d.Field] && severity != models.SeverityHigh:
			severity = models.SeverityMedium
		}
	}
	return severity
}

func (r *conflictResolver) SuggestResolution(conflict models.Conflict) models.ResolutionStrategy {
	if conflict.Severity == models.SeverityCritical {
		return models.RequireManual
	}

	if conflict.Severity == models.SeverityHigh {
		if conflict.Remote.RemoteUpdatedAt.After(conflict.Local.UpdatedAt) {
			return models.PreferRemote
		}
		return models.PreferLocal
	}

	// Medium and low conflicts merge cleanly when the two sides touched
	// disjoint fields.
	if len(conflict.OverlappingFields()) == 0 {
		return models.FieldMerge
	}
	return models.PreferNewerTimestamp
}

func (r *conflictResolver) Resolve(conflict models.Conflict, strategy models.ResolutionStrategy, manualPayload map[string]any) (models.Record, *models.Conflict, error) {
	switch strategy {
	case models.PreferLocal:
		return r.finalize(conflict, conflict.Local.Payload, strategy, "auto"), nil, nil

	case models.PreferRemote:
		merged, err := mergeRemote(conflict.Local.Payload, conflict.Remote.Payload)
		if err != nil {
			return models.Record{}, nil, err
		}
		return r.finalize(conflict, merged, strategy, "auto"), nil, nil

	case models.PreferNewerTimestamp:
		if conflict.Remote.RemoteUpdatedAt.After(conflict.Local.UpdatedAt) {
			return r.Resolve(conflict, models.PreferRemote, nil)
		}
		return r.Resolve(conflict, models.PreferLocal, nil)

	case models.FieldMerge:
		return r.fieldMerge(conflict)

	case models.RequireManual:
		if manualPayload == nil {
			return models.Record{}, nil, fmt.Errorf("%w: %s/%s", ErrManualResolutionRequired, conflict.EntityType, conflict.ID)
		}
		return r.finalize(conflict, manualPayload, strategy, "user"), nil, nil

	default:
		return models.Record{}, nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// fieldMerge takes the local value for locally-changed fields and the remote
// value for remotely-changed fields. Fields that changed on both sides are
// left at their local value and come back as a residual conflict requiring a
// manual decision.
func (r *conflictResolver) fieldMerge(conflict models.Conflict) (models.Record, *models.Conflict, error) {
	merged := make(map[string]any, len(conflict.Local.Payload))
	for k, v := range conflict.Local.Payload {
		merged[k] = v
	}

	overlapping := toSet(conflict.OverlappingFields())
	for _, d := range conflict.FieldDiffs {
		if overlapping[d.Field] {
			continue
		}
		if d.RemoteValue != nil && d.LocalValue == nil {
			merged[d.Field] = d.RemoteValue
		}
	}

	record := r.finalize(conflict, merged, models.FieldMerge, "auto")

	if len(overlapping) == 0 {
		return record, nil, nil
	}

	var residualDiffs []models.FieldDiff
	for _, d := range conflict.FieldDiffs {
		if overlapping[d.Field] {
			residualDiffs = append(residualDiffs, d)
		}
	}
	residual := &models.Conflict{
		EntityType:        conflict.EntityType,
		ID:                conflict.ID,
		Local:             conflict.Local,
		Remote:            conflict.Remote,
		FieldDiffs:        residualDiffs,
		SuggestedStrategy: models.RequireManual,
	}
	residual.Severity = r.Classify(*residual)

	return record, residual, nil
}

func (r *conflictResolver) finalize(conflict models.Conflict, payload map[string]any, strategy models.ResolutionStrategy, resolvedBy string) models.Record {
	record := conflict.Local
	record.Payload = payload
	record.LastSyncedVersion = conflict.Remote.RemoteVersion
	record.LocalVersion = conflict.Remote.RemoteVersion
	record.Dirty = false
	if conflict.Remote.RemoteUpdatedAt.After(record.UpdatedAt) {
		record.UpdatedAt = conflict.Remote.RemoteUpdatedAt
	}

	r.logger.Info().
		Str("entity_type", record.EntityType).
		Str("entity_id", record.ID).
		Str("strategy", string(strategy)).
		Str("resolved_by", resolvedBy).
		Msg("conflict resolved")

	return record
}

func (r *conflictResolver) BulkResolve(conflicts []models.Conflict, policy models.ResolutionStrategy) (resolved []models.Record, skipped int) {
	for _, c := range conflicts {
		if c.Severity == models.SeverityCritical || policy == models.RequireManual {
			skipped++
			continue
		}
		record, residual, err := r.Resolve(c, policy, nil)
		if err != nil || residual != nil {
			skipped++
			continue
		}
		resolved = append(resolved, record)
	}
	return resolved, skipped
}

// mergeRemote overlays the remotely-changed fields on top of the local
// payload, keeping local fields the delta never mentions.
func mergeRemote(local, remoteDelta map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(local))
	for k, v := range local {
		merged[k] = v
	}
	if err := mergo.Merge(&merged, remoteDelta, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge remote delta: %w", err)
	}
	return merged, nil
}
