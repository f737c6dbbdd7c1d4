package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketplan/pocketsync/internal/logger"
	"github.com/pocketplan/pocketsync/models"
)

var (
	older = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer = time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)
)

func localRecord(payload map[string]any, dirty bool) models.Record {
	return models.Record{
		EntityType:        "transaction",
		ID:                "tx-1",
		Payload:           payload,
		LocalVersion:      3,
		LastSyncedVersion: 2,
		UpdatedAt:         older,
		Dirty:             dirty,
	}
}

func remoteDelta(payload map[string]any, version int64) models.RemoteDelta {
	return models.RemoteDelta{
		EntityType:      "transaction",
		ID:              "tx-1",
		Payload:         payload,
		RemoteVersion:   version,
		RemoteUpdatedAt: newer,
	}
}

func TestDetectNoConflictWhenOnlyOneSideChanged(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	t.Run("only remote changed", func(t *testing.T) {
		local := localRecord(map[string]any{"amount": 10.0}, false)
		remote := remoteDelta(map[string]any{"amount": 20.0}, 3)

		assert.Nil(t, resolver.Detect(local, remote, nil))
	})

	t.Run("only local changed", func(t *testing.T) {
		local := localRecord(map[string]any{"amount": 10.0}, true)
		remote := remoteDelta(map[string]any{"amount": 10.0}, 2)

		assert.Nil(t, resolver.Detect(local, remote, map[string]any{"amount": 10.0}))
	})

	t.Run("both converged on the same value", func(t *testing.T) {
		local := localRecord(map[string]any{"category": "food"}, true)
		remote := remoteDelta(map[string]any{"category": "food"}, 3)

		assert.Nil(t, resolver.Detect(local, remote, map[string]any{"category": "food"}))
	})
}

func TestDetectBuildsFieldDiffs(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	local := localRecord(map[string]any{"tag": "A", "color": "red"}, true)
	remote := remoteDelta(map[string]any{"color": "blue"}, 3)

	conflict := resolver.Detect(local, remote, map[string]any{"tag": "A"})
	require.NotNil(t, conflict)
	require.Len(t, conflict.FieldDiffs, 2)
	assert.Empty(t, conflict.OverlappingFields())
	assert.Equal(t, models.SeverityMedium, conflict.Severity)
	assert.Equal(t, models.FieldMerge, conflict.SuggestedStrategy)
}

func TestClassify(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	tests := []struct {
		name  string
		diffs []models.FieldDiff
		want  models.ConflictSeverity
	}{
		{
			name:  "balance is critical",
			diffs: []models.FieldDiff{{Field: "balance", LocalValue: 1.0, RemoteValue: 2.0}},
			want:  models.SeverityCritical,
		},
		{
			name:  "category is high",
			diffs: []models.FieldDiff{{Field: "category", LocalValue: "food", RemoteValue: "rent"}},
			want:  models.SeverityHigh,
		},
		{
			name:  "tag is medium",
			diffs: []models.FieldDiff{{Field: "tag", LocalValue: "a", RemoteValue: "b"}},
			want:  models.SeverityMedium,
		},
		{
			name:  "unknown field is low",
			diffs: []models.FieldDiff{{Field: "note", LocalValue: "a", RemoteValue: "b"}},
			want:  models.SeverityLow,
		},
		{
			name: "highest field wins",
			diffs: []models.FieldDiff{
				{Field: "note", LocalValue: "a", RemoteValue: "b"},
				{Field: "amount", LocalValue: 1.0, RemoteValue: 2.0},
			},
			want: models.SeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity := resolver.Classify(models.Conflict{FieldDiffs: tt.diffs})
			assert.Equal(t, tt.want, severity)
		})
	}
}

func TestSuggestResolution(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	t.Run("critical requires manual", func(t *testing.T) {
		conflict := models.Conflict{Severity: models.SeverityCritical}
		assert.Equal(t, models.RequireManual, resolver.SuggestResolution(conflict))
	})

	t.Run("high prefers the newer side", func(t *testing.T) {
		conflict := models.Conflict{
			Severity: models.SeverityHigh,
			Local:    localRecord(nil, true),
			Remote:   remoteDelta(nil, 3),
		}
		assert.Equal(t, models.PreferRemote, resolver.SuggestResolution(conflict))

		conflict.Local.UpdatedAt = newer.Add(time.Hour)
		assert.Equal(t, models.PreferLocal, resolver.SuggestResolution(conflict))
	})

	t.Run("disjoint medium merges", func(t *testing.T) {
		conflict := models.Conflict{
			Severity: models.SeverityMedium,
			FieldDiffs: []models.FieldDiff{
				{Field: "tag", LocalValue: "A"},
				{Field: "color", RemoteValue: "blue"},
			},
		}
		assert.Equal(t, models.FieldMerge, resolver.SuggestResolution(conflict))
	})

	t.Run("overlapping low falls back to timestamps", func(t *testing.T) {
		conflict := models.Conflict{
			Severity: models.SeverityLow,
			FieldDiffs: []models.FieldDiff{
				{Field: "note", LocalValue: "a", RemoteValue: "b"},
			},
		}
		assert.Equal(t, models.PreferNewerTimestamp, resolver.SuggestResolution(conflict))
	})
}

func TestResolveStrategies(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	local := localRecord(map[string]any{"amount": 10.0, "note": "lunch"}, true)
	remote := remoteDelta(map[string]any{"amount": 20.0}, 5)
	conflict := models.Conflict{
		EntityType: "transaction",
		ID:         "tx-1",
		Local:      local,
		Remote:     remote,
		FieldDiffs: []models.FieldDiff{{Field: "amount", LocalValue: 10.0, RemoteValue: 20.0}},
	}

	t.Run("prefer local", func(t *testing.T) {
		record, residual, err := resolver.Resolve(conflict, models.PreferLocal, nil)
		require.NoError(t, err)
		assert.Nil(t, residual)
		assert.Equal(t, 10.0, record.Payload["amount"])
		assert.Equal(t, int64(5), record.LastSyncedVersion)
		assert.False(t, record.Dirty)
	})

	t.Run("prefer remote keeps untouched local fields", func(t *testing.T) {
		record, residual, err := resolver.Resolve(conflict, models.PreferRemote, nil)
		require.NoError(t, err)
		assert.Nil(t, residual)
		assert.Equal(t, 20.0, record.Payload["amount"])
		assert.Equal(t, "lunch", record.Payload["note"])
	})

	t.Run("prefer newer timestamp picks remote here", func(t *testing.T) {
		record, _, err := resolver.Resolve(conflict, models.PreferNewerTimestamp, nil)
		require.NoError(t, err)
		assert.Equal(t, 20.0, record.Payload["amount"])
	})

	t.Run("manual without payload is refused", func(t *testing.T) {
		_, _, err := resolver.Resolve(conflict, models.RequireManual, nil)
		assert.ErrorIs(t, err, ErrManualResolutionRequired)
	})

	t.Run("manual with payload wins", func(t *testing.T) {
		record, residual, err := resolver.Resolve(conflict, models.RequireManual, map[string]any{"amount": 15.0})
		require.NoError(t, err)
		assert.Nil(t, residual)
		assert.Equal(t, 15.0, record.Payload["amount"])
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, _, err := resolver.Resolve(conflict, "coin_flip", nil)
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})
}

func TestFieldMergeDisjointSides(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	local := localRecord(map[string]any{"tag": "A", "color": "red"}, true)
	remote := remoteDelta(map[string]any{"color": "blue"}, 4)

	conflict := resolver.Detect(local, remote, map[string]any{"tag": "A"})
	require.NotNil(t, conflict)

	record, residual, err := resolver.Resolve(*conflict, models.FieldMerge, nil)
	require.NoError(t, err)
	assert.Nil(t, residual)
	assert.Equal(t, "A", record.Payload["tag"])
	assert.Equal(t, "blue", record.Payload["color"])
}

func TestFieldMergeEscalatesOverlappingFieldsOnly(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	local := localRecord(map[string]any{"tag": "A", "color": "red"}, true)
	remote := remoteDelta(map[string]any{"tag": "B", "color": "blue"}, 4)

	conflict := resolver.Detect(local, remote, map[string]any{"tag": "A"})
	require.NotNil(t, conflict)

	record, residual, err := resolver.Resolve(*conflict, models.FieldMerge, nil)
	require.NoError(t, err)

	// Color changed only remotely and merges; tag changed on both sides
	// and comes back for a manual decision.
	assert.Equal(t, "blue", record.Payload["color"])
	assert.Equal(t, "A", record.Payload["tag"])

	require.NotNil(t, residual)
	assert.Equal(t, models.RequireManual, residual.SuggestedStrategy)
	require.Len(t, residual.FieldDiffs, 1)
	assert.Equal(t, "tag", residual.FieldDiffs[0].Field)
}

func TestBulkResolve(t *testing.T) {
	resolver := NewConflictResolver(logger.Nop())

	benign := models.Conflict{
		Local:      localRecord(map[string]any{"note": "a"}, true),
		Remote:     remoteDelta(map[string]any{"note": "b"}, 4),
		FieldDiffs: []models.FieldDiff{{Field: "note", LocalValue: "a", RemoteValue: "b"}},
		Severity:   models.SeverityLow,
	}
	critical := models.Conflict{
		Local:      localRecord(map[string]any{"balance": 1.0}, true),
		Remote:     remoteDelta(map[string]any{"balance": 2.0}, 4),
		FieldDiffs: []models.FieldDiff{{Field: "balance", LocalValue: 1.0, RemoteValue: 2.0}},
		Severity:   models.SeverityCritical,
	}

	resolved, skipped := resolver.BulkResolve([]models.Conflict{benign, critical}, models.PreferRemote)
	assert.Len(t, resolved, 1)
	assert.Equal(t, 1, skipped)

	resolved, skipped = resolver.BulkResolve([]models.Conflict{benign}, models.RequireManual)
	assert.Empty(t, resolved)
	assert.Equal(t, 1, skipped)
}
