// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ocean-bridge/pkg/types"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(types.JournalConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndGet(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, Entry{
		TaskID:      "task-1",
		DeviceID:    "annealer-1",
		ProblemType: "ISING",
		Shots:       100,
		State:       "CREATED",
		Bucket:      "results-bucket",
		KeyPrefix:   "runs/",
	}))

	e, err := j.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "annealer-1", e.DeviceID)
	assert.Equal(t, "ISING", e.ProblemType)
	assert.Equal(t, 100, e.Shots)
	assert.Equal(t, "CREATED", e.State)
	assert.Equal(t, "results-bucket", e.Bucket)
	assert.Equal(t, "runs/", e.KeyPrefix)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestGetUnknownTask(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in journal")
}

func TestUpdateState(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, Entry{TaskID: "task-1", DeviceID: "annealer-1", State: "CREATED"}))
	require.NoError(t, j.UpdateState(ctx, "task-1", "COMPLETED"))

	e, err := j.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", e.State)
}

func TestUpdateStateUnknownTask(t *testing.T) {
	j := openTestJournal(t)

	err := j.UpdateState(context.Background(), "missing", "COMPLETED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in journal")
}

func TestListNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"task-old", "task-mid", "task-new"} {
		require.NoError(t, j.Record(ctx, Entry{
			TaskID:    id,
			DeviceID:  "annealer-1",
			State:     "CREATED",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := j.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "task-new", entries[0].TaskID)
	assert.Equal(t, "task-old", entries[2].TaskID)
}

func TestDuplicateTaskRejected(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	entry := Entry{TaskID: "task-1", DeviceID: "annealer-1", State: "CREATED"}
	require.NoError(t, j.Record(ctx, entry))
	require.Error(t, j.Record(ctx, entry))
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	j, err := Open(types.JournalConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, Entry{TaskID: "task-1", DeviceID: "annealer-1", State: "CREATED"}))
	require.NoError(t, j.Close())

	j, err = Open(types.JournalConfig{Dir: dir})
	require.NoError(t, err)
	defer j.Close()

	e, err := j.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "annealer-1", e.DeviceID)
}
