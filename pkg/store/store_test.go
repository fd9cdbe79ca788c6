package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cycloud0203/cvsd/pkg/verify"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	passed := &verify.Report{RunID: uuid.New(), Suite: "pattern1.dat", Total: 65, Started: start, Duration: 1500 * time.Millisecond}
	failed := &verify.Report{
		RunID:   uuid.New(),
		Suite:   "pattern1.dat",
		Total:   65,
		Started: start.Add(time.Minute),
		Mismatches: []verify.Mismatch{
			{Line: 7, Op: verify.OpDecrypt, Key: 0xFFFFFFFFFFFFFFFF, Input: 1, Expected: 0x8000000000000000, Got: 0},
			{Line: 2, Op: verify.OpEncrypt, Key: 0x133457799BBCDFF1, Input: 0x0123456789ABCDEF, Expected: 0x85E813540F0AB405, Got: 0x85E813540F0AB404},
		},
	}
	require.NoError(t, s.SaveReport(ctx, passed))
	require.NoError(t, s.SaveReport(ctx, failed))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, failed.RunID, runs[0].ID, "newest first")
	assert.Equal(t, 2, runs[0].Failures)
	assert.False(t, runs[0].Passed())
	assert.True(t, runs[1].Passed())
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.True(t, start.Equal(runs[1].CreatedAt))

	runs, err = s.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	ms, err := s.Mismatches(ctx, failed.RunID)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, failed.Mismatches[1], ms[0], "line order")
	assert.Equal(t, failed.Mismatches[0], ms[1])

	ms, err = s.Mismatches(ctx, passed.RunID)
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestMismatchesUnknownRun(t *testing.T) {
	s := openTemp(t)
	_, err := s.Mismatches(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDuplicateRunRejected(t *testing.T) {
	s := openTemp(t)
	r := &verify.Report{RunID: uuid.New(), Suite: "x", Total: 1, Started: time.Now()}
	require.NoError(t, s.SaveReport(context.Background(), r))
	assert.Error(t, s.SaveReport(context.Background(), r))
}
