package progress_test

import (
	"testing"
	"time"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		counts progress.Counts
		want   int
	}{
		{progress.Counts{}, 0},
		{progress.Counts{Total: 2, Completed: 0}, 0},
		{progress.Counts{Total: 2, Completed: 1}, 50},
		{progress.Counts{Total: 3, Completed: 1}, 33},
		{progress.Counts{Total: 3, Completed: 2}, 67},
		{progress.Counts{Total: 8, Completed: 1}, 13},
		{progress.Counts{Total: 200, Completed: 1}, 1},
		{progress.Counts{Total: 201, Completed: 1}, 0},
		{progress.Counts{Total: 4, Completed: 4}, 100},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, progress.Compute(tt.counts), "counts %+v", tt.counts)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	require.Nil(t, progress.DaysRemaining(nil, now))

	due := now.Add(36 * time.Hour)
	require.Equal(t, 2, *progress.DaysRemaining(&due, now))

	due = now.Add(24 * time.Hour)
	require.Equal(t, 1, *progress.DaysRemaining(&due, now))

	overdue := now.Add(-50 * time.Hour)
	require.Equal(t, -2, *progress.DaysRemaining(&overdue, now))
}
