package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	olderThan time.Duration
	calls     int
	err       error
}

func (f *fakePruner) CleanupOldAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	return 3, f.err
}

func TestCronService_PruneJob(t *testing.T) {
	pruner := &fakePruner{}
	service := NewCronService(pruner, 30, newTestLogger())

	service.pruneAuditLogsJob()

	assert.Equal(t, 1, pruner.calls)
	assert.Equal(t, 30*24*time.Hour, pruner.olderThan)
}

func TestCronService_PruneJobError(t *testing.T) {
	pruner := &fakePruner{err: errors.New("connection refused")}
	service := NewCronService(pruner, 90, newTestLogger())

	assert.NotPanics(t, service.pruneAuditLogsJob)
	assert.Equal(t, 1, pruner.calls)
}

func TestCronService_Start(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		service := NewCronService(&fakePruner{}, 90, newTestLogger())
		require.NoError(t, service.Start(""))
		assert.Empty(t, service.cron.Entries())
	})

	t.Run("Invalid spec", func(t *testing.T) {
		service := NewCronService(&fakePruner{}, 90, newTestLogger())
		err := service.Start("every night")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audit retention job")
	})

	t.Run("Scheduled", func(t *testing.T) {
		service := NewCronService(&fakePruner{}, 90, newTestLogger())
		require.NoError(t, service.Start("0 30 3 * * *"))
		defer service.Stop()
		assert.Len(t, service.cron.Entries(), 1)
	})
}
