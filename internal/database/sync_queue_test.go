package database

import (
	"context"
	"testing"
	"time"

	"zapisbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncQueueCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.SyncTask{
		TaskType: models.SyncTaskAppendBooking,
		Payload:  `{"test": true}`,
		Status:   models.SyncStatusPending,
	}

	// Create
	err := db.CreateSyncTask(ctx, task)
	require.NoError(t, err)
	assert.NotZero(t, task.ID)

	// Get Pending
	tasks, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.SyncTaskAppendBooking, tasks[0].TaskType)
	assert.Equal(t, `{"test": true}`, tasks[0].Payload)

	// Update Status
	err = db.UpdateSyncTaskStatus(ctx, tasks[0].ID, models.SyncStatusCompleted, "", nil)
	require.NoError(t, err)

	tasks, _ = db.GetPendingSyncTasks(ctx, 10)
	assert.Len(t, tasks, 0)

	// Failed tasks
	errMsg := "some error"
	err1 := db.CreateSyncTask(ctx, &models.SyncTask{TaskType: models.SyncTaskNotify, Payload: "{}", Status: models.SyncStatusFailed, LastError: &errMsg})
	require.NoError(t, err1)
	failed, err := db.GetFailedSyncTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "some error", *failed[0].LastError)
}

func TestSyncQueueRetrySchedule(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.SyncTask{TaskType: models.SyncTaskNotify, Payload: "{}", Status: models.SyncStatusPending}
	require.NoError(t, db.CreateSyncTask(ctx, task))

	// Задача с будущим next_retry_at не должна попадать в выборку.
	nextRetry := time.Now().Add(time.Hour)
	err := db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncStatusRetry, "temporary error", &nextRetry)
	require.NoError(t, err)

	tasks, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// После наступления срока — попадает, retry_count растёт.
	pastRetry := time.Now().Add(-time.Hour)
	err = db.UpdateSyncTaskStatus(ctx, task.ID, models.SyncStatusRetry, "temporary error", &pastRetry)
	require.NoError(t, err)

	tasks, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, 2, tasks[0].RetryCount)
	require.NotNil(t, tasks[0].LastError)
	assert.Equal(t, "temporary error", *tasks[0].LastError)
}
