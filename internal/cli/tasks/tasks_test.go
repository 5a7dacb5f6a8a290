package tasks

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/config"
	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/storage"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := &config.Config{
		Storage:  config.StorageConfig{Backend: "sqlite", Path: dbPath},
		Timezone: "UTC",
		Notifications: config.NotificationsConfig{
			Enabled:          true,
			DefaultOffsetMin: 30,
		},
	}
	store := storage.NewSQLiteStore(dbPath)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	ctx, err := cli.NewContext(cfg, store, time.UTC, notifier.NewLogDeliverer(io.Discard))
	require.NoError(t, err)
	return ctx
}

func onlyTaskID(t *testing.T, ctx *cli.Context) string {
	t.Helper()
	tasks := ctx.Planner.ListTasks()
	require.Len(t, tasks, 1)
	return tasks[0].ID
}

func TestTaskAddCmd_SchedulesReminder(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &TaskAddCmd{Title: "Essay", Type: "assessment", Due: "2099-05-01 12:00"}
	require.NoError(t, cmd.Run(ctx))

	id := onlyTaskID(t, ctx)
	task, err := ctx.Planner.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskTypeAssessment, task.Type)
	assert.Equal(t, "2099-05-01T12:00:00Z", task.DueDate)

	assert.Len(t, ctx.Planner.Bindings().ForTask(id), 1)
	pending := ctx.Gateway.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, time.Date(2099, 5, 1, 11, 30, 0, 0, time.UTC), pending[0].FireAt.UTC())
	assert.Equal(t, constants.AlertTitleAssessment, pending[0].Payload.Title)
}

func TestTaskAddCmd_PastDue(t *testing.T) {
	ctx := setupTestDB(t)

	require.NoError(t, (&TaskAddCmd{Title: "Old", Type: "task", Due: "2001-01-01"}).Run(ctx))
	assert.Empty(t, ctx.Planner.Bindings())
	assert.Empty(t, ctx.Gateway.Pending())
}

func TestTaskAddCmd_InvalidInput(t *testing.T) {
	ctx := setupTestDB(t)

	assert.Error(t, (&TaskAddCmd{Title: "x", Type: "task", Due: "someday"}).Run(ctx))

	err := (&TaskAddCmd{Title: "  ", Type: "task", Due: "2099-01-01"}).Run(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, ctx.Planner.ListTasks())
}

func TestTaskToggleCmd(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&TaskAddCmd{Title: "Read", Type: "task", Due: "2099-01-01"}).Run(ctx))
	id := onlyTaskID(t, ctx)

	require.NoError(t, (&TaskToggleCmd{ID: id}).Run(ctx))
	task, err := ctx.Planner.GetTask(id)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Empty(t, ctx.Planner.Bindings(), "completing cancels the reminder")
	assert.Empty(t, ctx.Gateway.Pending())

	require.NoError(t, (&TaskToggleCmd{ID: id}).Run(ctx))
	assert.Len(t, ctx.Planner.Bindings().ForTask(id), 1, "reopening schedules again")
	assert.Len(t, ctx.Gateway.Pending(), 1)
}

func TestTaskEditCmd(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&TaskAddCmd{Title: "Read", Type: "task", Due: "2099-01-01 10:00"}).Run(ctx))
	id := onlyTaskID(t, ctx)
	before := ctx.Planner.Bindings().ForTask(id)

	title := "Read chapter 3"
	reminder := "2098-12-31 18:00"
	require.NoError(t, (&TaskEditCmd{ID: id, Title: &title, Reminder: &reminder}).Run(ctx))

	task, err := ctx.Planner.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 3", task.Title)
	require.NotNil(t, task.ReminderTime)
	assert.Equal(t, "2098-12-31T18:00:00Z", *task.ReminderTime)

	after := ctx.Planner.Bindings().ForTask(id)
	require.Len(t, after, 1)
	assert.NotEqual(t, before, after, "edit replaces the old notification")
	pending := ctx.Gateway.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, time.Date(2098, 12, 31, 17, 30, 0, 0, time.UTC), pending[0].FireAt.UTC())

	require.NoError(t, (&TaskEditCmd{ID: id, ClearReminder: true}).Run(ctx))
	task, err = ctx.Planner.GetTask(id)
	require.NoError(t, err)
	assert.Nil(t, task.ReminderTime)

	err = (&TaskEditCmd{ID: "missing", Title: &title}).Run(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestTaskDeleteCmd(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&TaskAddCmd{Title: "Quiz", Type: "assessment", Due: "2099-01-01"}).Run(ctx))
	id := onlyTaskID(t, ctx)

	require.NoError(t, (&TaskDeleteCmd{ID: id}).Run(ctx))
	assert.Empty(t, ctx.Planner.ListTasks())
	assert.Empty(t, ctx.Planner.Bindings())
	assert.Empty(t, ctx.Gateway.Pending())

	backups, err := ctx.Backups.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	assert.Error(t, (&TaskDeleteCmd{ID: id}).Run(ctx))
}

func TestTaskListCmd(t *testing.T) {
	ctx := setupTestDB(t)
	require.NoError(t, (&TaskListCmd{}).Run(ctx))

	require.NoError(t, (&TaskAddCmd{Title: "B", Type: "task", Due: "2099-02-01", Desc: "second"}).Run(ctx))
	require.NoError(t, (&TaskAddCmd{Title: "A", Type: "task", Due: "2099-01-01", Reminder: "2098-12-30"}).Run(ctx))
	assert.NoError(t, (&TaskListCmd{ShowIDs: true}).Run(ctx))
	assert.NoError(t, (&TaskListCmd{Open: true}).Run(ctx))
}
