package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/models"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/storage"
	"github.com/julianstephens/sagestudy/internal/validation"
)

// Planner owns tasks and the persisted notification-id to task-id bindings.
// Binding changes run under the bindings key lock, so a reschedule and a
// single-task edit never interleave their gateway calls.
type Planner struct {
	tasks     *storage.Collection[models.Task]
	bindings  *storage.Document[models.NotificationBindings]
	offset    *storage.Document[models.Minutes]
	gateway   notifier.Gateway
	validator *validation.Validator
	now       func() time.Time
	newID     func() string
}

func New(store *storage.Store, gateway notifier.Gateway, v *validation.Validator, defaultOffset int) *Planner {
	return &Planner{
		tasks: storage.NewCollection[models.Task](store, constants.KeyTasks),
		bindings: storage.NewDocument(store, constants.KeyNotificationIDs, func() models.NotificationBindings {
			return models.NotificationBindings{}
		}),
		offset: storage.NewDocument(store, constants.KeyReminderOffset, func() models.Minutes {
			return models.Minutes(defaultOffset)
		}),
		gateway:   gateway,
		validator: v,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// SetClock replaces the time source
func (p *Planner) SetClock(now func() time.Time) {
	p.now = now
}

func (p *Planner) AddTask(ctx context.Context, d models.TaskDraft) (models.Task, error) {
	if err := p.validator.Struct(d); err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		ID:        p.newID(),
		CreatedAt: models.FormatTimestamp(p.now()),
	}
	t.ApplyDraft(d)

	err := p.tasks.Update(func(tasks []models.Task) ([]models.Task, error) {
		return append(tasks, t), nil
	})
	if err != nil {
		logger.Error("Failed to save task", "title", t.Title, "error", err)
		return models.Task{}, err
	}

	p.syncTask(ctx, t)
	return t, nil
}

func (p *Planner) GetTask(id string) (models.Task, error) {
	for _, t := range p.tasks.GetAll() {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, apperrors.NotFoundf("task %s", id)
}

func (p *Planner) ListTasks() []models.Task {
	return p.tasks.GetAll()
}

func (p *Planner) mutate(id string, fn func(models.Task) models.Task) (models.Task, error) {
	var updated models.Task
	err := p.tasks.Update(func(tasks []models.Task) ([]models.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i] = fn(tasks[i])
				updated = tasks[i]
				return tasks, nil
			}
		}
		return nil, apperrors.NotFoundf("task %s", id)
	})
	return updated, err
}

// UpdateTask replaces the editable fields and reissues the reminder
func (p *Planner) UpdateTask(ctx context.Context, id string, d models.TaskDraft) (models.Task, error) {
	if err := p.validator.Struct(d); err != nil {
		return models.Task{}, err
	}

	t, err := p.mutate(id, func(t models.Task) models.Task {
		t.ApplyDraft(d)
		return t
	})
	if err != nil {
		return models.Task{}, err
	}

	p.syncTask(ctx, t)
	return t, nil
}

// ToggleComplete flips completion. Completing cancels the reminder and
// reopening schedules it again.
func (p *Planner) ToggleComplete(ctx context.Context, id string) (models.Task, error) {
	t, err := p.mutate(id, func(t models.Task) models.Task {
		t.Completed = !t.Completed
		return t
	})
	if err != nil {
		return models.Task{}, err
	}

	p.syncTask(ctx, t)
	return t, nil
}

func (p *Planner) DeleteTask(ctx context.Context, id string) error {
	err := p.tasks.Update(func(tasks []models.Task) ([]models.Task, error) {
		for i := range tasks {
			if tasks[i].ID == id {
				return append(tasks[:i], tasks[i+1:]...), nil
			}
		}
		return nil, apperrors.NotFoundf("task %s", id)
	})
	if err != nil {
		return err
	}

	p.unbindTask(ctx, id)
	return nil
}

func (p *Planner) ReminderOffset() int {
	return int(p.offset.Get())
}

// SetReminderOffset stores the offset and reschedules every reminder with it
func (p *Planner) SetReminderOffset(ctx context.Context, minutes int) (int, error) {
	if minutes < 0 || minutes > constants.MaxReminderOffsetMin {
		return 0, apperrors.Validationf("reminder offset must be between 0 and %d minutes, got %d", constants.MaxReminderOffsetMin, minutes)
	}
	if err := p.offset.Save(models.Minutes(minutes)); err != nil {
		return 0, err
	}
	return p.RescheduleAll(ctx)
}

// ResetReminderOffset drops the stored offset so the configured default applies
func (p *Planner) ResetReminderOffset(ctx context.Context) (int, error) {
	if err := p.offset.Delete(); err != nil {
		return 0, err
	}
	return p.RescheduleAll(ctx)
}

func (p *Planner) Bindings() models.NotificationBindings {
	return p.bindings.Get()
}

// cancelBindings cancels ids at the gateway and drops them from b. Gateway
// failures are logged; the binding is dropped regardless.
func (p *Planner) cancelBindings(ctx context.Context, b models.NotificationBindings, ids []string) {
	for _, id := range ids {
		if err := p.gateway.Cancel(ctx, id); err != nil {
			logger.Warn("Failed to cancel notification", "notification_id", id, "task_id", b[id], "error", apperrors.Gateway("cancel", err))
		}
		delete(b, id)
	}
}

// schedule registers a and binds it in b. It reports whether the gateway
// accepted it.
func (p *Planner) schedule(ctx context.Context, b models.NotificationBindings, a ScheduledAlert) bool {
	id := p.newID()
	payload := notifier.Payload{TaskID: a.TaskID, Title: a.Title, Body: a.Body}
	if err := p.gateway.Schedule(ctx, id, a.FireAt, payload); err != nil {
		logger.Warn("Failed to schedule notification", "task_id", a.TaskID, "fire_at", a.FireAt, "error", apperrors.Gateway("schedule", err))
		return false
	}
	b[id] = a.TaskID
	return true
}

// RescheduleAll cancels every bound reminder, then schedules one for each
// open task due in the future. It returns how many were scheduled. Gateway
// failures never abort the batch; only failing to persist bindings errors.
func (p *Planner) RescheduleAll(ctx context.Context) (int, error) {
	count := 0
	_, err := p.bindings.Update(func(b models.NotificationBindings) (models.NotificationBindings, error) {
		if b == nil {
			b = models.NotificationBindings{}
		}
		p.cancelBindings(ctx, b, b.IDs())

		for _, a := range PlanAlerts(p.tasks.GetAll(), p.ReminderOffset(), p.now()) {
			if p.schedule(ctx, b, a) {
				count++
			}
		}
		return b, nil
	})
	if err != nil {
		logger.Error("Failed to persist notification bindings", "error", err)
		return count, err
	}

	logger.Info("Rescheduled reminders", "scheduled", count)
	return count, nil
}

// syncTask replaces the reminder of a single task. Reminders count back from
// reminderTime when the task has one.
func (p *Planner) syncTask(ctx context.Context, t models.Task) {
	_, err := p.bindings.Update(func(b models.NotificationBindings) (models.NotificationBindings, error) {
		if b == nil {
			b = models.NotificationBindings{}
		}
		p.cancelBindings(ctx, b, b.ForTask(t.ID))

		if t.Completed {
			return b, nil
		}
		now := p.now()
		due, err := t.Due()
		if err != nil || !due.After(now) {
			return b, nil
		}
		base, err := t.ReminderBase()
		if err != nil {
			return b, nil
		}
		if fireAt, ok := CalculateNotificationDate(base, p.ReminderOffset(), now); ok {
			p.schedule(ctx, b, alertFor(t, fireAt))
		}
		return b, nil
	})
	if err != nil {
		logger.Error("Failed to persist notification bindings", "task_id", t.ID, "error", err)
	}
}

func (p *Planner) unbindTask(ctx context.Context, taskID string) {
	_, err := p.bindings.Update(func(b models.NotificationBindings) (models.NotificationBindings, error) {
		if b == nil {
			b = models.NotificationBindings{}
		}
		p.cancelBindings(ctx, b, b.ForTask(taskID))
		return b, nil
	})
	if err != nil {
		logger.Error("Failed to persist notification bindings", "task_id", taskID, "error", err)
	}
}

// CancelAll clears every reminder at the gateway and forgets all bindings
func (p *Planner) CancelAll(ctx context.Context) error {
	_, err := p.bindings.Update(func(b models.NotificationBindings) (models.NotificationBindings, error) {
		if err := p.gateway.CancelAll(ctx); err != nil {
			logger.Warn("Failed to cancel all notifications", "error", apperrors.Gateway("cancel all", err))
		}
		return models.NotificationBindings{}, nil
	})
	return err
}

// RequestPermission asks the gateway whether reminders can be shown
func (p *Planner) RequestPermission(ctx context.Context) bool {
	granted, err := p.gateway.RequestPermission(ctx)
	if err != nil {
		logger.Warn("Notification permission check failed", "error", apperrors.Gateway("permission", err))
		return false
	}
	return granted
}
