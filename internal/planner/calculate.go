// Package planner manages tasks and keeps their reminders in sync with the
// notification gateway.
package planner

import (
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/models"
)

// ScheduledAlert is a reminder the planner wants registered
type ScheduledAlert struct {
	TaskID string
	Title  string
	Body   string
	FireAt time.Time
}

func AlertTitle(t models.Task) string {
	if t.IsAssessment() {
		return constants.AlertTitleAssessment
	}
	return constants.AlertTitleTask
}

// CalculateNotificationDate returns due minus offsetMinutes. ok is false
// when that instant is not strictly after now.
func CalculateNotificationDate(due time.Time, offsetMinutes int, now time.Time) (time.Time, bool) {
	fireAt := due.Add(-time.Duration(offsetMinutes) * time.Minute)
	if !fireAt.After(now) {
		return time.Time{}, false
	}
	return fireAt, true
}

// PlanAlerts picks the reminders for a full reschedule: one per open task
// due after now whose reminder time has not passed. Reminders count back
// from the due date.
func PlanAlerts(tasks []models.Task, offsetMinutes int, now time.Time) []ScheduledAlert {
	alerts := []ScheduledAlert{}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, err := t.Due()
		if err != nil {
			logger.Warn("Skipping task with unreadable due date", "task_id", t.ID, "error", err)
			continue
		}
		if !due.After(now) {
			continue
		}
		fireAt, ok := CalculateNotificationDate(due, offsetMinutes, now)
		if !ok {
			continue
		}
		alerts = append(alerts, alertFor(t, fireAt))
	}
	return alerts
}

func alertFor(t models.Task, fireAt time.Time) ScheduledAlert {
	return ScheduledAlert{
		TaskID: t.ID,
		Title:  AlertTitle(t),
		Body:   t.Title,
		FireAt: fireAt,
	}
}
