package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
)

// Task is a planner entry
type Task struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Desc         string             `json:"desc"`
	Type         constants.TaskType `json:"type"`
	DueDate      string             `json:"dueDate"`                // RFC3339
	ReminderTime *string            `json:"reminderTime,omitempty"` // RFC3339, overrides dueDate as the reminder base
	Completed    bool               `json:"completed"`
	CreatedAt    string             `json:"createdAt,omitempty"`
}

// TaskDraft carries the user-editable fields of a task
type TaskDraft struct {
	Title        string             `json:"title" validate:"nonblank,max=200"`
	Desc         string             `json:"desc" validate:"max=2000"`
	Type         constants.TaskType `json:"type" validate:"omitempty,oneof=task assessment"`
	DueDate      string             `json:"dueDate" validate:"required,timestamp"`
	ReminderTime string             `json:"reminderTime" validate:"omitempty,timestamp"`
}

// Due returns the parsed due date
func (t Task) Due() (time.Time, error) {
	due, err := time.Parse(constants.TimestampFormat, t.DueDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date for task %s: %w", t.ID, err)
	}
	return due, nil
}

// ReminderBase is the instant the reminder offset is subtracted from:
// reminderTime when set and valid, otherwise the due date.
func (t Task) ReminderBase() (time.Time, error) {
	if rt, ok := parseOptional(t.ReminderTime); ok {
		return rt, nil
	}
	return t.Due()
}

// IsAssessment reports whether the task is an assessment
func (t Task) IsAssessment() bool {
	return t.Type == constants.TaskTypeAssessment
}

// ApplyDraft copies the draft fields onto the task
func (t *Task) ApplyDraft(d TaskDraft) {
	t.Title = strings.TrimSpace(d.Title)
	t.Desc = d.Desc
	t.Type = d.Type
	if t.Type == "" {
		t.Type = constants.TaskTypeTask
	}
	t.DueDate = d.DueDate
	if d.ReminderTime != "" {
		rt := d.ReminderTime
		t.ReminderTime = &rt
	} else {
		t.ReminderTime = nil
	}
}

// Validate checks the invariants of a stored task
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.Type != constants.TaskTypeTask && t.Type != constants.TaskTypeAssessment {
		return fmt.Errorf("invalid task type: %q", t.Type)
	}
	if _, err := t.Due(); err != nil {
		return err
	}
	if t.ReminderTime != nil {
		if _, err := time.Parse(constants.TimestampFormat, *t.ReminderTime); err != nil {
			return fmt.Errorf("invalid reminder time for task %s: %w", t.ID, err)
		}
	}
	return nil
}
