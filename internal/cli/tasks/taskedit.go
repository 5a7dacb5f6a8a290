package tasks

import (
	"context"
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
)

type TaskEditCmd struct {
	ID            string  `arg:"" help:"Task ID to edit."`
	Title         *string `help:"Task title."`
	Desc          *string `short:"d" help:"Description."`
	Type          *string `short:"t" help:"Task type (task|assessment)."`
	Due           *string `short:"D" help:"Due date: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC3339."`
	Reminder      *string `short:"r" help:"Reminder base time (same formats as --due)."`
	ClearReminder bool    `help:"Remind relative to the due date again."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	title, desc, taskType := task.Title, task.Desc, string(task.Type)
	due := task.DueDate
	reminder := ""
	if task.ReminderTime != nil {
		reminder = *task.ReminderTime
	}

	updated := false
	if c.Title != nil {
		title = *c.Title
		updated = true
	}
	if c.Desc != nil {
		desc = *c.Desc
		updated = true
	}
	if c.Type != nil {
		taskType = *c.Type
		updated = true
	}
	if c.Due != nil {
		due = *c.Due
		updated = true
	}
	if c.Reminder != nil {
		reminder = *c.Reminder
		updated = true
	}
	if c.ClearReminder {
		reminder = ""
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	draft, err := buildDraft(ctx, title, desc, taskType, due, reminder)
	if err != nil {
		return err
	}
	task, err = ctx.Planner.UpdateTask(context.Background(), c.ID, draft)
	if err != nil {
		return err
	}
	ctx.NotifyWatcher()

	fmt.Printf("Updated task: %s (ID: %s)\n", task.Title, task.ID)
	printReminder(ctx, task.ID)
	return nil
}
