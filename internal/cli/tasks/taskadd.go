package tasks

import (
	"context"
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Desc     string `short:"d" help:"Description."`
	Type     string `short:"t" help:"Task type (task|assessment)." enum:"task,assessment" default:"task"`
	Due      string `short:"D" help:"Due date: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC3339." required:""`
	Reminder string `short:"r" help:"Remind relative to this time instead of the due date (same formats as --due)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	draft, err := buildDraft(ctx, c.Title, c.Desc, c.Type, c.Due, c.Reminder)
	if err != nil {
		return err
	}

	task, err := ctx.Planner.AddTask(context.Background(), draft)
	if err != nil {
		return err
	}
	ctx.NotifyWatcher()

	fmt.Printf("Added task: %s (ID: %s)\n", task.Title, task.ID)
	printReminder(ctx, task.ID)
	return nil
}

func buildDraft(ctx *cli.Context, title, desc, taskType, due, reminder string) (models.TaskDraft, error) {
	dueDate, err := cli.ParseDue(due, ctx.Location)
	if err != nil {
		return models.TaskDraft{}, fmt.Errorf("invalid --due: %w", err)
	}

	draft := models.TaskDraft{
		Title:   title,
		Desc:    desc,
		Type:    constants.TaskType(taskType),
		DueDate: dueDate,
	}
	if reminder != "" {
		if draft.ReminderTime, err = cli.ParseDue(reminder, ctx.Location); err != nil {
			return models.TaskDraft{}, fmt.Errorf("invalid --reminder: %w", err)
		}
	}
	return draft, nil
}

// printReminder reports the reminder bound to taskID, if any
func printReminder(ctx *cli.Context, taskID string) {
	ids := ctx.Planner.Bindings().ForTask(taskID)
	if len(ids) == 0 {
		fmt.Println("  No reminder scheduled (completed, past due or reminder time already passed)")
		return
	}
	fmt.Printf("  Reminder scheduled %d min before\n", ctx.Planner.ReminderOffset())
}
