package tasks

import (
	"context"
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
)

type TaskToggleCmd struct {
	ID string `arg:"" help:"Task ID to mark done or reopen."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.ToggleComplete(context.Background(), c.ID)
	if err != nil {
		return err
	}
	ctx.NotifyWatcher()

	if task.Completed {
		fmt.Printf("Completed task: %s\n", task.Title)
	} else {
		fmt.Printf("Reopened task: %s\n", task.Title)
		printReminder(ctx, task.ID)
	}
	return nil
}
