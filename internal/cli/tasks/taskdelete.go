package tasks

import (
	"context"
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
)

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	// Check if task exists first
	task, err := ctx.Planner.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Planner.DeleteTask(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.NotifyWatcher()

	fmt.Printf("Deleted task: %s (ID: %s)\n", task.Title, c.ID)
	return nil
}
