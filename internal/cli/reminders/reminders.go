package reminders

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/notifier"
)

type RemindersRescheduleCmd struct{}

func (c *RemindersRescheduleCmd) Run(ctx *cli.Context) error {
	scheduled, err := ctx.Planner.RescheduleAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to reschedule reminders: %w", err)
	}
	ctx.NotifyWatcher()

	fmt.Printf("Scheduled %d reminder(s), %d min before each due date\n", scheduled, ctx.Planner.ReminderOffset())
	return nil
}

type RemindersListCmd struct{}

func (c *RemindersListCmd) Run(ctx *cli.Context) error {
	bindings := ctx.Planner.Bindings()
	if len(bindings) == 0 {
		fmt.Println("No reminders scheduled")
		return nil
	}

	titles := make(map[string]string)
	dues := make(map[string]string)
	for _, t := range ctx.Planner.ListTasks() {
		titles[t.ID] = t.Title
		dues[t.ID] = cli.FormatLocal(t.DueDate, ctx.Location)
	}

	ids := bindings.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		return dues[bindings[ids[i]]] < dues[bindings[ids[j]]]
	})

	fmt.Printf("Scheduled reminders (%d, offset %d min):\n", len(ids), ctx.Planner.ReminderOffset())
	for _, id := range ids {
		taskID := bindings[id]
		title, ok := titles[taskID]
		if !ok {
			fmt.Printf("  %s  (task %s no longer exists)\n", id, taskID)
			continue
		}
		fmt.Printf("  %s  %s - due %s\n", id, title, dues[taskID])
	}

	if notifier.FindWatcher(ctx.Config.ConfigDir()) == 0 {
		fmt.Println("\nReminders only fire while 'sagestudy reminders watch' is running.")
	}
	return nil
}

type RemindersClearCmd struct{}

func (c *RemindersClearCmd) Run(ctx *cli.Context) error {
	// a running watcher would otherwise keep firing the cleared reminders
	stopped, err := notifier.StopWatcher(ctx.Config.ConfigDir())
	if err != nil {
		return err
	}
	if stopped {
		fmt.Println("Stopped the running reminder watcher")
	}

	count := len(ctx.Planner.Bindings())
	if err := ctx.Planner.CancelAll(context.Background()); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}

	fmt.Printf("Cleared %d reminder(s)\n", count)
	return nil
}

type RemindersOffsetCmd struct {
	Minutes *int `arg:"" optional:"" help:"New offset in minutes. Omit to show the current one."`
	Reset   bool `help:"Go back to the configured default offset."`
}

func (c *RemindersOffsetCmd) Run(ctx *cli.Context) error {
	if c.Minutes == nil && !c.Reset {
		fmt.Printf("Reminder offset: %d min\n", ctx.Planner.ReminderOffset())
		return nil
	}
	if c.Minutes != nil && c.Reset {
		return fmt.Errorf("give either minutes or --reset, not both")
	}

	var (
		scheduled int
		err       error
	)
	if c.Reset {
		scheduled, err = ctx.Planner.ResetReminderOffset(context.Background())
	} else {
		scheduled, err = ctx.Planner.SetReminderOffset(context.Background(), *c.Minutes)
	}
	if err != nil {
		return err
	}
	ctx.NotifyWatcher()

	fmt.Printf("Reminder offset set to %d min; rescheduled %d reminder(s)\n", ctx.Planner.ReminderOffset(), scheduled)
	return nil
}
