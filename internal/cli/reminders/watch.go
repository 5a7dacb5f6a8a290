package reminders

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/notifier"
)

// RemindersWatchCmd keeps the process alive so scheduled reminders can fire.
// Other commands send SIGHUP after changing tasks; the watcher then reloads.
type RemindersWatchCmd struct{}

func (c *RemindersWatchCmd) Run(ctx *cli.Context) error {
	configDir := ctx.Config.ConfigDir()
	if pid := notifier.FindWatcher(configDir); pid != 0 && pid != os.Getpid() {
		return fmt.Errorf("a reminder watcher is already running (pid %d)", pid)
	}

	cleanup, err := notifier.WritePIDFile(configDir)
	if err != nil {
		return err
	}
	defer cleanup()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	return watch(ctx, sigs)
}

func watch(ctx *cli.Context, sigs <-chan os.Signal) error {
	bg := context.Background()
	if !ctx.Planner.RequestPermission(bg) {
		fmt.Println("⚠️  Notifications are disabled or sagestudy-tray is not running; reminders will not be delivered.")
	}

	ctx.Gateway.Start()
	defer ctx.Gateway.Stop()

	if err := reload(ctx); err != nil {
		return err
	}
	fmt.Println("Watching for reminders. Press Ctrl+C to stop.")

	for sig := range sigs {
		if sig != syscall.SIGHUP {
			fmt.Println("Stopping reminder watcher")
			return nil
		}
		if err := reload(ctx); err != nil {
			// keep the current schedule; the next signal retries
			logger.Error("Failed to reload reminders", "error", err)
		}
	}
	return nil
}

// reload re-reads the store and rebuilds every reminder. Jobs are dropped at
// the gateway first because other processes may have removed their bindings.
func reload(ctx *cli.Context) error {
	bg := context.Background()
	if err := ctx.KV.Load(); err != nil {
		return fmt.Errorf("failed to reload store: %w", err)
	}
	if err := ctx.Gateway.CancelAll(bg); err != nil {
		logger.Warn("Failed to clear scheduled jobs", "error", err)
	}

	scheduled, err := ctx.Planner.RescheduleAll(bg)
	if err != nil {
		return err
	}
	for _, p := range ctx.Gateway.Pending() {
		logger.Debug("Pending reminder", "task_id", p.Payload.TaskID, "fire_at", p.FireAt)
	}
	fmt.Printf("Scheduled %d reminder(s)\n", scheduled)
	return nil
}
