package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/keyring"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	ReminderOffset *int `help:"Minutes before a task is due to send its reminder."`
	ResetOffset    bool `help:"Go back to the configured default reminder offset."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if c.ReminderOffset != nil && c.ResetOffset {
		return fmt.Errorf("--reminder-offset and --reset-offset cannot be combined")
	}

	if c.List || (c.ReminderOffset == nil && !c.ResetOffset) {
		c.print(ctx)
		return nil
	}

	var (
		scheduled int
		err       error
	)
	if c.ResetOffset {
		scheduled, err = ctx.Planner.ResetReminderOffset(context.Background())
	} else {
		scheduled, err = ctx.Planner.SetReminderOffset(context.Background(), *c.ReminderOffset)
	}
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.NotifyWatcher()

	fmt.Printf("Settings updated successfully. Reminder offset is %d min (%d reminders scheduled).\n", ctx.Planner.ReminderOffset(), scheduled)
	return nil
}

func (c *SettingsCmd) print(ctx *cli.Context) {
	cfg := ctx.Config

	fmt.Println("Current Settings:")
	fmt.Printf("  Storage Backend:       %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == constants.StorageBackendPostgres {
		dsn := cfg.Storage.DSN
		if dsn == "" {
			dsn = "(from OS keyring)"
		}
		fmt.Printf("  Connection:            %s\n", keyring.MaskPassword(dsn))
	} else {
		fmt.Printf("  Storage Path:          %s\n", cfg.Storage.Path)
	}
	fmt.Printf("  Timezone:              %s\n", cfg.Timezone)
	fmt.Printf("  Backups:               %s\n", ctx.Backups.GetBackupDir())

	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Notifications Enabled: %v\n", cfg.Notifications.Enabled)
	fmt.Printf("  Dry Run:               %v\n", cfg.Notifications.DryRun)
	fmt.Printf("  Default Offset:        %d min\n", cfg.Notifications.DefaultOffsetMin)
	fmt.Printf("  Reminder Offset:       %d min\n", ctx.Planner.ReminderOffset())
}
