package system

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/storage"
)

type DoctorCmd struct{}

type doctorCheck struct {
	name       string
	run        func(ctx *cli.Context) error
	needStore  bool
	warnOnly   bool
	gatesStore bool // failure skips the needStore checks
}

var doctorChecks = []doctorCheck{
	{name: "Store reachable", run: checkStoreReachable, gatesStore: true},
	{name: "Vocabulary records", run: checkWords, needStore: true},
	{name: "Task records", run: checkTasks, needStore: true},
	{name: "Study history", run: checkHistory, needStore: true},
	{name: "Notification bindings", run: checkBindings, needStore: true},
	{name: "Reminder offset", run: checkReminderOffset, needStore: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Notification delivery", run: checkDelivery, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := true

	for _, check := range doctorChecks {
		if check.needStore && !storeReachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", check.name)
			continue
		}

		err := check.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", check.name)
		case check.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", check.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if check.gatesStore {
				storeReachable = false
			}
		}
	}

	if pid := notifier.FindWatcher(ctx.Config.ConfigDir()); pid != 0 {
		fmt.Printf("ℹ Reminder watcher running (pid %d)\n", pid)
	} else {
		fmt.Println("ℹ Reminder watcher not running; start it with 'sagestudy reminders watch'")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.KV.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.KV.Keys(); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return nil
}

// readRaw decodes the blob under key into v. A missing key is not an error
// and reports false.
func readRaw(ctx *cli.Context, key string, v interface{}) (bool, error) {
	data, err := ctx.KV.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%s is not valid JSON and will be read as empty: %w", key, err)
	}
	return true, nil
}

func checkWords(ctx *cli.Context) error {
	var words []models.Word
	if _, err := readRaw(ctx, constants.KeyVocabulary, &words); err != nil {
		return err
	}

	ids := make(map[string]bool, len(words))
	for _, w := range words {
		if ids[w.ID] {
			return fmt.Errorf("duplicate word ID found: %s", w.ID)
		}
		ids[w.ID] = true
		if err := w.Validate(); err != nil {
			return fmt.Errorf("word %s: %w", w.ID, err)
		}
	}
	return nil
}

func checkTasks(ctx *cli.Context) error {
	var tasks []models.Task
	if _, err := readRaw(ctx, constants.KeyTasks, &tasks); err != nil {
		return err
	}

	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if ids[t.ID] {
			return fmt.Errorf("duplicate task ID found: %s", t.ID)
		}
		ids[t.ID] = true
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	return nil
}

func checkHistory(ctx *cli.Context) error {
	var h models.StudyHistory
	found, err := readRaw(ctx, constants.KeyStudyStats, &h)
	if err != nil || !found {
		return err
	}
	if h.TotalStudyTime < 0 {
		return fmt.Errorf("total study time is negative: %d", h.TotalStudyTime)
	}
	if h.Streak < 0 {
		return fmt.Errorf("streak is negative: %d", h.Streak)
	}
	if h.LastStudyDate != "" {
		if _, err := time.Parse(constants.DateFormat, h.LastStudyDate); err != nil {
			return fmt.Errorf("invalid last study date %q", h.LastStudyDate)
		}
	}
	for _, day := range h.Days() {
		if _, err := time.Parse(constants.DateFormat, day); err != nil {
			return fmt.Errorf("invalid daily bucket %q", day)
		}
	}
	return nil
}

func checkBindings(ctx *cli.Context) error {
	var bindings models.NotificationBindings
	if _, err := readRaw(ctx, constants.KeyNotificationIDs, &bindings); err != nil {
		return err
	}

	tasks := make(map[string]bool)
	for _, t := range ctx.Planner.ListTasks() {
		tasks[t.ID] = true
	}
	orphaned := 0
	for _, taskID := range bindings {
		if !tasks[taskID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d bindings for deleted tasks (run 'sagestudy reminders reschedule')", orphaned)
	}
	return nil
}

func checkReminderOffset(ctx *cli.Context) error {
	var offset models.Minutes
	found, err := readRaw(ctx, constants.KeyReminderOffset, &offset)
	if err != nil || !found {
		return err
	}
	if offset < 0 || int(offset) > constants.MaxReminderOffsetMin {
		return fmt.Errorf("reminder offset %d is outside 0-%d minutes", offset, constants.MaxReminderOffsetMin)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'sagestudy backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	// Check if system time is reasonable
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return fmt.Errorf("timezone %q was not loaded", ctx.Config.Timezone)
	}
	return nil
}

func checkDelivery(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		return fmt.Errorf("notifications are disabled in the configuration")
	}
	if !ctx.Planner.RequestPermission(context.Background()) {
		return fmt.Errorf("reminders cannot be delivered; is sagestudy-tray running?")
	}
	return nil
}
