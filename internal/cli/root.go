package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sagestudy/internal/backup"
	"github.com/julianstephens/sagestudy/internal/config"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/models"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/planner"
	"github.com/julianstephens/sagestudy/internal/storage"
	"github.com/julianstephens/sagestudy/internal/validation"
	"github.com/julianstephens/sagestudy/internal/vocab"
)

// Context carries the services every command runs against. It is built once
// in main and handed to kong.
type Context struct {
	Config    *config.Config
	KV        storage.KV
	Store     *storage.Store
	Location  *time.Location
	Validator *validation.Validator
	Vocab     *vocab.Engine
	Planner   *planner.Planner
	Gateway   *notifier.LocalGateway
	Backups   *backup.Manager
}

// NewContext wires the services over kv. The store is not loaded here;
// main does that for every command except init.
func NewContext(cfg *config.Config, kv storage.KV, loc *time.Location, deliverer notifier.Deliverer) (*Context, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(kv)
	gateway := notifier.NewLocalGateway(deliverer, loc, cfg.Notifications.Enabled)

	return &Context{
		Config:    cfg,
		KV:        kv,
		Store:     store,
		Location:  loc,
		Validator: v,
		Vocab:     vocab.NewEngine(store, v, loc),
		Planner:   planner.New(store, gateway, v, cfg.Notifications.DefaultOffsetMin),
		Gateway:   gateway,
		Backups:   backup.NewManager(kv, cfg.ConfigDir()),
	}, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NotifyWatcher asks a running `reminders watch` to reload its schedule
func (c *Context) NotifyWatcher() {
	found, err := notifier.SignalWatcher(c.Config.ConfigDir())
	if err != nil {
		logger.Warn("Failed to signal reminder watcher", "error", err)
		return
	}
	if found {
		logger.Debug("Signalled reminder watcher")
	}
}

// ParseDue parses a due date given as RFC3339, "YYYY-MM-DD HH:MM" or
// "YYYY-MM-DD" (end of day) in loc, and returns it in storage format.
func ParseDue(value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("date cannot be empty")
	}
	if t, err := time.Parse(constants.TimestampFormat, value); err == nil {
		return models.FormatTimestamp(t), nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat+" 15:04", value, loc); err == nil {
		return models.FormatTimestamp(t), nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat, value, loc); err == nil {
		return models.FormatTimestamp(t.Add(24*time.Hour - time.Minute)), nil
	}
	return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC3339)", value)
}

// FormatLocal renders a stored timestamp in loc, or returns it unchanged
// when it does not parse.
func FormatLocal(ts string, loc *time.Location) string {
	t, err := time.Parse(constants.TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// FormatOptional is FormatLocal for optional timestamps
func FormatOptional(ts *string, loc *time.Location) string {
	if ts == nil || *ts == "" {
		return "never"
	}
	return FormatLocal(*ts, loc)
}
