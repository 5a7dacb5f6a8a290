package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/cli/backups"
	"github.com/julianstephens/sagestudy/internal/cli/reminders"
	"github.com/julianstephens/sagestudy/internal/cli/settings"
	"github.com/julianstephens/sagestudy/internal/cli/study"
	"github.com/julianstephens/sagestudy/internal/cli/system"
	"github.com/julianstephens/sagestudy/internal/cli/tasks"
	"github.com/julianstephens/sagestudy/internal/cli/words"
	"github.com/julianstephens/sagestudy/internal/config"
	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/keyring"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/notifier"
	"github.com/julianstephens/sagestudy/internal/storage"
	"github.com/julianstephens/sagestudy/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (YAML). Defaults to ./config.yaml or ~/.config/sagestudy/config.yaml." type:"path"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init   system.InitCmd   `cmd:"" help:"Initialize sagestudy storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Word   struct {
		Add      words.WordAddCmd      `cmd:"" help:"Add a word to learn."`
		List     words.WordListCmd     `cmd:"" help:"List words." default:"1"`
		Show     words.WordShowCmd     `cmd:"" help:"Show a word."`
		Edit     words.WordEditCmd     `cmd:"" help:"Edit a word."`
		Delete   words.WordDeleteCmd   `cmd:"" help:"Delete a word."`
		Progress words.WordProgressCmd `cmd:"" help:"Record a review of a word."`
		Review   words.WordReviewCmd   `cmd:"" help:"Review the words that are due."`
		Recent   words.WordRecentCmd   `cmd:"" help:"Show recently reviewed words."`
		Stats    words.WordStatsCmd    `cmd:"" help:"Show vocabulary statistics."`
		Search   words.WordSearchCmd   `cmd:"" help:"Search words and translations."`
	} `cmd:"" help:"Manage vocabulary."`
	Study struct {
		Log     study.StudyLogCmd     `cmd:"" help:"Log a study session."`
		History study.StudyHistoryCmd `cmd:"" help:"Show study time, streak and words learned per day." default:"1"`
	} `cmd:"" help:"Track study sessions."`
	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Edit   tasks.TaskEditCmd   `cmd:"" help:"Edit an existing task."`
		Toggle tasks.TaskToggleCmd `cmd:"" help:"Mark a task done or reopen it."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List all tasks." default:"1"`
	} `cmd:"" help:"Manage tasks and assessments."`
	Reminders struct {
		Reschedule reminders.RemindersRescheduleCmd `cmd:"" help:"Cancel and reissue every reminder."`
		Watch      reminders.RemindersWatchCmd      `cmd:"" help:"Stay running and deliver reminders."`
		List       reminders.RemindersListCmd       `cmd:"" help:"List scheduled reminders." default:"1"`
		Clear      reminders.RemindersClearCmd      `cmd:"" help:"Cancel all reminders."`
		Offset     reminders.RemindersOffsetCmd     `cmd:"" help:"Show or set how long before the due date reminders fire."`
	} `cmd:"" help:"Manage task reminders."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Show or change application settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the connection string from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Vocabulary trainer and study planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	command := ctx.Command()

	// The watcher runs unattended in a terminal, so its log goes to stderr too
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Log.Debug,
		ConfigDir: cfg.ConfigDir(),
		Stderr:    command == "reminders watch",
		Command:   command,
		Backend:   cfg.Storage.Backend,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// Keyring commands manage the credentials the store needs, so they run without one
	if strings.HasPrefix(command, "keyring") {
		if err := ctx.Run(&cli.Context{Config: cfg}); err != nil {
			apperrors.Fatal(err)
		}
		return
	}

	appCtx, err := buildContext(cfg)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer appCtx.KV.Close()

	// Load the store before running the command (Init command will handle its own loading)
	if command != "init" {
		if err := appCtx.KV.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

func buildContext(cfg *config.Config) (*cli.Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	dsn := ""
	if cfg.Storage.Backend == constants.StorageBackendPostgres {
		if cfg.Storage.DSN != "" {
			if err := storage.ValidateConnString(cfg.Storage.DSN); err != nil {
				if errors.Is(err, storage.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("storage.dsn must not contain a password; use 'sagestudy keyring set', PGPASSWORD or .pgpass instead")
				}
				return nil, err
			}
		}
		if dsn, err = keyring.ResolveDSN(cfg.Storage.DSN); err != nil {
			return nil, err
		}
	}

	kv, err := storage.New(cfg.Storage.Backend, cfg.Storage.Path, dsn)
	if err != nil {
		return nil, err
	}

	var deliverer notifier.Deliverer = notifier.NewTrayDeliverer()
	if cfg.Notifications.DryRun {
		deliverer = notifier.NewLogDeliverer(os.Stdout)
	}

	return cli.NewContext(cfg, kv, loc, deliverer)
}
