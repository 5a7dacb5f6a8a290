// Package config loads sagestudy settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/utils"
	"github.com/julianstephens/sagestudy/internal/validation"
)

type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	Timezone      string              `mapstructure:"timezone" validate:"tzname"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Log           LogConfig           `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=json sqlite postgres"`
	Path    string `mapstructure:"path" validate:"required_unless=Backend postgres"`
	// DSN must not carry a password; see internal/keyring
	DSN string `mapstructure:"dsn"`
}

type NotificationsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	DryRun           bool `mapstructure:"dry_run"`
	DefaultOffsetMin int  `mapstructure:"default_offset_min" validate:"min=0,max=10080"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// ConfigDir is where logs, backups and the watcher pid file live
func (c *Config) ConfigDir() string {
	if c.Storage.Backend != constants.StorageBackendPostgres && c.Storage.Path != "" {
		return filepath.Dir(c.Storage.Path)
	}
	dir, err := utils.ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return "."
	}
	return dir
}

func defaultStorePath(backend string) string {
	if backend == constants.StorageBackendJSON {
		return strings.TrimSuffix(constants.DefaultStorePath, filepath.Ext(constants.DefaultStorePath)) + ".json"
	}
	return constants.DefaultStorePath
}

// Load reads configFile, or config.yaml from the working directory or
// ~/.config/sagestudy when configFile is empty. SAGESTUDY_* variables,
// including ones from a .env file, override file values.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + constants.AppName)
	}

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", constants.DefaultStorageBackend)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("timezone", "Local")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.dry_run", false)
	v.SetDefault("notifications.default_offset_min", constants.DefaultReminderOffsetMin)
	v.SetDefault("log.debug", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStorePath(cfg.Storage.Backend)
	}
	path, err := utils.ExpandPath(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}
	cfg.Storage.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	v, err := validation.New()
	if err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
