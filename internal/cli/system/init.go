package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting all existing data before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.KV.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized sagestudy storage at: %s\n", ctx.KV.GetConfigPath())

	if c.Force && ctx.Config.Storage.Backend == constants.StorageBackendPostgres {
		keys, err := ctx.KV.Keys()
		if err != nil {
			return fmt.Errorf("failed to list stored keys: %w", err)
		}
		for _, key := range keys {
			if err := ctx.KV.Delete(key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		fmt.Printf("Deleted %d stored keys\n", len(keys))
	}

	return nil
}

// reset removes the store file of the file-backed backends. A corrupt file
// would otherwise make Init fail.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config.Storage.Backend == constants.StorageBackendPostgres {
		return nil
	}

	path := ctx.KV.GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		// Close first to prevent file locking issues
		if err := ctx.KV.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Printf("Deleted existing store at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}
