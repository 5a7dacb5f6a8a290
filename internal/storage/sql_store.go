package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/migration"
	"github.com/julianstephens/sagestudy/migrations"
)

// sqlKV implements the blob operations shared by the SQL backends.
// Queries are written with ? placeholders and rebound per driver.
type sqlKV struct {
	db      *sqlx.DB
	dialect string
}

func (s *sqlKV) requireDB() error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *sqlKV) Get(key string) ([]byte, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	var value string
	err := s.db.Get(&value, s.db.Rebind("SELECT value FROM kv WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *sqlKV) Set(key string, value []byte) error {
	if err := s.requireDB(); err != nil {
		return err
	}

	query := s.db.Rebind(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	now := time.Now().UTC().Format(constants.TimestampFormat)
	if _, err := s.db.Exec(query, key, string(value), now); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *sqlKV) Delete(key string) error {
	if err := s.requireDB(); err != nil {
		return err
	}

	if _, err := s.db.Exec(s.db.Rebind("DELETE FROM kv WHERE key = ?"), key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *sqlKV) Keys() ([]string, error) {
	if err := s.requireDB(); err != nil {
		return nil, err
	}

	var keys []string
	if err := s.db.Select(&keys, "SELECT key FROM kv ORDER BY key"); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *sqlKV) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *sqlKV) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, s.dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect, err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *sqlKV) runMigrations(logFn func(string)) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(logFn)
	return err
}

func (s *sqlKV) validateSchemaVersion() error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}
