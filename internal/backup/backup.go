// Package backup snapshots every stored key to a JSON file and restores it.
// Snapshots work the same for every storage backend.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/storage"
)

const (
	backupFileSuffix = ".json"
	timestampFormat  = "20060102-150405"
	snapshotVersion  = 1
)

// BackupInfo describes a snapshot file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt string                     `json:"createdAt"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

// Manager writes snapshots of kv into backupDir
type Manager struct {
	kv        storage.KV
	backupDir string
	now       func() time.Time
}

func NewManager(kv storage.KV, configDir string) *Manager {
	return &Manager{
		kv:        kv,
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup writes a snapshot. Restore skips rotation so the pre-restore
// copy never pushes out the snapshot being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	keys, err := m.kv.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list stored keys: %w", err)
	}

	now := m.now()
	snap := snapshot{
		Version:   snapshotVersion,
		CreatedAt: now.UTC().Format(constants.TimestampFormat),
		Entries:   make(map[string]json.RawMessage, len(keys)),
	}
	for _, key := range keys {
		value, err := m.kv.Get(key)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(value) {
			// keep unreadable blobs as strings so they are not lost
			quoted, _ := json.Marshal(string(value))
			value = quoted
			logger.Warn("Backing up corrupt value as text", "key", key)
		}
		snap.Entries[key] = value
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	path, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return path, nil
}

func (m *Manager) uniquePath(now time.Time) (string, error) {
	base := constants.BackupFilePrefix + now.Format(timestampFormat)
	path := filepath.Join(m.backupDir, base+backupFileSuffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, backupFileSuffix))
	}
}

func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, backupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), backupFileSuffix)
	// drop a -N collision counter
	if len(stamp) > len(timestampFormat) {
		stamp = stamp[:len(timestampFormat)]
	}
	t, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ListBackups returns snapshots newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

func readSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported backup version %d", snap.Version)
	}
	return &snap, nil
}

// RestoreBackup replaces all stored keys with the snapshot at path. The
// current data is snapshotted first and that path is returned.
func (m *Manager) RestoreBackup(path string) (string, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return "", err
	}

	// snapshots are indented; store compact JSON like the services do
	values := make(map[string][]byte, len(snap.Entries))
	for key, value := range snap.Entries {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err != nil {
			return "", fmt.Errorf("invalid value for %s in backup: %w", key, err)
		}
		values[key] = buf.Bytes()
	}

	current, err := m.createBackup(true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	keys, err := m.kv.Keys()
	if err != nil {
		return current, fmt.Errorf("failed to list stored keys: %w", err)
	}
	for _, key := range keys {
		if _, ok := snap.Entries[key]; ok {
			continue
		}
		if err := m.kv.Delete(key); err != nil {
			return current, fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	for key, value := range values {
		if err := m.kv.Set(key, value); err != nil {
			return current, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}

	return current, nil
}
