package notifier

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/julianstephens/sagestudy/internal/constants"
)

// WatcherPIDFile is the file `reminders watch` writes its pid to
const WatcherPIDFile = "watch.pid"

// WritePIDFile records the current process as the running watcher
func WritePIDFile(configDir string) (func(), error) {
	path := filepath.Join(configDir, WatcherPIDFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return func() { os.Remove(path) }, nil
}

// FindWatcher returns the pid of a live watcher process, or 0 when none runs
func FindWatcher(configDir string) int {
	content, err := os.ReadFile(filepath.Join(configDir, WatcherPIDFile))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		return 0
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return 0
	}
	return pid
}

// SignalWatcher asks a running watcher to reload its reminders. It reports
// whether a watcher was found.
func SignalWatcher(configDir string) (bool, error) {
	return signalWatcher(configDir, syscall.SIGHUP)
}

// StopWatcher asks a running watcher to exit. It reports whether a watcher
// was found.
func StopWatcher(configDir string) (bool, error) {
	return signalWatcher(configDir, syscall.SIGTERM)
}

func signalWatcher(configDir string, sig os.Signal) (bool, error) {
	pid := FindWatcher(configDir)
	if pid == 0 {
		return false, nil
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, err
	}
	if err := process.Signal(sig); err != nil {
		return true, fmt.Errorf("failed to signal watcher %d: %w", pid, err)
	}
	return true, nil
}
