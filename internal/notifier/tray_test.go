package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/sagestudy/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) {
		return dir, nil
	}
	return dir
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := stubConfigDir(t)

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/sagestudy/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two part format", "8080|12345", "sagestudy-tray", "malformed"},
		{"garbage", "invalid", "sagestudy-tray", "malformed"},
		{"empty secret", "8080|12345|", "sagestudy-tray", "secret"},
		{"empty port", "|12345|s3cret", "sagestudy-tray", "port"},
		{"port out of range", "99999|12345|s3cret", "sagestudy-tray", "range"},
		{"bad pid", "8080|abc|s3cret", "sagestudy-tray", "process ID"},
		{"process not running", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		stubProcess(t, "sagestudy-tray")
		if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
			t.Fatal(err)
		}
		port, secret, err := findAndValidateTrayProcess(lockfilePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if port != "8080" || secret != "s3cret" {
			t.Errorf("got port=%s secret=%s, want 8080 s3cret", port, secret)
		}
	})
}

// startTray serves a fake tray app and writes its lockfile
func startTray(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	parts := strings.Split(server.URL, ":")
	port := parts[len(parts)-1]

	configDir := stubConfigDir(t)
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, "sagestudy-tray")
}

func TestTrayDelivererDeliver(t *testing.T) {
	var got WebhookPayload
	startTray(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(constants.TraySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	d := NewTrayDeliverer()
	if err := d.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}

	err := d.Deliver(context.Background(), Payload{TaskID: "t1", Title: "Upcoming Task", Body: "Essay"})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if got.Text != "Upcoming Task: Essay" {
		t.Errorf("text = %q, want %q", got.Text, "Upcoming Task: Essay")
	}
	if got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("duration_ms = %d, want %d", got.DurationMs, constants.NotificationDurationMs)
	}
	if got.Data["taskId"] != "t1" {
		t.Errorf("data.taskId = %q, want t1", got.Data["taskId"])
	}
}

func TestTrayDelivererRetries(t *testing.T) {
	var hits int32
	startTray(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := NewTrayDeliverer().Deliver(context.Background(), Payload{Title: "x"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("server hit %d times, want 3", n)
	}
}

func TestTrayDelivererClientErrorNotRetried(t *testing.T) {
	var hits int32
	startTray(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorized"))
	})

	err := NewTrayDeliverer().Deliver(context.Background(), Payload{Title: "x"})
	if err == nil {
		t.Fatal("expected error for unauthorized")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want status 401", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestFormatText(t *testing.T) {
	if got := FormatText(Payload{Title: "Upcoming Task"}); got != "Upcoming Task" {
		t.Errorf("FormatText() = %q", got)
	}
	if got := FormatText(Payload{Title: "Upcoming Task", Body: "Read"}); got != "Upcoming Task: Read" {
		t.Errorf("FormatText() = %q", got)
	}
}
