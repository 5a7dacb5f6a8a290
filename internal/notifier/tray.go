package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var errTrayNotRunning = errors.New("sagestudy-tray is not running")

// WebhookPayload is the body the tray app accepts
type WebhookPayload struct {
	Text       string            `json:"text"`
	DurationMs uint32            `json:"duration_ms"`
	Data       map[string]string `json:"data,omitempty"`
}

// TrayDeliverer posts reminders to the local tray app found via its lockfile
type TrayDeliverer struct {
	client   *resty.Client
	attempts uint
}

func NewTrayDeliverer() *TrayDeliverer {
	client := resty.New().
		SetTimeout(constants.NotifyRequestTimeout).
		SetHeader("Content-Type", "application/json")
	return &TrayDeliverer{
		client:   client,
		attempts: constants.NotifyMaxRetries,
	}
}

type trayEndpoint struct {
	port   string
	secret string
}

func (d *TrayDeliverer) locate() (trayEndpoint, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return trayEndpoint{}, err
	}
	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return trayEndpoint{}, err
	}
	return trayEndpoint{port: port, secret: secret}, nil
}

func (d *TrayDeliverer) Ready(ctx context.Context) error {
	_, err := d.locate()
	return err
}

func (d *TrayDeliverer) Deliver(ctx context.Context, payload Payload) error {
	body := WebhookPayload{
		Text:       FormatText(payload),
		DurationMs: constants.NotificationDurationMs,
		Data:       map[string]string{"taskId": payload.TaskID},
	}

	return retry.Do(
		func() error {
			// the tray may restart on a new port between attempts
			ep, err := d.locate()
			if err != nil {
				return err
			}
			return d.send(ctx, ep, body)
		},
		retry.Context(ctx),
		retry.Attempts(d.attempts),
		retry.Delay(constants.NotifyRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying tray notification", "attempt", n+1, "task_id", payload.TaskID, "error", err)
		}),
	)
}

func (d *TrayDeliverer) send(ctx context.Context, ep trayEndpoint, body WebhookPayload) error {
	res, err := d.client.R().
		SetContext(ctx).
		SetHeader(constants.TraySecretHeader, ep.secret).
		SetBody(body).
		Post(fmt.Sprintf("http://127.0.0.1:%s", ep.port))
	if err != nil {
		return fmt.Errorf("failed to reach tray app: %w", err)
	}

	if res.StatusCode() == http.StatusOK {
		return nil
	}
	err = fmt.Errorf("notification failed with status %d: %s", res.StatusCode(), strings.TrimSpace(string(res.Body())))
	if res.StatusCode() >= 400 && res.StatusCode() < 500 {
		return retry.Unrecoverable(err)
	}
	return err
}

// FormatText renders a payload as a single notification line
func FormatText(p Payload) string {
	if p.Body == "" {
		return p.Title
	}
	return p.Title + ": " + p.Body
}

// GetTrayAppConfigDir returns the directory holding the tray app lockfile.
// The tray app may override it with lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess parses a port|pid|secret lockfile and checks
// that pid belongs to a running tray executable.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}
