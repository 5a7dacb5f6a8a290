package system

import (
	"testing"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := ctx.Vocab.AddWord(models.WordDraft{Word: "hola", Translation: "hello"}); err != nil {
		t.Fatalf("failed to add word: %v", err)
	}

	// Missing backups is a warning, not a failure
	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_CorruptVocabulary(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := ctx.KV.Set(constants.KeyVocabulary, []byte("{not json")); err != nil {
		t.Fatalf("failed to write corrupt blob: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected doctor to fail on corrupt vocabulary")
	}
}

func TestDoctorCmd_InvalidWord(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	blob := `[{"id":"w1","word":"hola","confidence":9,"status":"learning","difficulty":"easy"}]`
	if err := ctx.KV.Set(constants.KeyVocabulary, []byte(blob)); err != nil {
		t.Fatalf("failed to write blob: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on out-of-range confidence")
	}
}

func TestDoctorCmd_OffsetChecks(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	// stringified offsets written by other clients are fine
	if err := ctx.KV.Set(constants.KeyReminderOffset, []byte(`"15"`)); err != nil {
		t.Fatalf("failed to write offset: %v", err)
	}
	if err := checkReminderOffset(ctx); err != nil {
		t.Errorf("expected stringified offset to pass, got %v", err)
	}

	if err := ctx.KV.Set(constants.KeyReminderOffset, []byte(`-5`)); err != nil {
		t.Fatalf("failed to write offset: %v", err)
	}
	if err := checkReminderOffset(ctx); err == nil {
		t.Error("expected negative offset to fail")
	}
}

func TestCheckBindings_Orphaned(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := ctx.KV.Set(constants.KeyNotificationIDs, []byte(`{"n1":"missing-task"}`)); err != nil {
		t.Fatalf("failed to write bindings: %v", err)
	}
	if err := checkBindings(ctx); err == nil {
		t.Error("expected orphaned binding to be reported")
	}
}

func TestCheckBackupsPresent(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := checkBackupsPresent(ctx); err == nil {
		t.Error("expected warning when no backups exist")
	}
	if _, err := ctx.Backups.CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("expected backups check to pass, got %v", err)
	}
}

func TestCheckDelivery_Disabled(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	ctx.Config.Notifications.Enabled = false
	if err := checkDelivery(ctx); err == nil {
		t.Error("expected delivery check to warn when notifications are disabled")
	}
}
