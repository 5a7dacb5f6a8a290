package validation

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/models"
)

// failingFields returns the sorted field names that fail validation
func failingFields(v *Validator, s interface{}) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(v.validate.Struct(s), &fieldErrs) {
		return nil
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return fields
}

func TestValidator_WordDraft(t *testing.T) {
	v := MustNew()

	tests := []struct {
		name       string
		draft      models.WordDraft
		wantErr    bool
		wantFields []string
		wantText   string
	}{
		{
			name:  "minimal word",
			draft: models.WordDraft{Word: "perro"},
		},
		{
			name:  "full word",
			draft: models.WordDraft{Word: "perro", Translation: "dog", ImageURL: "https://example.com/dog.png", Difficulty: "easy"},
		},
		{
			name:       "empty word",
			draft:      models.WordDraft{Word: ""},
			wantErr:    true,
			wantFields: []string{"word"},
			wantText:   "word cannot be empty",
		},
		{
			name:       "whitespace word",
			draft:      models.WordDraft{Word: " \t "},
			wantErr:    true,
			wantFields: []string{"word"},
		},
		{
			name:       "bad difficulty and url",
			draft:      models.WordDraft{Word: "perro", Difficulty: "brutal", ImageURL: "not a url"},
			wantErr:    true,
			wantFields: []string{"difficulty", "imageUrl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.draft)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Struct() error = %v, want ErrValidation", err)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Struct() error = %q, want to contain %q", err.Error(), tt.wantText)
			}
			got := failingFields(v, tt.draft)
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("failing fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidator_TaskDraft(t *testing.T) {
	v := MustNew()

	tests := []struct {
		name       string
		draft      models.TaskDraft
		wantFields []string
	}{
		{
			name:  "valid task",
			draft: models.TaskDraft{Title: "Essay", DueDate: "2026-05-01T09:00:00Z"},
		},
		{
			name:  "valid assessment with reminder",
			draft: models.TaskDraft{Title: "Exam", Type: "assessment", DueDate: "2026-05-01T09:00:00Z", ReminderTime: "2026-04-30T09:00:00Z"},
		},
		{
			name:       "missing title and due date",
			draft:      models.TaskDraft{},
			wantFields: []string{"dueDate", "title"},
		},
		{
			name:       "bad type and timestamps",
			draft:      models.TaskDraft{Title: "Essay", Type: "chore", DueDate: "May 1", ReminderTime: "later"},
			wantFields: []string{"dueDate", "reminderTime", "type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.draft)
			if (err != nil) != (len(tt.wantFields) > 0) {
				t.Fatalf("Struct() error = %v, want fields %v", err, tt.wantFields)
			}
			got := failingFields(v, tt.draft)
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("failing fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidator_Timezone(t *testing.T) {
	v := MustNew()

	type cfg struct {
		Timezone string `mapstructure:"timezone" validate:"tzname"`
	}

	if err := v.Struct(cfg{Timezone: "Local"}); err != nil {
		t.Errorf("Local should be valid: %v", err)
	}
	if err := v.Struct(cfg{Timezone: "UTC"}); err != nil {
		t.Errorf("UTC should be valid: %v", err)
	}
	err := v.Struct(cfg{Timezone: "Mars/Olympus"})
	if err == nil || !strings.Contains(err.Error(), "timezone must be an IANA timezone name") {
		t.Errorf("expected timezone translation, got %v", err)
	}
}
