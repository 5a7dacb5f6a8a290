package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
)

func strPtr(s string) *string { return &s }

func TestWord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		word    Word
		wantErr bool
	}{
		{
			name: "valid learning word",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: constants.DifficultyMedium,
				Confidence: 3, Status: constants.WordStatusLearning,
			},
		},
		{
			name: "valid mastered word",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: constants.DifficultyEasy,
				Confidence: 5, Status: constants.WordStatusMastered, MasteredAt: strPtr("2026-01-15T10:00:00Z"),
			},
		},
		{
			name: "mastered without masteredAt",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: constants.DifficultyEasy,
				Confidence: 5, Status: constants.WordStatusMastered,
			},
			wantErr: true,
		},
		{
			name: "blank word",
			word: Word{
				ID: "w1", Word: "   ", Difficulty: constants.DifficultyEasy,
				Confidence: 3, Status: constants.WordStatusLearning,
			},
			wantErr: true,
		},
		{
			name: "confidence out of range",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: constants.DifficultyEasy,
				Confidence: 6, Status: constants.WordStatusLearning,
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: constants.DifficultyEasy,
				Confidence: 3, Status: "forgotten",
			},
			wantErr: true,
		},
		{
			name: "unknown difficulty",
			word: Word{
				ID: "w1", Word: "gato", Difficulty: "brutal",
				Confidence: 3, Status: constants.WordStatusLearning,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.word.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Word.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWord_LastReviewedTime(t *testing.T) {
	tests := []struct {
		name   string
		value  *string
		wantOK bool
		want   time.Time
	}{
		{"never reviewed", nil, false, time.Time{}},
		{"empty string", strPtr(""), false, time.Time{}},
		{"garbage", strPtr("yesterday-ish"), false, time.Time{}},
		{"valid", strPtr("2026-03-01T08:30:00Z"), true, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Word{LastReviewed: tt.value}
			got, ok := w.LastReviewedTime()
			if ok != tt.wantOK {
				t.Fatalf("LastReviewedTime() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("LastReviewedTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWord_Matches(t *testing.T) {
	w := Word{Word: "Schmetterling", Translation: "butterfly"}

	for _, q := range []string{"", "schmett", "BUTTER", "  fly "} {
		if !w.Matches(q) {
			t.Errorf("Matches(%q) = false, want true", q)
		}
	}
	if w.Matches("moth") {
		t.Error("Matches(\"moth\") = true, want false")
	}
}

func TestWord_ApplyDraftKeepsProgress(t *testing.T) {
	w := Word{
		ID: "w1", Word: "old", Difficulty: constants.DifficultyHard,
		Confidence: 5, Status: constants.WordStatusMastered, ReviewCount: 7,
		MasteredAt: strPtr("2026-01-15T10:00:00Z"),
	}

	w.ApplyDraft(WordDraft{Word: "  new  ", Translation: "neu"})

	if w.Word != "new" || w.Translation != "neu" {
		t.Errorf("content not applied: %+v", w)
	}
	if w.Difficulty != constants.DifficultyHard {
		t.Errorf("empty draft difficulty should keep %q, got %q", constants.DifficultyHard, w.Difficulty)
	}
	if w.ReviewCount != 7 || w.Status != constants.WordStatusMastered || w.MasteredAt == nil {
		t.Errorf("progress fields changed: %+v", w)
	}
}

func TestWord_JSONKeepsTimestampsAsStored(t *testing.T) {
	in := `{"id":"w1","word":"perro","lastReviewed":"2026-05-01T09:00:00.123+02:00","masteredAt":null,"legacy":true}`

	var w Word
	if err := json.Unmarshal([]byte(in), &w); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got := string(out)
	if !strings.Contains(got, `"lastReviewed":"2026-05-01T09:00:00.123+02:00"`) {
		t.Errorf("lastReviewed was rewritten: %s", got)
	}
	if strings.Contains(got, "masteredAt") {
		t.Errorf("null masteredAt should be omitted: %s", got)
	}
	if strings.Contains(got, "legacy") {
		t.Errorf("unknown fields should be dropped: %s", got)
	}
}
