package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
)

// Word is a unit of vocabulary. Timestamps are kept as the stored RFC3339
// strings. Unknown fields are dropped on save and null optionals are omitted.
type Word struct {
	ID                 string               `json:"id"`
	Word               string               `json:"word"`
	Translation        string               `json:"translation"`
	Pronunciation      string               `json:"pronunciation"`
	Definition         string               `json:"definition"`
	Example            string               `json:"example"`
	ExampleTranslation string               `json:"exampleTranslation"`
	ImageURL           string               `json:"imageUrl"`
	Notes              string               `json:"notes"`
	Difficulty         constants.Difficulty `json:"difficulty"`
	Confidence         int                  `json:"confidence"`
	Status             constants.WordStatus `json:"status"`
	CreatedAt          string               `json:"createdAt"`
	LastReviewed       *string              `json:"lastReviewed,omitempty"`
	ReviewCount        int                  `json:"reviewCount"`
	MasteredAt         *string              `json:"masteredAt,omitempty"`
}

// WordDraft carries the user-editable fields of a word
type WordDraft struct {
	Word               string               `json:"word" validate:"nonblank,max=200"`
	Translation        string               `json:"translation" validate:"max=500"`
	Pronunciation      string               `json:"pronunciation" validate:"max=200"`
	Definition         string               `json:"definition" validate:"max=2000"`
	Example            string               `json:"example" validate:"max=2000"`
	ExampleTranslation string               `json:"exampleTranslation" validate:"max=2000"`
	ImageURL           string               `json:"imageUrl" validate:"omitempty,url"`
	Notes              string               `json:"notes" validate:"max=5000"`
	Difficulty         constants.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// LastReviewedTime returns the parsed lastReviewed timestamp.
// ok is false when the word was never reviewed or the value is unparseable.
func (w Word) LastReviewedTime() (time.Time, bool) {
	return parseOptional(w.LastReviewed)
}

// Matches reports whether query appears in the word or its translation, ignoring case
func (w Word) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(w.Word), q) ||
		strings.Contains(strings.ToLower(w.Translation), q)
}

// Validate checks the invariants of a stored word
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Word) == "" {
		return fmt.Errorf("word cannot be empty")
	}
	if w.Confidence < constants.MinConfidence || w.Confidence > constants.MaxConfidence {
		return fmt.Errorf("confidence must be between %d and %d, got %d", constants.MinConfidence, constants.MaxConfidence, w.Confidence)
	}
	switch w.Status {
	case constants.WordStatusLearning, constants.WordStatusReview:
	case constants.WordStatusMastered:
		if w.MasteredAt == nil {
			return fmt.Errorf("mastered word %s has no masteredAt", w.ID)
		}
	default:
		return fmt.Errorf("invalid status: %q", w.Status)
	}
	switch w.Difficulty {
	case constants.DifficultyEasy, constants.DifficultyMedium, constants.DifficultyHard:
	default:
		return fmt.Errorf("invalid difficulty: %q", w.Difficulty)
	}
	if w.ReviewCount < 0 {
		return fmt.Errorf("review count cannot be negative")
	}
	return nil
}

// ApplyDraft copies the content fields of d onto the word, leaving progress untouched
func (w *Word) ApplyDraft(d WordDraft) {
	w.Word = strings.TrimSpace(d.Word)
	w.Translation = d.Translation
	w.Pronunciation = d.Pronunciation
	w.Definition = d.Definition
	w.Example = d.Example
	w.ExampleTranslation = d.ExampleTranslation
	w.ImageURL = d.ImageURL
	w.Notes = d.Notes
	if d.Difficulty != "" {
		w.Difficulty = d.Difficulty
	}
}

func parseOptional(ts *string) (time.Time, bool) {
	if ts == nil || *ts == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(constants.TimestampFormat, *ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders t the way every persisted timestamp is stored
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}
