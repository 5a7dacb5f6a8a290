// Package vocab tracks vocabulary progress and study history.
package vocab

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/models"
	"github.com/julianstephens/sagestudy/internal/utils"
)

// Stats summarizes a word list by status
type Stats struct {
	TotalWords  int `json:"totalWords"`
	Mastered    int `json:"mastered"`
	Learning    int `json:"learning"`
	Review      int `json:"review"`
	MasteryRate int `json:"masteryRate"` // percent, rounded
}

// StatusForConfidence maps a confidence score to a status. Thresholds are
// checked highest first.
func StatusForConfidence(confidence int) constants.WordStatus {
	switch {
	case confidence >= constants.MasteredConfidence:
		return constants.WordStatusMastered
	case confidence >= constants.LearningConfidence:
		return constants.WordStatusLearning
	default:
		return constants.WordStatusReview
	}
}

// ValidateConfidence rejects scores outside 1-5
func ValidateConfidence(confidence int) error {
	if confidence < constants.MinConfidence || confidence > constants.MaxConfidence {
		return apperrors.Validationf("confidence must be between %d and %d, got %d",
			constants.MinConfidence, constants.MaxConfidence, confidence)
	}
	return nil
}

// ApplyProgress records a review of w at now. A nil notes keeps the
// existing notes; any non-nil value, empty included, replaces them.
func ApplyProgress(w models.Word, confidence int, notes *string, now time.Time) (models.Word, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return w, err
	}

	ts := models.FormatTimestamp(now)
	w.Confidence = confidence
	w.LastReviewed = &ts
	w.ReviewCount++
	w.Status = StatusForConfidence(confidence)
	if w.Status == constants.WordStatusMastered {
		mastered := ts
		w.MasteredAt = &mastered
	}
	if notes != nil {
		w.Notes = *notes
	}
	return w, nil
}

// DueForReview reports whether w should be offered for review at now
func DueForReview(w models.Word, now time.Time) bool {
	switch w.Status {
	case constants.WordStatusReview:
		return true
	case constants.WordStatusLearning:
		last, ok := w.LastReviewedTime()
		if !ok {
			return false
		}
		return utils.ElapsedWholeDays(last, now) >= constants.ReviewAfterDays
	default:
		return false
	}
}

// WordsForReview returns the words due for review, in stored order
func WordsForReview(words []models.Word, now time.Time) []models.Word {
	out := []models.Word{}
	for _, w := range words {
		if DueForReview(w, now) {
			out = append(out, w)
		}
	}
	return out
}

func StudyStats(words []models.Word) Stats {
	s := Stats{TotalWords: len(words)}
	for _, w := range words {
		switch w.Status {
		case constants.WordStatusMastered:
			s.Mastered++
		case constants.WordStatusLearning:
			s.Learning++
		case constants.WordStatusReview:
			s.Review++
		}
	}
	if s.TotalWords > 0 {
		s.MasteryRate = int(math.Round(float64(s.Mastered) / float64(s.TotalWords) * 100))
	}
	return s
}

// UpdateStudyHistory adds a study session on the calendar day of now in loc.
// The streak grows only when the previous session was exactly one calendar
// day earlier; same-day sessions leave it alone and any other gap resets it.
func UpdateStudyHistory(h models.StudyHistory, minutes, wordsLearned int, now time.Time, loc *time.Location) (models.StudyHistory, error) {
	if minutes < 0 {
		return h, apperrors.Validationf("minutes studied cannot be negative, got %d", minutes)
	}
	if wordsLearned < 0 {
		return h, apperrors.Validationf("words learned cannot be negative, got %d", wordsLearned)
	}

	out := h.Clone()
	today := utils.DateString(now, loc)

	out.TotalStudyTime += minutes
	out.DailyWordsLearned[today] += wordsLearned

	if out.LastStudyDate == "" {
		out.Streak = 1
	} else {
		diff, err := utils.DaysBetweenDates(out.LastStudyDate, today)
		switch {
		case err != nil:
			out.Streak = 1
		case diff == 0:
			if out.Streak < 1 {
				out.Streak = 1
			}
		case diff == 1:
			out.Streak++
		default:
			out.Streak = 1
		}
	}
	out.LastStudyDate = today

	return out, nil
}

// RecentWords returns reviewed words, most recently reviewed first.
// Words with unparseable timestamps keep their position. limit <= 0 keeps all.
func RecentWords(words []models.Word, limit int) []models.Word {
	out := []models.Word{}
	for _, w := range words {
		if w.LastReviewed != nil && *w.LastReviewed != "" {
			out = append(out, w)
		}
	}

	var slots []int
	var dated []models.Word
	for i, w := range out {
		if _, ok := w.LastReviewedTime(); ok {
			slots = append(slots, i)
			dated = append(dated, w)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		ti, _ := dated[i].LastReviewedTime()
		tj, _ := dated[j].LastReviewedTime()
		return ti.After(tj)
	})
	for k, i := range slots {
		out[i] = dated[k]
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
