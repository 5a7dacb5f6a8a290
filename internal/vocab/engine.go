package vocab

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/logger"
	"github.com/julianstephens/sagestudy/internal/models"
	"github.com/julianstephens/sagestudy/internal/storage"
	"github.com/julianstephens/sagestudy/internal/validation"
)

// Engine is the vocabulary service over the record store
type Engine struct {
	words     *storage.Collection[models.Word]
	history   *storage.Document[models.StudyHistory]
	validator *validation.Validator
	loc       *time.Location
	now       func() time.Time
}

func NewEngine(store *storage.Store, v *validation.Validator, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		words: storage.NewCollection[models.Word](store, constants.KeyVocabulary),
		history: storage.NewDocument(store, constants.KeyStudyStats, func() models.StudyHistory {
			return models.StudyHistory{DailyWordsLearned: map[string]int{}}
		}),
		validator: v,
		loc:       loc,
		now:       time.Now,
	}
}

// SetClock replaces the time source
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) AddWord(d models.WordDraft) (models.Word, error) {
	if err := e.validator.Struct(d); err != nil {
		return models.Word{}, err
	}

	w := models.Word{
		ID:         uuid.New().String(),
		Difficulty: constants.DefaultDifficulty,
		Confidence: constants.DefaultConfidence,
		Status:     constants.WordStatusLearning,
		CreatedAt:  models.FormatTimestamp(e.now()),
	}
	w.ApplyDraft(d)

	err := e.words.Update(func(words []models.Word) ([]models.Word, error) {
		return append(words, w), nil
	})
	if err != nil {
		logger.Error("Failed to save word", "word", w.Word, "error", err)
		return models.Word{}, err
	}

	logger.Debug("Added word", "id", w.ID, "word", w.Word)
	return w, nil
}

func (e *Engine) GetWord(id string) (models.Word, error) {
	for _, w := range e.words.GetAll() {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Word{}, apperrors.NotFoundf("word %s", id)
}

// ListWords returns stored words, optionally only those with status
func (e *Engine) ListWords(status constants.WordStatus) []models.Word {
	words := e.words.GetAll()
	if status == "" {
		return words
	}
	out := []models.Word{}
	for _, w := range words {
		if w.Status == status {
			out = append(out, w)
		}
	}
	return out
}

// SearchWords matches query against word and translation, ignoring case
func (e *Engine) SearchWords(query string) []models.Word {
	out := []models.Word{}
	for _, w := range e.words.GetAll() {
		if w.Matches(query) {
			out = append(out, w)
		}
	}
	return out
}

// ResolveWord finds a word by id, falling back to an exact case-insensitive
// match on the word text. CLI users rarely know ids.
func (e *Engine) ResolveWord(ref string) (models.Word, error) {
	words := e.words.GetAll()
	for _, w := range words {
		if w.ID == ref {
			return w, nil
		}
	}
	var found []models.Word
	for _, w := range words {
		if strings.EqualFold(w.Word, strings.TrimSpace(ref)) {
			found = append(found, w)
		}
	}
	switch len(found) {
	case 0:
		return models.Word{}, apperrors.NotFoundf("word %q", ref)
	case 1:
		return found[0], nil
	default:
		return models.Word{}, apperrors.Validationf("%q matches %d words, use the id instead", ref, len(found))
	}
}

// mutate applies fn to the word with id and persists the result
func (e *Engine) mutate(id string, fn func(models.Word) (models.Word, error)) (models.Word, error) {
	var updated models.Word
	err := e.words.Update(func(words []models.Word) ([]models.Word, error) {
		for i := range words {
			if words[i].ID != id {
				continue
			}
			w, err := fn(words[i])
			if err != nil {
				return nil, err
			}
			words[i] = w
			updated = w
			return words, nil
		}
		return nil, apperrors.NotFoundf("word %s", id)
	})
	if err != nil {
		return models.Word{}, err
	}
	return updated, nil
}

// UpdateProgress records a review with the given confidence. A nil notes
// keeps the current notes.
func (e *Engine) UpdateProgress(id string, confidence int, notes *string) (models.Word, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return models.Word{}, err
	}

	now := e.now()
	w, err := e.mutate(id, func(w models.Word) (models.Word, error) {
		return ApplyProgress(w, confidence, notes, now)
	})
	if err != nil {
		return models.Word{}, err
	}

	logger.Debug("Updated progress", "id", w.ID, "confidence", confidence, "status", w.Status)
	return w, nil
}

// UpdateWord edits the content fields of a word. Progress is untouched.
func (e *Engine) UpdateWord(id string, d models.WordDraft) (models.Word, error) {
	if err := e.validator.Struct(d); err != nil {
		return models.Word{}, err
	}
	return e.mutate(id, func(w models.Word) (models.Word, error) {
		w.ApplyDraft(d)
		return w, nil
	})
}

func (e *Engine) DeleteWord(id string) error {
	err := e.words.Update(func(words []models.Word) ([]models.Word, error) {
		for i := range words {
			if words[i].ID == id {
				return append(words[:i], words[i+1:]...), nil
			}
		}
		return nil, apperrors.NotFoundf("word %s", id)
	})
	if err != nil {
		return err
	}
	logger.Debug("Deleted word", "id", id)
	return nil
}

func (e *Engine) WordsForReview() []models.Word {
	return WordsForReview(e.words.GetAll(), e.now())
}

func (e *Engine) Stats() Stats {
	return StudyStats(e.words.GetAll())
}

func (e *Engine) RecentWords(limit int) []models.Word {
	return RecentWords(e.words.GetAll(), limit)
}

// RecordStudySession adds minutes and learned words to today's history
func (e *Engine) RecordStudySession(minutes, wordsLearned int) (models.StudyHistory, error) {
	now := e.now()
	h, err := e.history.Update(func(h models.StudyHistory) (models.StudyHistory, error) {
		return UpdateStudyHistory(h, minutes, wordsLearned, now, e.loc)
	})
	if err != nil {
		return models.StudyHistory{}, err
	}
	logger.Debug("Recorded study session", "minutes", minutes, "words", wordsLearned, "streak", h.Streak)
	return h, nil
}

func (e *Engine) History() models.StudyHistory {
	h := e.history.Get()
	if h.DailyWordsLearned == nil {
		h.DailyWordsLearned = map[string]int{}
	}
	return h
}
