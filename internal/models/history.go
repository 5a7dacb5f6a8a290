package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StudyHistory is the process-wide study record
type StudyHistory struct {
	TotalStudyTime    int            `json:"totalStudyTime"` // minutes
	Streak            int            `json:"streak"`
	LastStudyDate     string         `json:"lastStudyDate"` // YYYY-MM-DD
	DailyWordsLearned map[string]int `json:"dailyWordsLearned"`
}

// Clone returns a deep copy so callers can derive a new history without aliasing the map
func (h StudyHistory) Clone() StudyHistory {
	out := h
	out.DailyWordsLearned = make(map[string]int, len(h.DailyWordsLearned))
	for day, n := range h.DailyWordsLearned {
		out.DailyWordsLearned[day] = n
	}
	return out
}

// Days returns the dates with recorded words, oldest first
func (h StudyHistory) Days() []string {
	days := make([]string, 0, len(h.DailyWordsLearned))
	for day := range h.DailyWordsLearned {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// NotificationBindings maps a scheduled notification id to its owning task id
type NotificationBindings map[string]string

// ForTask returns the notification ids bound to taskID, sorted
func (b NotificationBindings) ForTask(taskID string) []string {
	var ids []string
	for id, owner := range b {
		if owner == taskID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IDs returns every bound notification id, sorted
func (b NotificationBindings) IDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Minutes is a persisted minute count. It decodes from a JSON number or a
// stringified number, both of which appear under REMINDER_OFFSET.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("minutes must be a number, got null")
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*m = Minutes(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("minutes must be a number: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("minutes must be a number: %w", err)
	}
	*m = Minutes(n)
	return nil
}
