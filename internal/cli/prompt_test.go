package cli

import (
	"strings"
	"testing"

	"github.com/julianstephens/sagestudy/internal/models"
)

func TestRecallHintHidesAnswer(t *testing.T) {
	w := models.Word{
		Word:          "perro",
		Translation:   "dog",
		Pronunciation: "PEH-rro",
		Definition:    "a domesticated canine",
		Example:       "El perro ladra.",
	}

	hint := recallHint(w)
	for _, answer := range []string{w.Translation, w.Definition, w.Example} {
		if strings.Contains(hint, answer) {
			t.Errorf("recall hint %q reveals %q", hint, answer)
		}
	}
	if !strings.Contains(hint, w.Pronunciation) {
		t.Errorf("recall hint %q should include the pronunciation", hint)
	}

	text := answerText(w)
	for _, answer := range []string{w.Translation, w.Definition, "El perro ladra."} {
		if !strings.Contains(text, answer) {
			t.Errorf("answer text %q missing %q", text, answer)
		}
	}
}
