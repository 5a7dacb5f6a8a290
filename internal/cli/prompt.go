package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

// ReviewAnswer is the outcome of one interactive review prompt
type ReviewAnswer int

const (
	ReviewQuit ReviewAnswer = -1
	ReviewSkip ReviewAnswer = 0
)

// Confirm asks a yes/no question on the terminal
func Confirm(title string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// AskConfidence shows w, reveals the answer on request and asks how well it
// was recalled. It returns a confidence between MinConfidence and
// MaxConfidence, ReviewSkip or ReviewQuit.
func AskConfidence(w models.Word) (ReviewAnswer, error) {
	answer := ReviewSkip
	options := []huh.Option[ReviewAnswer]{
		huh.NewOption("5 - Know it cold", ReviewAnswer(constants.MaxConfidence)),
		huh.NewOption("4 - Got it", ReviewAnswer(4)),
		huh.NewOption("3 - Took a moment", ReviewAnswer(3)),
		huh.NewOption("2 - Barely", ReviewAnswer(2)),
		huh.NewOption("1 - Forgot", ReviewAnswer(constants.MinConfidence)),
		huh.NewOption("Skip", ReviewSkip),
		huh.NewOption("Quit review", ReviewQuit),
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(w.Word).
				Description(recallHint(w)).
				Next(true).
				NextLabel("Show answer"),
		),
		huh.NewGroup(
			huh.NewSelect[ReviewAnswer]().
				Title(w.Word).
				Description(answerText(w)).
				Options(options...).
				Value(&answer),
		),
	).Run()
	if err != nil {
		return ReviewQuit, err
	}
	return answer, nil
}

// recallHint is shown before the answer and must not give it away
func recallHint(w models.Word) string {
	hint := "Recall the meaning, then show the answer."
	if w.Pronunciation != "" {
		hint = fmt.Sprintf("[%s]\n%s", w.Pronunciation, hint)
	}
	return hint
}

func answerText(w models.Word) string {
	text := w.Translation
	if w.Definition != "" {
		text = fmt.Sprintf("%s\n%s", text, w.Definition)
	}
	if w.Example != "" {
		text = fmt.Sprintf("%s\n%s", text, MutedStyle.Render(w.Example))
	}
	return text
}
