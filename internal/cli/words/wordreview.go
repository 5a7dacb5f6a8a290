package words

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/logger"
)

var (
	askConfidence = cli.AskConfidence
	now           = time.Now
)

type WordReviewCmd struct {
	Interactive bool `short:"i" help:"Walk through the due words and rate each one."`
	Limit       int  `short:"n" help:"Review at most this many words (0 = all)." default:"0"`
}

func (c *WordReviewCmd) Run(ctx *cli.Context) error {
	due := ctx.Vocab.WordsForReview()
	if c.Limit > 0 && len(due) > c.Limit {
		due = due[:c.Limit]
	}
	if len(due) == 0 {
		fmt.Println("Nothing to review. Come back tomorrow!")
		return nil
	}

	if !c.Interactive {
		fmt.Printf("Words due for review (%d):\n", len(due))
		for _, w := range due {
			fmt.Printf("  [%s] %s - %s (last reviewed %s)\n",
				w.Status, w.Word, w.Translation, cli.FormatOptional(w.LastReviewed, ctx.Location))
		}
		fmt.Println("\nRun 'sagestudy word review --interactive' to start.")
		return nil
	}

	started := now()
	reviewed, learned := 0, 0
	for _, w := range due {
		answer, err := askConfidence(w)
		if errors.Is(err, huh.ErrUserAborted) {
			// Ctrl+C ends the review like Quit
			break
		}
		if err != nil {
			return err
		}
		if answer == cli.ReviewQuit {
			break
		}
		if answer == cli.ReviewSkip {
			continue
		}

		updated, err := ctx.Vocab.UpdateProgress(w.ID, int(answer), nil)
		if err != nil {
			return err
		}
		reviewed++
		if updated.Confidence >= constants.LearningConfidence {
			learned++
		}
		fmt.Printf("  %s → %s\n", updated.Word, updated.Status)
	}

	if reviewed == 0 {
		fmt.Println("No words reviewed.")
		return nil
	}

	minutes := int(math.Ceil(now().Sub(started).Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	h, err := ctx.Vocab.RecordStudySession(minutes, learned)
	if err != nil {
		// the reviews themselves are saved; only the session log failed
		logger.Warn("Failed to record study session", "error", err)
		fmt.Printf("Reviewed %d words (session not logged: %v)\n", reviewed, err)
		return nil
	}

	fmt.Printf("\nReviewed %d words in %d min. Streak: %d day(s).\n", reviewed, minutes, h.Streak)
	return nil
}
