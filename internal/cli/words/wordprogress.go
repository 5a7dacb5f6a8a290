package words

import (
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
)

type WordProgressCmd struct {
	Ref        string  `arg:"" help:"Word ID or the word itself."`
	Confidence int     `arg:"" help:"How well you knew it, 1 (forgot) to 5 (mastered)."`
	Notes      *string `short:"n" help:"Replace the word's notes. An empty value clears them."`
}

func (c *WordProgressCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Vocab.ResolveWord(c.Ref)
	if err != nil {
		return err
	}

	w, err = ctx.Vocab.UpdateProgress(w.ID, c.Confidence, c.Notes)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded review: %s is now %s (confidence %d, %d reviews)\n", w.Word, w.Status, w.Confidence, w.ReviewCount)
	return nil
}
