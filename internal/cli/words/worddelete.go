package words

import (
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
)

var confirm = cli.Confirm

type WordDeleteCmd struct {
	Ref string `arg:"" help:"Word ID or the word itself."`
	Yes bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *WordDeleteCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Vocab.ResolveWord(c.Ref)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirm(fmt.Sprintf("Delete %q and its review history?", w.Word))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Vocab.DeleteWord(w.ID); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}

	fmt.Printf("Deleted word: %s (ID: %s)\n", w.Word, w.ID)
	return nil
}
