package words

import (
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

type WordAddCmd struct {
	Word               string `arg:"" help:"The word or phrase to learn."`
	Translation        string `short:"t" help:"Translation."`
	Pronunciation      string `short:"p" help:"Pronunciation."`
	Definition         string `short:"d" help:"Definition."`
	Example            string `short:"e" help:"Example sentence."`
	ExampleTranslation string `help:"Translation of the example sentence."`
	ImageURL           string `name:"image-url" help:"Image URL."`
	Notes              string `short:"n" help:"Notes."`
	Difficulty         string `help:"Difficulty (easy|medium|hard)." enum:"easy,medium,hard" default:"medium"`
}

func (c *WordAddCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Vocab.AddWord(models.WordDraft{
		Word:               c.Word,
		Translation:        c.Translation,
		Pronunciation:      c.Pronunciation,
		Definition:         c.Definition,
		Example:            c.Example,
		ExampleTranslation: c.ExampleTranslation,
		ImageURL:           c.ImageURL,
		Notes:              c.Notes,
		Difficulty:         constants.Difficulty(c.Difficulty),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added word: %s (ID: %s)\n", w.Word, w.ID)
	return nil
}
