package words

import (
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

type WordEditCmd struct {
	Ref                string  `arg:"" help:"Word ID or the word itself."`
	Word               *string `short:"w" help:"New word text."`
	Translation        *string `short:"t" help:"Translation."`
	Pronunciation      *string `short:"p" help:"Pronunciation."`
	Definition         *string `short:"d" help:"Definition."`
	Example            *string `short:"e" help:"Example sentence."`
	ExampleTranslation *string `help:"Translation of the example sentence."`
	ImageURL           *string `name:"image-url" help:"Image URL."`
	Notes              *string `short:"n" help:"Notes."`
	Difficulty         *string `help:"Difficulty (easy|medium|hard)."`
}

func (c *WordEditCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Vocab.ResolveWord(c.Ref)
	if err != nil {
		return err
	}

	draft := models.WordDraft{
		Word:               w.Word,
		Translation:        w.Translation,
		Pronunciation:      w.Pronunciation,
		Definition:         w.Definition,
		Example:            w.Example,
		ExampleTranslation: w.ExampleTranslation,
		ImageURL:           w.ImageURL,
		Notes:              w.Notes,
		Difficulty:         w.Difficulty,
	}

	updated := false
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = true
		}
	}
	set(&draft.Word, c.Word)
	set(&draft.Translation, c.Translation)
	set(&draft.Pronunciation, c.Pronunciation)
	set(&draft.Definition, c.Definition)
	set(&draft.Example, c.Example)
	set(&draft.ExampleTranslation, c.ExampleTranslation)
	set(&draft.ImageURL, c.ImageURL)
	set(&draft.Notes, c.Notes)
	if c.Difficulty != nil {
		draft.Difficulty = constants.Difficulty(*c.Difficulty)
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified.")
		return nil
	}

	w, err = ctx.Vocab.UpdateWord(w.ID, draft)
	if err != nil {
		return err
	}

	fmt.Printf("Updated word: %s (ID: %s)\n", w.Word, w.ID)
	return nil
}
