package words

import (
	"fmt"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/constants"
	"github.com/julianstephens/sagestudy/internal/models"
)

type WordListCmd struct {
	Status  string `short:"s" help:"Only show words with this status (learning|review|mastered)." enum:",learning,review,mastered" default:""`
	ShowIDs bool   `help:"Show word IDs." name:"show-ids"`
}

func (c *WordListCmd) Run(ctx *cli.Context) error {
	words := ctx.Vocab.ListWords(constants.WordStatus(c.Status))
	if len(words) == 0 {
		fmt.Println("No words found")
		return nil
	}

	fmt.Printf("Words (%d):\n", len(words))
	printWords(ctx, words, c.ShowIDs)
	return nil
}

type WordSearchCmd struct {
	Query   string `arg:"" help:"Text to find in the word or its translation."`
	ShowIDs bool   `help:"Show word IDs." name:"show-ids"`
}

func (c *WordSearchCmd) Run(ctx *cli.Context) error {
	words := ctx.Vocab.SearchWords(c.Query)
	if len(words) == 0 {
		fmt.Printf("No words match %q\n", c.Query)
		return nil
	}

	fmt.Printf("Matches for %q (%d):\n", c.Query, len(words))
	printWords(ctx, words, c.ShowIDs)
	return nil
}

type WordRecentCmd struct {
	Limit int `short:"n" help:"Number of words to show." default:"10"`
}

func (c *WordRecentCmd) Run(ctx *cli.Context) error {
	words := ctx.Vocab.RecentWords(c.Limit)
	if len(words) == 0 {
		fmt.Println("No words reviewed yet")
		return nil
	}

	fmt.Println("Recently reviewed:")
	for _, w := range words {
		fmt.Printf("  %s  %s - %s (confidence %d, %s)\n",
			cli.FormatOptional(w.LastReviewed, ctx.Location), w.Word, w.Translation, w.Confidence, w.Status)
	}
	return nil
}

type WordShowCmd struct {
	Ref string `arg:"" help:"Word ID or the word itself."`
}

func (c *WordShowCmd) Run(ctx *cli.Context) error {
	w, err := ctx.Vocab.ResolveWord(c.Ref)
	if err != nil {
		return err
	}

	rows := [][2]string{
		{"ID", w.ID},
		{"Translation", w.Translation},
		{"Pronunciation", w.Pronunciation},
		{"Definition", w.Definition},
		{"Example", w.Example},
		{"Example (tr.)", w.ExampleTranslation},
		{"Image", w.ImageURL},
		{"Notes", w.Notes},
		{"Difficulty", string(w.Difficulty)},
		{"Status", string(w.Status)},
		{"Confidence", fmt.Sprintf("%d/%d", w.Confidence, constants.MaxConfidence)},
		{"Reviews", fmt.Sprintf("%d", w.ReviewCount)},
		{"Added", cli.FormatLocal(w.CreatedAt, ctx.Location)},
		{"Last reviewed", cli.FormatOptional(w.LastReviewed, ctx.Location)},
	}
	if w.MasteredAt != nil {
		rows = append(rows, [2]string{"Mastered", cli.FormatOptional(w.MasteredAt, ctx.Location)})
	}

	shown := rows[:0]
	for _, row := range rows {
		if row[1] != "" {
			shown = append(shown, row)
		}
	}

	fmt.Println(cli.TitleStyle.Render(w.Word))
	fmt.Println(cli.KeyValue(shown...))
	return nil
}

func printWords(ctx *cli.Context, words []models.Word, showIDs bool) {
	for _, w := range words {
		idStr := ""
		if showIDs {
			idStr = fmt.Sprintf(" (ID: %s)", w.ID)
		}
		translation := ""
		if w.Translation != "" {
			translation = " - " + w.Translation
		}
		fmt.Printf("  [%s] %s%s%s (confidence %d, %d reviews)\n",
			w.Status, w.Word, translation, idStr, w.Confidence, w.ReviewCount)
	}
}
