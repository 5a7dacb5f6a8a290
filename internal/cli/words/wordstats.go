package words

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sagestudy/internal/cli"
)

const barWidth = 24

type WordStatsCmd struct{}

func (c *WordStatsCmd) Run(ctx *cli.Context) error {
	stats := ctx.Vocab.Stats()
	if stats.TotalWords == 0 {
		fmt.Println("No words yet. Add one with 'sagestudy word add'.")
		return nil
	}

	row := func(label string, n int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			cli.LabelStyle.Render(label),
			cli.Bar(n, stats.TotalWords, barWidth),
			cli.ValueStyle.Render(fmt.Sprintf(" %d", n)),
		)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		cli.TitleStyle.Render("Vocabulary"),
		"",
		row("Mastered", stats.Mastered),
		row("Learning", stats.Learning),
		row("Review", stats.Review),
		"",
		cli.KeyValue(
			[2]string{"Total words", fmt.Sprintf("%d", stats.TotalWords)},
			[2]string{"Mastery rate", fmt.Sprintf("%d%%", stats.MasteryRate)},
			[2]string{"Due now", fmt.Sprintf("%d", len(ctx.Vocab.WordsForReview()))},
		),
	)
	fmt.Println(cli.BoxStyle.Render(body))
	return nil
}
