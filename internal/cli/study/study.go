package study

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sagestudy/internal/cli"
	"github.com/julianstephens/sagestudy/internal/utils"
)

var now = time.Now

type StudyLogCmd struct {
	Minutes int `arg:"" help:"Minutes studied."`
	Words   int `short:"w" help:"Words learned in this session." default:"0"`
}

func (c *StudyLogCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Vocab.RecordStudySession(c.Minutes, c.Words)
	if err != nil {
		return err
	}

	fmt.Printf("Logged %d min and %d words. Total: %d min, streak: %d day(s).\n",
		c.Minutes, c.Words, h.TotalStudyTime, h.Streak)
	return nil
}

type StudyHistoryCmd struct {
	Days int `short:"d" help:"Number of days to chart." default:"7"`
}

func (c *StudyHistoryCmd) Run(ctx *cli.Context) error {
	h := ctx.Vocab.History()
	if h.LastStudyDate == "" {
		fmt.Println("No study sessions logged yet.")
		return nil
	}

	days := c.Days
	if days < 1 {
		days = 1
	}
	today := now().In(ctx.Location)

	maxWords := 0
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := utils.DateString(today.AddDate(0, 0, -i), ctx.Location)
		dates = append(dates, date)
		if n := h.DailyWordsLearned[date]; n > maxWords {
			maxWords = n
		}
	}

	rows := make([]string, 0, len(dates))
	for _, date := range dates {
		n := h.DailyWordsLearned[date]
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cli.LabelStyle.Render(date),
			cli.Bar(n, maxWords, 20),
			cli.ValueStyle.Render(fmt.Sprintf(" %d", n)),
		))
	}

	streak := fmt.Sprintf("%d day(s)", h.Streak)
	if gap, err := utils.DaysBetweenDates(h.LastStudyDate, utils.DateString(today, ctx.Location)); err == nil && gap > 1 {
		streak += cli.WarningStyle.Render(" (broken, study today to restart)")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		cli.TitleStyle.Render("Study history"),
		"",
		cli.KeyValue(
			[2]string{"Total time", fmt.Sprintf("%d min", h.TotalStudyTime)},
			[2]string{"Streak", streak},
			[2]string{"Last studied", h.LastStudyDate},
		),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	fmt.Println(cli.BoxStyle.Render(body))
	return nil
}
