package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/scenario"
	"github.com/theirongolddev/homeloan/internal/tui/components"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// summaryPreviewRows is how many schedule rows each scenario card shows.
const summaryPreviewRows = 5

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active

	if len(a.book.Loans) == 0 && len(a.book.Streams) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Nothing to summarize. Add scenarios on the Mortgage and Income tabs.")
		return components.ContentCard("Summary", hint, cw)
	}

	inner := components.CardInnerWidth(cw)
	var cards []string
	for _, l := range a.book.Loans {
		cards = append(cards, components.ContentCard(loanTitle(l), loanPreview(l, inner), cw))
	}
	if len(a.book.Streams) > 0 {
		cards = append(cards, components.ContentCard("Income Streams", renderStreams(a.book.Streams, inner), cw))
	}
	return strings.Join(cards, "\n")
}

func loanTitle(l scenario.Loan) string {
	r := l.Result
	return fmt.Sprintf("%s · %s at %s over %s · %s %s",
		l.Name,
		cli.FormatCurrency(r.Params.Principal),
		cli.FormatRate(r.Params.AnnualRatePercent),
		cli.FormatYears(r.Params.TermYears),
		cli.FormatCurrency(r.PaymentAmount),
		strings.ToLower(r.Params.Frequency.String()))
}

func loanPreview(l scenario.Loan, width int) string {
	sched := l.Result.Schedule
	n := min(summaryPreviewRows, len(sched))
	rows := make([][]string, n)
	for i, p := range sched[:n] {
		rows[i] = []string{
			strconv.Itoa(p.Number),
			cli.FormatDate(p.Date),
			cli.FormatCurrency(p.Amount),
			cli.FormatCurrency(p.Principal),
			cli.FormatCurrency(p.Interest),
			cli.FormatCurrency(p.Balance),
		}
	}
	grid := renderGrid([]string{"#", "Date", "Payment", "Principal", "Interest", "Balance"}, rows, width)

	r := l.Result
	split := components.ShareBar("Interest share", shareOf(r.TotalInterest, r.TotalPayments),
		theme.Active.Interest, 15, max(width-30, 10))
	return grid + "\n\n" + split
}

func shareOf(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total
}
