package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/income"
	"github.com/theirongolddev/homeloan/internal/scenario"
	"github.com/theirongolddev/homeloan/internal/tui/components"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// incomeValues back the income form fields.
type incomeValues struct {
	Name    string
	Monthly string
	Growth  string // GrowthKind slug
	Rate    string
	Years   string
}

func newIncomeValues(cfg config.Config) *incomeValues {
	return &incomeValues{
		Name:    "Monthly Income",
		Monthly: formatInput(cfg.Income.MonthlyIncome),
		Growth:  income.FixedAnnual.Slug(),
		Rate:    formatInput(cfg.Income.GrowthRatePercent),
		Years:   strconv.Itoa(cfg.Income.Years),
	}
}

// growth converts the selected strategy. Inflation-adjusted growth uses the
// advertised default rate; manual growth has no per-year inputs yet.
func (v incomeValues) growth() (income.Growth, error) {
	kind, err := income.ParseGrowthKind(v.Growth)
	if err != nil {
		return income.Growth{}, err
	}
	switch kind {
	case income.InflationAdjusted:
		return income.Inflation(income.DefaultInflationPercent), nil
	case income.ManualPerYear:
		return income.Manual(nil), nil
	}
	rate, err := parseAmount(v.Rate)
	if err != nil {
		return income.Growth{}, fmt.Errorf("growth rate: %w", err)
	}
	return income.Fixed(rate), nil
}

// project runs the projection starting in the month containing now.
func (v incomeValues) project(now time.Time) (income.Projection, error) {
	monthly, err := parseAmount(v.Monthly)
	if err != nil {
		return income.Projection{}, fmt.Errorf("monthly income: %w", err)
	}
	years, err := strconv.Atoi(strings.TrimSpace(v.Years))
	if err != nil {
		return income.Projection{}, fmt.Errorf("%w: years %q", income.ErrInvalidInput, v.Years)
	}
	g, err := v.growth()
	if err != nil {
		return income.Projection{}, err
	}
	return income.Project(now, monthly, g, years)
}

func newIncomeForm(v *incomeValues) *huh.Form {
	kinds := make([]huh.Option[string], len(income.GrowthKinds))
	for i, k := range income.GrowthKinds {
		kinds[i] = huh.NewOption(k.String(), k.Slug())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Stream name").Value(&v.Name),
			huh.NewInput().Title("Monthly income").Value(&v.Monthly).Validate(validateNonNegative),
			huh.NewSelect[string]().Title("Growth type").Options(kinds...).Value(&v.Growth),
		),
		huh.NewGroup(
			huh.NewInput().Title("Annual growth %").Value(&v.Rate).Validate(validateNumber),
		).WithHideFunc(func() bool { return v.Growth != income.FixedAnnual.Slug() }),
		huh.NewGroup(
			huh.NewInput().Title("Projection years").Value(&v.Years).Validate(validateYears),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// addStream projects the submitted income and appends it to the book.
func (a App) addStream(v incomeValues) (App, error) {
	p, err := v.project(a.now())
	if errors.Is(err, income.ErrGrowthNotImplemented) {
		kind, _ := income.ParseGrowthKind(v.Growth)
		return a, fmt.Errorf("%s is not implemented yet: %w", kind, err)
	}
	if err != nil {
		return a, err
	}

	var s scenario.Stream
	a.book, s = a.book.AddStream(strings.TrimSpace(v.Name), p)
	a.setStatus(fmt.Sprintf("Added %s: %s over %s", s.Name,
		cli.FormatCompactCurrency(p.Total()), cli.FormatYears(p.Years)), false)
	return a, nil
}

// yearlyTotals sums a projection per projection year.
// yearlyTotals labels each 12-month block by the year it starts in.
func yearlyTotals(p income.Projection) ([]float64, []string) {
	years := p.YearTotals()
	totals := make([]float64, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		totals[i] = y.Total
		labels[i] = y.From[:4]
	}
	return totals, labels
}

func (a App) renderIncomeTab(cw int) string {
	t := theme.Active

	if a.form != nil && a.formKind == formIncome {
		return components.FocusCard("New Income Stream", a.form.View(), cw)
	}

	if len(a.book.Streams) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No income streams yet. Press n to project income.")
		return components.ContentCard("Income", hint, cw)
	}

	latest := a.book.Streams[len(a.book.Streams)-1]
	p := latest.Projection
	vals := p.Values()
	final := 0.0
	if len(vals) > 0 {
		final = vals[len(vals)-1]
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Income", Value: cli.FormatCompactCurrency(p.Total()), Note: cli.FormatYears(p.Years)},
		{Label: "Starting Monthly", Value: cli.FormatCurrency(p.MonthlyIncome), Note: p.Start},
		{Label: "Final Monthly", Value: cli.FormatCurrency(final), Note: p.Growth.Kind.String()},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	totals, labels := yearlyTotals(p)
	chartH := max(a.height-18, 6)
	b.WriteString(components.ContentCard(latest.Name+" · income per year",
		components.ColumnChart(totals, labels, t.Income, inner, chartH), cw))

	if len(a.book.Streams) > 1 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("All Streams", renderStreams(a.book.Streams, inner), cw))
	}
	return b.String()
}

func renderStreams(streams []scenario.Stream, width int) string {
	rows := make([][]string, len(streams))
	for i, s := range streams {
		rows[i] = []string{
			s.Name,
			cli.FormatCurrency(s.Projection.MonthlyIncome),
			s.Projection.Growth.Kind.String(),
			cli.FormatYears(s.Projection.Years),
			cli.FormatCurrency(s.Projection.Total()),
		}
	}
	return renderGrid([]string{"Stream", "Monthly", "Growth", "Horizon", "Total"}, rows, width)
}
