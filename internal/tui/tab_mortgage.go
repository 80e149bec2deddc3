package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/scenario"
	"github.com/theirongolddev/homeloan/internal/tui/components"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// Calculation methods offered by the mortgage form.
const (
	methodHomePrice = "home"
	methodLoan      = "loan"

	downAmount  = "amount"
	downPercent = "percent"
)

// mortgageValues back the mortgage form fields.
type mortgageValues struct {
	Name       string
	Method     string
	HomePrice  string
	DownType   string
	DownValue  string
	LoanAmount string
	Rate       string
	Years      string
	Frequency  string
	Start      string
}

func newMortgageValues(cfg config.Config, name string, today time.Time) *mortgageValues {
	return &mortgageValues{
		Name:       name,
		Method:     methodHomePrice,
		HomePrice:  formatInput(cfg.Loan.HomePrice),
		DownType:   downPercent,
		DownValue:  formatInput(cfg.Loan.DownPaymentPercent),
		LoanAmount: formatInput(cfg.Loan.HomePrice * (1 - cfg.Loan.DownPaymentPercent/100)),
		Rate:       formatInput(cfg.Loan.AnnualRatePercent),
		Years:      strconv.Itoa(cfg.Loan.TermYears),
		Frequency:  frequencySlug(cfg.Loan.Frequency),
		Start:      today.Format(time.DateOnly),
	}
}

// inputs converts the form answers into loan inputs.
func (v mortgageValues) inputs() (amortization.Inputs, error) {
	var in amortization.Inputs

	rate, err := parseAmount(v.Rate)
	if err != nil {
		return in, fmt.Errorf("interest rate: %w", err)
	}
	years, err := strconv.Atoi(strings.TrimSpace(v.Years))
	if err != nil {
		return in, fmt.Errorf("%w: loan term %q", amortization.ErrInvalidInput, v.Years)
	}
	freq, err := amortization.ParseFrequency(v.Frequency)
	if err != nil {
		return in, err
	}
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(v.Start))
	if err != nil {
		return in, fmt.Errorf("%w: start date must be YYYY-MM-DD", amortization.ErrInvalidInput)
	}

	in.AnnualRatePercent = rate
	in.TermYears = years
	in.Frequency = freq
	in.StartDate = start

	if v.Method == methodLoan {
		amt, err := parseAmount(v.LoanAmount)
		if err != nil {
			return in, fmt.Errorf("loan amount: %w", err)
		}
		in.LoanAmount = &amt
		return in, nil
	}

	price, err := parseAmount(v.HomePrice)
	if err != nil {
		return in, fmt.Errorf("home price: %w", err)
	}
	down, err := parseAmount(v.DownValue)
	if err != nil {
		return in, fmt.Errorf("down payment: %w", err)
	}
	in.HomePrice = &price
	if v.DownType == downPercent {
		in.DownPaymentPercent = &down
	} else {
		in.DownPayment = &down
	}
	return in, nil
}

func newMortgageForm(v *mortgageValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Scenario name").Value(&v.Name),
			huh.NewSelect[string]().
				Title("Calculation method").
				Options(
					huh.NewOption("Home Price + Down Payment", methodHomePrice),
					huh.NewOption("Loan Amount", methodLoan),
				).
				Value(&v.Method),
		),
		huh.NewGroup(
			huh.NewInput().Title("Home price").Value(&v.HomePrice).Validate(validatePositive),
			huh.NewSelect[string]().
				Title("Down payment as").
				Options(
					huh.NewOption("Percentage", downPercent),
					huh.NewOption("Amount", downAmount),
				).
				Value(&v.DownType),
			huh.NewInput().
				TitleFunc(func() string {
					if v.DownType == downPercent {
						return "Down payment %"
					}
					return "Down payment amount"
				}, &v.DownType).
				Value(&v.DownValue).
				Validate(func(s string) error {
					if v.DownType == downPercent {
						return validatePercent(s)
					}
					return validateNonNegative(s)
				}),
		).WithHideFunc(func() bool { return v.Method != methodHomePrice }),
		huh.NewGroup(
			huh.NewInput().Title("Loan amount").Value(&v.LoanAmount).Validate(validatePositive),
		).WithHideFunc(func() bool { return v.Method != methodLoan }),
		huh.NewGroup(
			huh.NewInput().Title("Interest rate %").Value(&v.Rate).Validate(validateNonNegative),
			huh.NewInput().Title("Loan term (years)").Value(&v.Years).Validate(validateYears),
			huh.NewSelect[string]().
				Title("Payment frequency").
				Options(frequencyOptions()...).
				Value(&v.Frequency),
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&v.Start).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

// addLoan computes the submitted scenario and appends it to the book.
func (a App) addLoan(v mortgageValues) (App, error) {
	in, err := v.inputs()
	if err != nil {
		return a, err
	}
	p, err := in.Params()
	if err != nil {
		return a, err
	}
	r, err := amortization.Compute(p)
	if err != nil {
		return a, fmt.Errorf("computing schedule: %w", err)
	}

	var l scenario.Loan
	a.book, l = a.book.AddLoan(strings.TrimSpace(v.Name), r)
	a.sched.selected = len(a.book.Loans) - 1
	a.rebuildScheduleTable()
	a.setStatus(fmt.Sprintf("Added %s: %s %s", l.Name,
		cli.FormatCurrency(r.PaymentAmount), strings.ToLower(p.Frequency.String())), false)
	return a, nil
}

func (a App) renderMortgageTab(cw int) string {
	t := theme.Active

	if a.form != nil && a.formKind == formMortgage {
		return components.FocusCard("New Scenario", a.form.View(), cw)
	}

	if len(a.book.Loans) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No scenarios yet. Press n to calculate a mortgage.")
		return components.ContentCard("Mortgage", hint, cw)
	}

	latest := a.book.Loans[len(a.book.Loans)-1]
	r := latest.Result
	interestShare := 0.0
	if r.Params.Principal > 0 {
		interestShare = r.TotalInterest / r.Params.Principal * 100
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Payment", Value: cli.FormatCurrency(r.PaymentAmount), Note: r.Params.Frequency.String()},
		{Label: "Loan Amount", Value: cli.FormatCompactCurrency(r.Params.Principal), Note: latest.Name},
		{Label: "Total Interest", Value: cli.FormatCompactCurrency(r.TotalInterest),
			Note: fmt.Sprintf("%s of principal", cli.FormatPercent(interestShare))},
		{Label: "Total Payments", Value: cli.FormatCompactCurrency(r.TotalPayments),
			Note: fmt.Sprintf("%d payments", len(r.Schedule))},
	}, cw))
	b.WriteString("\n")

	rows := a.book.Comparison()
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = row.Cells()
	}
	inner := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("Scenario Comparison",
		renderGrid(scenario.ComparisonHeaders, cells, inner), cw))
	b.WriteString("\n")

	bars := make([]components.Bar, len(a.book.Loans))
	for i, l := range a.book.Loans {
		bars[i] = components.Bar{
			Label: truncStr(l.Name, 20),
			Value: l.Result.PaymentAmount,
			Text:  cli.FormatCurrency(l.Result.PaymentAmount),
			Color: t.Principal,
		}
	}
	b.WriteString(components.ContentCard("Payment per Period", components.HBarChart(bars, inner), cw))

	return b.String()
}

// renderGrid lays out a compact table on the card surface. Columns that do
// not fit in width are dropped from the right.
func renderGrid(headers []string, rows [][]string, width int) string {
	t := theme.Active

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	cols, used := 0, 0
	for cols < len(widths) && used+widths[cols]+2 <= width {
		used += widths[cols] + 2
		cols++
	}
	cols = max(cols, 1)

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	line := func(cells []string, first, rest lipgloss.Style) string {
		var sb strings.Builder
		for i := 0; i < cols; i++ {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			if i == 0 {
				sb.WriteString(first.Render(fmt.Sprintf("%-*s  ", widths[i], c)))
			} else {
				sb.WriteString(rest.Render(fmt.Sprintf("%*s  ", widths[i], c)))
			}
		}
		return sb.String()
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, line(headers, headStyle, headStyle))
	for _, row := range rows {
		out = append(out, line(row, nameStyle, cellStyle))
	}
	return strings.Join(out, "\n")
}
