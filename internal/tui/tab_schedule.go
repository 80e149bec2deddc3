package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/export"
	"github.com/theirongolddev/homeloan/internal/tui/components"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// scheduleState tracks the Schedule tab: which scenario is shown and the
// table scrolled over its payments.
type scheduleState struct {
	selected int
	table    table.Model
	loanID   int // loan the table was built for; 0 when empty
}

// exportedMsg reports the outcome of a CSV export.
type exportedMsg struct {
	Path string
	Rows int
	Err  error
}

// scheduleTableOverhead is the number of content lines around the table:
// selector, card borders and title, progress bar and spacing.
const scheduleTableOverhead = 9

var scheduleColumns = []struct {
	title string
	width int
}{
	{"#", 5},
	{"Date", 10},
	{"Payment", 12},
	{"Principal", 12},
	{"Interest", 12},
	{"Balance", 14},
}

func scheduleRows(schedule []amortization.Payment) []table.Row {
	rows := make([]table.Row, len(schedule))
	for i, p := range schedule {
		rows[i] = table.Row{
			strconv.Itoa(p.Number),
			cli.FormatDate(p.Date),
			cli.FormatCurrency(p.Amount),
			cli.FormatCurrency(p.Principal),
			cli.FormatCurrency(p.Interest),
			cli.FormatCurrency(p.Balance),
		}
	}
	return rows
}

func newScheduleTable(schedule []amortization.Payment, height int) table.Model {
	t := theme.Active

	cols := make([]table.Column, len(scheduleColumns))
	for i, c := range scheduleColumns {
		cols[i] = table.Column{Title: c.title, Width: c.width}
	}

	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(scheduleRows(schedule)),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.SurfaceBright).
		Bold(false)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	tbl.SetStyles(s)
	return tbl
}

// rebuildScheduleTable refreshes the table after the book or the selected
// scenario changes. The cursor survives when the same loan is still shown.
func (a *App) rebuildScheduleTable() {
	if len(a.book.Loans) == 0 {
		a.sched = scheduleState{}
		return
	}
	a.sched.selected = max(0, min(a.sched.selected, len(a.book.Loans)-1))
	loan := a.book.Loans[a.sched.selected]
	if loan.ID == a.sched.loanID {
		return
	}
	a.sched.table = newScheduleTable(loan.Result.Schedule, a.scheduleTableHeight())
	a.sched.loanID = loan.ID
}

func (a App) scheduleTableHeight() int {
	return max(a.height-3-scheduleTableOverhead, 5)
}

// selectScenario moves the Schedule tab selection by delta, wrapping.
func (a *App) selectScenario(delta int) {
	n := len(a.book.Loans)
	if n == 0 {
		return
	}
	a.sched.selected = ((a.sched.selected+delta)%n + n) % n
	a.rebuildScheduleTable()
}

// exportScheduleCmd writes the schedule to dir in the background.
func exportScheduleCmd(dir, name string, schedule []amortization.Payment) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.FileName(name))
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{Path: path, Err: fmt.Errorf("creating export: %w", err)}
		}
		if err := export.WriteScheduleCSV(f, schedule); err != nil {
			_ = f.Close()
			return exportedMsg{Path: path, Err: err}
		}
		if err := f.Close(); err != nil {
			return exportedMsg{Path: path, Err: fmt.Errorf("closing export: %w", err)}
		}
		return exportedMsg{Path: path, Rows: len(schedule)}
	}
}

func (a App) updateScheduleKeys(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch msg.String() {
	case "[":
		a.selectScenario(-1)
		return a, nil, true
	case "]":
		a.selectScenario(1)
		return a, nil, true
	case "e":
		if len(a.book.Loans) == 0 {
			a.setStatus("Nothing to export", true)
			return a, nil, true
		}
		loan := a.book.Loans[a.sched.selected]
		return a, exportScheduleCmd(a.exportDir, loan.Name, loan.Result.Schedule), true
	case "up", "down", "k", "j", "pgup", "pgdown", "home", "end", "g", "G", "ctrl+u", "ctrl+d":
		if a.sched.loanID == 0 {
			return a, nil, true
		}
		var cmd tea.Cmd
		a.sched.table, cmd = a.sched.table.Update(msg)
		return a, cmd, true
	}
	return a, nil, false
}

func (a App) renderScheduleTab(cw int) string {
	t := theme.Active

	if len(a.book.Loans) == 0 || a.sched.loanID == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Add a scenario on the Mortgage tab to see its schedule.")
		return components.ContentCard("Schedule", hint, cw)
	}

	loan := a.book.Loans[a.sched.selected]
	inner := components.CardInnerWidth(cw)

	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Background).Bold(true)
	bg := lipgloss.NewStyle().Background(t.Background)

	var sel strings.Builder
	sel.WriteString(bg.Render(" "))
	sel.WriteString(nameStyle.Render("[ "))
	for i, name := range a.book.LoanNames() {
		if i > 0 {
			sel.WriteString(nameStyle.Render(" · "))
		}
		if i == a.sched.selected {
			sel.WriteString(activeStyle.Render(name))
		} else {
			sel.WriteString(nameStyle.Render(name))
		}
	}
	sel.WriteString(nameStyle.Render(" ]"))

	var b strings.Builder
	b.WriteString(sel.String())
	b.WriteString("\n")

	title := fmt.Sprintf("%s · %s %s · %s", loan.Name,
		cli.FormatCurrency(loan.Result.PaymentAmount),
		strings.ToLower(loan.Result.Params.Frequency.String()),
		cli.FormatYears(loan.Result.Params.TermYears))
	b.WriteString(components.ContentCard(title, a.sched.table.View(), cw))
	b.WriteString("\n")

	cursor := a.sched.table.Cursor()
	if sched := loan.Result.Schedule; cursor >= 0 && cursor < len(sched) {
		principal := loan.Result.Params.Principal
		paid := 0.0
		if principal > 0 {
			paid = (principal - sched[cursor].Balance) / principal
		}
		barW := max(inner-30, 10)
		b.WriteString(components.ContentCard("",
			components.ShareBar("Principal paid", paid, t.Principal, 15, barW), cw))
	}
	return b.String()
}
