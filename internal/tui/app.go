// Package tui provides the interactive Bubble Tea dashboard for homeloan.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/scenario"
	"github.com/theirongolddev/homeloan/internal/tui/components"
	"github.com/theirongolddev/homeloan/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabMortgage = iota
	tabSchedule
	tabIncome
	tabSummary
)

type formKind int

const (
	formNone formKind = iota
	formMortgage
	formIncome
)

// App is the root Bubble Tea model. The scenario book it holds is the only
// state that outlives a form.
type App struct {
	cfg  config.Config
	book scenario.Book

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool

	// Open scenario form. Values sit behind pointers because huh binds to
	// them and App is copied on every update.
	form         *huh.Form
	formKind     formKind
	mortgageVals *mortgageValues
	incomeVals   *incomeValues

	sched scheduleState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	exportDir string
	clock     func() time.Time
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the dashboard. Exports are written to exportDir.
func NewApp(cfg config.Config, exportDir string) App {
	return App{
		cfg:       cfg,
		needSetup: !config.Exists(),
		exportDir: exportDir,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.needSetup {
		cmds = append(cmds, func() tea.Msg { return startSetupMsg{} })
	}
	return tea.Batch(cmds...)
}

type startSetupMsg struct{}

func (a App) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}
	return time.Now()
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		if a.sched.loanID != 0 {
			a.sched.table.SetHeight(a.scheduleTableHeight())
		}
		return a, nil

	case startSetupMsg:
		a.setupVals = NewSetupValues(a.cfg)
		a.setupForm = NewSetupForm(a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()

	case exportedMsg:
		if msg.Err != nil {
			a.setStatus(fmt.Sprintf("Export failed: %v", msg.Err), true)
		} else {
			a.setStatus(fmt.Sprintf("Exported %d payments to %s", msg.Rows, msg.Path), false)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.form != nil || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabSchedule && a.sched.loanID != 0 {
				a.sched.table.MoveUp(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabSchedule && a.sched.loanID != 0 {
				a.sched.table.MoveDown(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Scenario forms intercept all keys until submitted or cancelled
		if a.form != nil {
			return a.updateForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if a.activeTab == tabSchedule {
			if next, cmd, handled := a.updateScheduleKeys(msg); handled {
				return next, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "n":
			switch a.activeTab {
			case tabMortgage:
				return a.openForm(formMortgage)
			case tabIncome:
				return a.openForm(formIncome)
			}
		case "c":
			if len(a.book.Loans) > 0 {
				a.book = a.book.ClearLoans()
				a.rebuildScheduleTable()
				a.setStatus("Cleared all loan scenarios", false)
			}
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if r := []rune(key); len(r) == 1 {
				if idx := components.TabIdxByKey(r[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to whichever form is open
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) openForm(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formMortgage:
		a.mortgageVals = newMortgageValues(a.cfg, a.book.DefaultLoanName(), a.now())
		a.form = newMortgageForm(a.mortgageVals)
	case formIncome:
		a.incomeVals = newIncomeValues(a.cfg)
		a.form = newIncomeForm(a.incomeVals)
	default:
		return a, nil
	}
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth())
	}
	return a, a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
}

func (a App) formWidth() int {
	return min(components.CardInnerWidth(a.contentWidth()), 80)
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		a.setStatus("Cancelled", false)
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.closeForm()
		var err error
		switch kind {
		case formMortgage:
			a, err = a.addLoan(*a.mortgageVals)
		case formIncome:
			a, err = a.addStream(*a.incomeVals)
		}
		if err != nil {
			a.setStatus(err.Error(), true)
		}
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}

	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) saveSetupConfig() {
	cfg := a.cfg
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	if err := config.Save(cfg); err != nil {
		a.setStatus(fmt.Sprintf("Could not save config: %v", err), true)
		return
	}
	a.setStatus("Saved "+config.Path(), false)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  homeloan needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Income).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"m s i u", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll schedule"},
			{"[ ]", "Previous / Next scenario"},
		}},
		{"Actions", [][2]string{
			{"n", "New scenario or income stream"},
			{"c", "Clear loan scenarios"},
			{"e", "Export schedule to CSV"},
			{"Esc", "Cancel form"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kb := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", kb[0])),
				descStyle.Render(kb[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	msg := a.status
	if a.statusErr && msg != "" {
		msg = "✗ " + msg
	}
	statusBar := components.RenderStatusBar(w, msg)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabMortgage:
		content = a.renderMortgageTab(cw)
	case tabSchedule:
		content = a.renderScheduleTab(cw)
	case tabIncome:
		content = a.renderIncomeTab(cw)
	case tabSummary:
		content = a.renderSummaryTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
