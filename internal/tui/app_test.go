package tui

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/export"
	"github.com/theirongolddev/homeloan/internal/income"
	"github.com/theirongolddev/homeloan/internal/tui/components"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var testNow = time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) App {
	t.Helper()
	return App{
		cfg:       config.DefaultConfig(),
		width:     120,
		height:    40,
		exportDir: t.TempDir(),
		clock:     func() time.Time { return testNow },
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = a.Update(key(k))
		a = m.(App)
	}
	return a, cmd
}

func baseMortgage() mortgageValues {
	return mortgageValues{
		Name:      "Thirty",
		Method:    methodHomePrice,
		HomePrice: "$375,000",
		DownType:  downPercent,
		DownValue: "20",
		Rate:      "4.5",
		Years:     "30",
		Frequency: "monthly",
		Start:     "2024-01-31",
	}
}

func withLoan(t *testing.T, a App, v mortgageValues) App {
	t.Helper()
	a, err := a.addLoan(v)
	if err != nil {
		t.Fatalf("addLoan: %v", err)
	}
	return a
}

func TestTabKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"s"}, tabSchedule},
		{[]string{"i"}, tabIncome},
		{[]string{"u"}, tabSummary},
		{[]string{"u", "m"}, tabMortgage},
		{[]string{"left"}, tabSummary},
		{[]string{"u", "right"}, tabMortgage},
		{[]string{"right", "right"}, tabIncome},
	}
	for _, tt := range tests {
		a, _ := press(t, newTestApp(t), tt.keys...)
		if a.activeTab != tt.want {
			t.Errorf("keys %v: tab = %d, want %d", tt.keys, a.activeTab, tt.want)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := press(t, newTestApp(t), k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	a, _ := press(t, newTestApp(t), "?")
	if !a.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}
	a, _ = press(t, a, "s")
	if a.showHelp || a.activeTab != tabMortgage {
		t.Error("any key should only dismiss help")
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := newTestApp(t)
	x := 1
	for i := 0; i < tabIncome; i++ {
		x += components.TabVisualWidth(i, i == a.activeTab) + 2
	}
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft})
	if got := m.(App).activeTab; got != tabIncome {
		t.Errorf("click at x=%d selected tab %d, want %d", x, got, tabIncome)
	}
}

func TestMortgageValuesInputs(t *testing.T) {
	ptrEq := func(p *float64, want float64) bool { return p != nil && math.Abs(*p-want) < 1e-9 }

	t.Run("home price with percent", func(t *testing.T) {
		in, err := baseMortgage().inputs()
		if err != nil {
			t.Fatal(err)
		}
		if !ptrEq(in.HomePrice, 375000) || !ptrEq(in.DownPaymentPercent, 20) || in.DownPayment != nil {
			t.Errorf("unexpected inputs %+v", in)
		}
		p, err := in.Params()
		if err != nil {
			t.Fatal(err)
		}
		if p.Principal != 300000 {
			t.Errorf("principal = %v, want 300000", p.Principal)
		}
	})

	t.Run("home price with amount", func(t *testing.T) {
		v := baseMortgage()
		v.DownType = downAmount
		v.DownValue = "75,000"
		in, err := v.inputs()
		if err != nil {
			t.Fatal(err)
		}
		if !ptrEq(in.DownPayment, 75000) || in.DownPaymentPercent != nil {
			t.Errorf("unexpected inputs %+v", in)
		}
	})

	t.Run("loan amount", func(t *testing.T) {
		v := baseMortgage()
		v.Method = methodLoan
		v.LoanAmount = "250000"
		v.Frequency = "bi-weekly"
		in, err := v.inputs()
		if err != nil {
			t.Fatal(err)
		}
		if !ptrEq(in.LoanAmount, 250000) || in.HomePrice != nil || in.Frequency != amortization.BiWeekly {
			t.Errorf("unexpected inputs %+v", in)
		}
	})

	bad := []struct {
		name  string
		tweak func(*mortgageValues)
	}{
		{"rate", func(v *mortgageValues) { v.Rate = "abc" }},
		{"years", func(v *mortgageValues) { v.Years = "thirty" }},
		{"frequency", func(v *mortgageValues) { v.Frequency = "daily" }},
		{"start", func(v *mortgageValues) { v.Start = "01/31/2024" }},
		{"home price", func(v *mortgageValues) { v.HomePrice = "" }},
	}
	for _, tt := range bad {
		t.Run("invalid "+tt.name, func(t *testing.T) {
			v := baseMortgage()
			tt.tweak(&v)
			if _, err := v.inputs(); !errors.Is(err, amortization.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAddLoanBuildsSchedule(t *testing.T) {
	a := withLoan(t, newTestApp(t), baseMortgage())

	if len(a.book.Loans) != 1 {
		t.Fatalf("loans = %d, want 1", len(a.book.Loans))
	}
	r := a.book.Loans[0].Result
	if math.Abs(r.PaymentAmount-1520.06) > 0.005 {
		t.Errorf("payment = %.4f, want ~1520.06", r.PaymentAmount)
	}
	if a.sched.loanID != a.book.Loans[0].ID {
		t.Errorf("schedule table built for %d, want %d", a.sched.loanID, a.book.Loans[0].ID)
	}
	if got := len(a.sched.table.Rows()); got != 360 {
		t.Errorf("table rows = %d, want 360", got)
	}
	if !strings.Contains(a.status, "Added Thirty") {
		t.Errorf("status = %q", a.status)
	}
}

func TestAddLoanRejectsInvalid(t *testing.T) {
	v := baseMortgage()
	v.DownValue = "150" // down payment larger than the price
	v.DownType = downAmount
	v.HomePrice = "100"
	a, err := newTestApp(t).addLoan(v)
	if !errors.Is(err, amortization.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(a.book.Loans) != 0 {
		t.Error("invalid scenario must not be added")
	}
}

func TestDefaultScenarioNames(t *testing.T) {
	a := newTestApp(t)
	v := baseMortgage()
	v.Name = "  "
	a = withLoan(t, a, v)
	a = withLoan(t, a, v)
	got := a.book.LoanNames()
	if len(got) != 2 || got[0] != "Scenario 1" || got[1] != "Scenario 2" {
		t.Errorf("names = %v", got)
	}
}

func TestScheduleScenarioSelection(t *testing.T) {
	a := newTestApp(t)
	a = withLoan(t, a, baseMortgage())
	fifteen := baseMortgage()
	fifteen.Name = "Fifteen"
	fifteen.Years = "15"
	a = withLoan(t, a, fifteen)

	if a.sched.selected != 1 || len(a.sched.table.Rows()) != 180 {
		t.Fatalf("new scenario should be selected: selected=%d rows=%d",
			a.sched.selected, len(a.sched.table.Rows()))
	}

	a, _ = press(t, a, "s", "[")
	if a.sched.selected != 0 || len(a.sched.table.Rows()) != 360 {
		t.Errorf("[ should select the first scenario: selected=%d rows=%d",
			a.sched.selected, len(a.sched.table.Rows()))
	}
	a, _ = press(t, a, "[")
	if a.sched.selected != 1 {
		t.Errorf("[ should wrap to the last scenario, got %d", a.sched.selected)
	}
	a, _ = press(t, a, "]")
	if a.sched.selected != 0 {
		t.Errorf("] should wrap to the first scenario, got %d", a.sched.selected)
	}

	a, _ = press(t, a, "j", "j")
	if got := a.sched.table.Cursor(); got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}
}

func TestClearLoans(t *testing.T) {
	a := withLoan(t, newTestApp(t), baseMortgage())
	a, _ = press(t, a, "c")
	if len(a.book.Loans) != 0 {
		t.Fatal("c should clear loans")
	}
	if a.sched.loanID != 0 {
		t.Error("schedule table should reset")
	}
	if a.book.NextID() != 1 {
		t.Errorf("next id = %d, want 1", a.book.NextID())
	}
}

func TestExportSchedule(t *testing.T) {
	a := withLoan(t, newTestApp(t), baseMortgage())
	a, cmd := press(t, a, "s", "e")
	if cmd == nil {
		t.Fatal("e should return an export command")
	}

	raw := cmd()
	msg, ok := raw.(exportedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", raw)
	}
	if msg.Err != nil {
		t.Fatal(msg.Err)
	}
	if msg.Rows != 360 || !strings.HasSuffix(msg.Path, export.FileName("Thirty")) {
		t.Errorf("msg = %+v", msg)
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), strings.Join(export.ScheduleHeader, ",")) {
		t.Errorf("unexpected CSV header: %.80q", data)
	}

	m, _ := a.Update(msg)
	if got := m.(App).status; !strings.Contains(got, "Exported 360 payments") {
		t.Errorf("status = %q", got)
	}
}

func TestExportWithoutScenarios(t *testing.T) {
	a, cmd := press(t, newTestApp(t), "s", "e")
	if cmd != nil {
		t.Error("no export without scenarios")
	}
	if !a.statusErr {
		t.Error("expected an error status")
	}
}

func TestAddStream(t *testing.T) {
	a := newTestApp(t)
	v := *newIncomeValues(a.cfg)

	a, err := a.addStream(v)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.book.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(a.book.Streams))
	}
	p := a.book.Streams[0].Projection
	if len(p.Entries) != 120 || p.Start != "2024-01" {
		t.Errorf("entries=%d start=%s", len(p.Entries), p.Start)
	}

	totals, labels := yearlyTotals(p)
	if len(totals) != 10 || labels[0] != "2024" || labels[9] != "2033" {
		t.Fatalf("totals=%v labels=%v", totals, labels)
	}
	if math.Abs(totals[0]-60000) > 1e-6 || math.Abs(totals[1]-61800) > 1e-6 {
		t.Errorf("yearly totals = %v", totals[:2])
	}
}

func TestAddStreamUnimplementedGrowth(t *testing.T) {
	for _, kind := range []string{"inflation", "manual"} {
		a := newTestApp(t)
		v := *newIncomeValues(a.cfg)
		v.Growth = kind
		a, err := a.addStream(v)
		if !errors.Is(err, income.ErrGrowthNotImplemented) {
			t.Errorf("%s: err = %v, want ErrGrowthNotImplemented", kind, err)
		}
		if len(a.book.Streams) != 0 {
			t.Errorf("%s: stream should not be added", kind)
		}
	}
}

func TestFormOpenAndCancel(t *testing.T) {
	a, _ := press(t, newTestApp(t), "n")
	if a.form == nil || a.formKind != formMortgage {
		t.Fatal("n on the Mortgage tab should open the mortgage form")
	}
	if a.mortgageVals.Name != "Scenario 1" {
		t.Errorf("default name = %q", a.mortgageVals.Name)
	}

	// Tab keys go to the form while it is open.
	a, _ = press(t, a, "s")
	if a.activeTab != tabMortgage {
		t.Error("form should capture keys")
	}

	a, _ = press(t, a, "esc")
	if a.form != nil || a.status != "Cancelled" {
		t.Errorf("esc should close the form, status %q", a.status)
	}

	a, _ = press(t, a, "i", "n")
	if a.formKind != formIncome {
		t.Error("n on the Income tab should open the income form")
	}

	b, _ := press(t, newTestApp(t), "s", "n")
	if b.form != nil {
		t.Error("n on the Schedule tab should do nothing")
	}
}

func TestViewFillsTerminal(t *testing.T) {
	a := withLoan(t, newTestApp(t), baseMortgage())
	a, err := a.addStream(*newIncomeValues(a.cfg))
	if err != nil {
		t.Fatal(err)
	}

	for tab := range components.Tabs {
		a.activeTab = tab
		view := a.View()
		if h := lipgloss.Height(view); h != a.height {
			t.Errorf("tab %d: height %d, want %d", tab, h, a.height)
		}
		if !strings.Contains(view, "ortgage") {
			t.Errorf("tab %d: tab bar missing", tab)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a.width = 60
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Error("expected narrow terminal notice")
	}
}
