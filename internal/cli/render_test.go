package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_Layout(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Schedule",
		Headers: []string{"#", "Payment"},
		Rows: [][]string{
			{"1", "$1,520.06"},
			{"---"},
			{"TOTAL", "$547,220.13"},
		},
	})

	plain := stripANSI(out)
	for _, want := range []string{"Schedule", "Payment", "$1,520.06", "TOTAL", "╭", "╯", "├"} {
		if !strings.Contains(plain, want) {
			t.Errorf("table missing %q:\n%s", want, plain)
		}
	}

	lines := strings.Split(strings.TrimRight(plain, "\n"), "\n")
	// title, top border, header, header separator, row, separator, total, bottom border
	if len(lines) != 8 {
		t.Errorf("table has %d lines, want 8:\n%s", len(lines), plain)
	}
	width := lipgloss.Width(lines[1])
	for i, l := range lines[1:] {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width = %d, want %d", i+1, w, width)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{5000, 5000, 5150, 5304.5})
	if runes := []rune(got); len(runes) != 4 || runes[0] != '▁' || runes[3] != '█' {
		t.Errorf("RenderSparkline = %q, want 4 blocks rising from ▁ to █", got)
	}

	flat := []rune(RenderSparkline([]float64{3, 3, 3}))
	for _, r := range flat {
		if r != flat[0] {
			t.Errorf("flat series rendered unevenly: %q", string(flat))
		}
	}
}

func TestRenderSplitBar(t *testing.T) {
	plain := stripANSI(RenderSplitBar(300000, 100000, 20))
	if strings.Count(plain, "█") != 20 {
		t.Errorf("split bar has %d blocks, want 20: %q", strings.Count(plain, "█"), plain)
	}
	if !strings.Contains(plain, "75.0% principal") {
		t.Errorf("split bar missing principal share: %q", plain)
	}
	if RenderSplitBar(0, 0, 20) != "" {
		t.Error("zero total should render nothing")
	}
}

// stripANSI removes CSI escape sequences so assertions see plain text.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 0x1b:
			inEsc = true
		case inEsc && (c >= '@' && c <= '~') && c != '[':
			inEsc = false
		case !inEsc:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func TestRenderHorizontalBar(t *testing.T) {
	got := RenderHorizontalBar("2024", 50, 100, 10)
	if !strings.HasPrefix(got, "  2024 ") {
		t.Errorf("RenderHorizontalBar = %q, want label prefix", got)
	}
	if n := strings.Count(got, "█"); n != 5 {
		t.Errorf("bar blocks = %d, want 5", n)
	}
	if got := RenderHorizontalBar("x", 10, 0, 10); got != "  x" {
		t.Errorf("zero max = %q, want label only", got)
	}
}
