package income

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestProject_FixedGrowthSteps(t *testing.T) {
	start := time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)
	p, err := Project(start, 5000, Fixed(3), 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Entries) != 120 {
		t.Fatalf("len(Entries) = %d, want 120", len(p.Entries))
	}
	for m := 0; m < 12; m++ {
		if p.Entries[m].Income != 5000 {
			t.Fatalf("month %d income = %v, want 5000", m, p.Entries[m].Income)
		}
	}
	for m := 12; m < 24; m++ {
		if math.Abs(p.Entries[m].Income-5150) > 1e-9 {
			t.Fatalf("month %d income = %v, want 5150", m, p.Entries[m].Income)
		}
	}
	if got, want := p.Entries[119].Income, 5000*math.Pow(1.03, 9); math.Abs(got-want) > 1e-9 {
		t.Errorf("month 119 income = %v, want %v", got, want)
	}
}

func TestProject_MonthLabels(t *testing.T) {
	start := time.Date(2024, time.November, 30, 15, 4, 5, 0, time.UTC)
	p, err := Project(start, 1000, Fixed(0), 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}
	for i, w := range want {
		if p.Entries[i].Month != w {
			t.Errorf("label %d = %s, want %s", i, p.Entries[i].Month, w)
		}
	}
	if p.Entries[11].Month != "2025-10" {
		t.Errorf("last label = %s, want 2025-10", p.Entries[11].Month)
	}
	if p.Start != "2024-11" {
		t.Errorf("Start = %s, want 2024-11", p.Start)
	}
}

func TestProject_NonDecreasing(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 3, 10} {
		p, err := Project(time.Now(), 4200, Fixed(rate), 7)
		if err != nil {
			t.Fatal(err)
		}
		prev := -1.0
		for month, v := range p.All() {
			if v < prev {
				t.Fatalf("rate %v: income dropped at %s (%v < %v)", rate, month, v, prev)
			}
			prev = v
		}
	}
}

func TestProject_AllStopsEarly(t *testing.T) {
	p, err := Project(time.Now(), 100, Fixed(1), 2)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for range p.All() {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("iterated %d entries, want 5", n)
	}
}

func TestProject_Total(t *testing.T) {
	p, err := Project(time.Now(), 1000, Fixed(10), 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.Total(), 12*1000.0+12*1100.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("Total = %v, want %v", got, want)
	}
}

func TestProject_InvalidInput(t *testing.T) {
	now := time.Now()
	if _, err := Project(now, 5000, Fixed(3), 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero years: err = %v, want ErrInvalidInput", err)
	}
	if _, err := Project(now, -1, Fixed(3), 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative income: err = %v, want ErrInvalidInput", err)
	}
	if _, err := Project(now, math.NaN(), Fixed(3), 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NaN income: err = %v, want ErrInvalidInput", err)
	}
}

func TestProject_HorizonBounds(t *testing.T) {
	now := time.Now()
	p, err := Project(now, 5000, Fixed(3), MaxYears)
	if err != nil {
		t.Fatalf("MaxYears: %v", err)
	}
	if len(p.Entries) != MaxYears*12 {
		t.Errorf("len(Entries) = %d, want %d", len(p.Entries), MaxYears*12)
	}

	for _, years := range []int{MaxYears + 1, 1 << 62} {
		p, err := Project(now, 5000, Fixed(3), years)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("years=%d: err = %v, want ErrInvalidInput", years, err)
		}
		if p.Entries != nil {
			t.Errorf("years=%d: got %d entries on error", years, len(p.Entries))
		}
	}
}

func TestProject_OverflowingGrowth(t *testing.T) {
	_, err := Project(time.Now(), 5000, Fixed(1e6), MaxYears)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProject_ZeroIncome(t *testing.T) {
	p, err := Project(time.Now(), 0, Fixed(5), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Total() != 0 {
		t.Errorf("Total = %v, want 0", p.Total())
	}
}

func TestGrowth_UnimplementedKinds(t *testing.T) {
	for _, g := range []Growth{Inflation(DefaultInflationPercent), Manual([]float64{3, 2, 1})} {
		if _, err := g.Apply(1); !errors.Is(err, ErrGrowthNotImplemented) {
			t.Errorf("%s Apply err = %v, want ErrGrowthNotImplemented", g.Kind, err)
		}
		if _, err := Project(time.Now(), 1000, g, 1); !errors.Is(err, ErrGrowthNotImplemented) {
			t.Errorf("%s Project err = %v, want ErrGrowthNotImplemented", g.Kind, err)
		}
	}
}

func TestGrowth_FixedApply(t *testing.T) {
	g := Fixed(3)
	cases := map[int]float64{0: 1, 1: 1.03, 2: 1.0609}
	for year, want := range cases {
		got, err := g.Apply(year)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Apply(%d) = %v, want %v", year, got, want)
		}
	}
	if _, err := g.Apply(-1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Apply(-1) err = %v, want ErrInvalidInput", err)
	}
}

func TestParseGrowthKind(t *testing.T) {
	tests := []struct {
		in      string
		want    GrowthKind
		wantErr bool
	}{
		{"fixed", FixedAnnual, false},
		{" Inflation ", InflationAdjusted, false},
		{"manual", ManualPerYear, false},
		{"Fixed Annual Growth %", FixedAnnual, false},
		{"Manual per Year", ManualPerYear, false},
		{"compound", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseGrowthKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseGrowthKind(%q) err = %v, want ErrInvalidInput", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseGrowthKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestGrowthKind_TextRoundTrip(t *testing.T) {
	for _, k := range GrowthKinds {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", k, err)
		}
		var got GrowthKind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Errorf("round trip %v -> %q -> %v (%v)", k, b, got, err)
		}
	}
}

func TestProjection_YearTotals(t *testing.T) {
	start := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	p, err := Project(start, 5000, Fixed(3), 2)
	if err != nil {
		t.Fatal(err)
	}
	got := p.YearTotals()
	want := []YearTotal{
		{Year: 1, From: "2024-11", To: "2025-10", Monthly: 5000, Total: 60000},
		{Year: 2, From: "2025-11", To: "2026-10", Monthly: 5150, Total: 61800},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Year != w.Year || g.From != w.From || g.To != w.To {
			t.Errorf("block %d = %d %s..%s, want %d %s..%s", i, g.Year, g.From, g.To, w.Year, w.From, w.To)
		}
		if math.Abs(g.Monthly-w.Monthly) > 1e-9 || math.Abs(g.Total-w.Total) > 1e-6 {
			t.Errorf("block %d monthly %v total %v, want %v %v", i, g.Monthly, g.Total, w.Monthly, w.Total)
		}
	}
}
