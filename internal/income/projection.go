package income

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

// ErrInvalidInput is returned when projection parameters violate a precondition.
var ErrInvalidInput = errors.New("invalid input")

// MaxYears is the longest horizon Project accepts.
const MaxYears = 100

// MonthLayout formats projection month labels.
const MonthLayout = "2006-01"

// Entry is one projected month.
type Entry struct {
	Month  string  `json:"month"`
	Income float64 `json:"income"`
}

// Projection is the month-by-month income sequence.
type Projection struct {
	MonthlyIncome float64 `json:"monthly_income"`
	Growth        Growth  `json:"growth"`
	Years         int     `json:"years"`
	Start         string  `json:"start"`
	Entries       []Entry `json:"entries"`
}

// All yields the entries in month order.
func (p Projection) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for _, e := range p.Entries {
			if !yield(e.Month, e.Income) {
				return
			}
		}
	}
}

// Total returns the income summed over the whole horizon.
func (p Projection) Total() float64 {
	var sum float64
	for _, e := range p.Entries {
		sum += e.Income
	}
	return sum
}

// Values returns the income series without labels, for charts.
func (p Projection) Values() []float64 {
	out := make([]float64, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Income
	}
	return out
}

// YearTotal sums one 12-month block of a projection. From and To are the
// first and last month labels, which only match calendar years when the
// projection starts in January.
type YearTotal struct {
	Year    int
	From    string
	To      string
	Monthly float64
	Total   float64
}

// YearTotals groups the entries into consecutive 12-month blocks.
func (p Projection) YearTotals() []YearTotal {
	var out []YearTotal
	for i, e := range p.Entries {
		if i%12 == 0 {
			out = append(out, YearTotal{Year: i/12 + 1, From: e.Month, Monthly: e.Income})
		}
		y := &out[len(out)-1]
		y.To = e.Month
		y.Total += e.Income
	}
	return out
}

// Project computes monthly income for years×12 months starting at the
// calendar month containing start.
func Project(start time.Time, monthly float64, g Growth, years int) (Projection, error) {
	if years < 1 || years > MaxYears {
		return Projection{}, fmt.Errorf("%w: years must be between 1 and %d, got %d", ErrInvalidInput, MaxYears, years)
	}
	if math.IsNaN(monthly) || math.IsInf(monthly, 0) || monthly < 0 {
		return Projection{}, fmt.Errorf("%w: monthly income must be >= 0, got %v", ErrInvalidInput, monthly)
	}

	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	entries := make([]Entry, 0, years*12)

	for year := 0; year < years; year++ {
		mult, err := g.Apply(year)
		if err != nil {
			return Projection{}, err
		}
		v := monthly * mult
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Projection{}, fmt.Errorf("%w: income overflows in year %d", ErrInvalidInput, year+1)
		}
		for m := 0; m < 12; m++ {
			month := first.AddDate(0, year*12+m, 0)
			entries = append(entries, Entry{Month: month.Format(MonthLayout), Income: v})
		}
	}

	return Projection{
		MonthlyIncome: monthly,
		Growth:        g,
		Years:         years,
		Start:         first.Format(MonthLayout),
		Entries:       entries,
	}, nil
}

// ProjectFromNow projects a fixed annual growth rate starting this month.
// Callers that need deterministic labels should use Project.
func ProjectFromNow(monthly, ratePercent float64, years int) (Projection, error) {
	return Project(time.Now(), monthly, Fixed(ratePercent), years)
}
