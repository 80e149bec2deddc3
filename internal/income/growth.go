// Package income projects monthly income over a multi-year horizon.
package income

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrGrowthNotImplemented is returned by growth kinds that are accepted by
// the dashboard but have no projection model yet.
var ErrGrowthNotImplemented = errors.New("growth strategy not implemented")

// GrowthKind tags the variant held by a Growth.
type GrowthKind int

// Growth strategies offered by the income form.
const (
	FixedAnnual GrowthKind = iota
	InflationAdjusted
	ManualPerYear
)

// String returns the label shown in forms.
func (k GrowthKind) String() string {
	switch k {
	case FixedAnnual:
		return "Fixed Annual Growth %"
	case InflationAdjusted:
		return "Inflation-Adjusted (2%)"
	case ManualPerYear:
		return "Manual per Year"
	default:
		return fmt.Sprintf("GrowthKind(%d)", int(k))
	}
}

// GrowthKinds lists every strategy in form order.
var GrowthKinds = []GrowthKind{FixedAnnual, InflationAdjusted, ManualPerYear}

// ParseGrowthKind accepts a short name (fixed, inflation, manual) or a form label.
func ParseGrowthKind(s string) (GrowthKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "fixed", "fixed-annual":
		return FixedAnnual, nil
	case "inflation", "inflation-adjusted":
		return InflationAdjusted, nil
	case "manual", "manual-per-year":
		return ManualPerYear, nil
	}
	for _, k := range GrowthKinds {
		if v == strings.ToLower(k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown growth type %q", ErrInvalidInput, s)
}

// Slug returns the short name accepted by ParseGrowthKind.
func (k GrowthKind) Slug() string {
	switch k {
	case FixedAnnual:
		return "fixed"
	case InflationAdjusted:
		return "inflation"
	case ManualPerYear:
		return "manual"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (k GrowthKind) MarshalText() ([]byte, error) {
	if k.Slug() == "" {
		return nil, fmt.Errorf("%w: unknown growth kind %d", ErrInvalidInput, int(k))
	}
	return []byte(k.Slug()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *GrowthKind) UnmarshalText(b []byte) error {
	parsed, err := ParseGrowthKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DefaultInflationPercent is the rate the inflation-adjusted option advertises.
const DefaultInflationPercent = 2.0

// Growth describes how income changes from one year to the next.
type Growth struct {
	Kind GrowthKind `json:"kind"`

	// RatePercent is the annual rate for FixedAnnual and InflationAdjusted.
	RatePercent float64 `json:"rate_percent,omitempty"`

	// YearlyPercent holds one rate per year for ManualPerYear.
	YearlyPercent []float64 `json:"yearly_percent,omitempty"`
}

// Fixed returns a FixedAnnual growth at ratePercent per year.
func Fixed(ratePercent float64) Growth {
	return Growth{Kind: FixedAnnual, RatePercent: ratePercent}
}

// Inflation returns an InflationAdjusted growth.
func Inflation(ratePercent float64) Growth {
	return Growth{Kind: InflationAdjusted, RatePercent: ratePercent}
}

// Manual returns a ManualPerYear growth with one rate per year.
func Manual(yearlyPercent []float64) Growth {
	return Growth{Kind: ManualPerYear, YearlyPercent: append([]float64(nil), yearlyPercent...)}
}

// Apply returns the income multiplier for the given elapsed full year.
// Growth is a step function: every month within a year shares one multiplier.
func (g Growth) Apply(year int) (float64, error) {
	if year < 0 {
		return 0, fmt.Errorf("%w: negative year %d", ErrInvalidInput, year)
	}
	switch g.Kind {
	case FixedAnnual:
		return math.Pow(1+g.RatePercent/100, float64(year)), nil
	case InflationAdjusted, ManualPerYear:
		// TODO: model CPI-indexed and user-entered yearly raises once the
		// dashboard collects those inputs.
		return 0, fmt.Errorf("%w: %s", ErrGrowthNotImplemented, g.Kind)
	default:
		return 0, fmt.Errorf("%w: unknown growth kind %d", ErrInvalidInput, int(g.Kind))
	}
}
