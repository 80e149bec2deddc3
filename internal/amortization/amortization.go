// Package amortization computes fixed-rate loan payment schedules.
package amortization

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput is returned when loan parameters violate a precondition.
var ErrInvalidInput = errors.New("invalid input")

// Frequency is how often a payment is made.
type Frequency int

// Supported payment frequencies.
const (
	Monthly Frequency = iota + 1
	BiWeekly
	Weekly
)

// MaxTermYears is the longest loan term Compute accepts.
const MaxTermYears = 100

// Frequencies lists the supported frequencies in display order.
var Frequencies = []Frequency{Monthly, BiWeekly, Weekly}

// PeriodsPerYear returns the number of payments per year, or 0 for an
// unknown frequency.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case Monthly:
		return 12
	case BiWeekly:
		return 26
	case Weekly:
		return 52
	default:
		return 0
	}
}

// String returns the display name used by forms and exports.
func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "Monthly"
	case BiWeekly:
		return "Bi-weekly"
	case Weekly:
		return "Weekly"
	default:
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
}

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	return f.PeriodsPerYear() > 0
}

// ParseFrequency maps a display name to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return Monthly, nil
	case "bi-weekly", "biweekly":
		return BiWeekly, nil
	case "weekly":
		return Weekly, nil
	}
	return 0, fmt.Errorf("%w: unknown payment frequency %q", ErrInvalidInput, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: unknown payment frequency %d", ErrInvalidInput, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(b []byte) error {
	parsed, err := ParseFrequency(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Params are the inputs of a loan calculation.
// HomePrice and DownPayment are bookkeeping only and never affect the schedule.
type Params struct {
	Principal         float64   `json:"principal"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TermYears         int       `json:"term_years"`
	Frequency         Frequency `json:"frequency"`
	StartDate         time.Time `json:"start_date"`
	HomePrice         *float64  `json:"home_price,omitempty"`
	DownPayment       *float64  `json:"down_payment,omitempty"`
}

// Payment is one row of the amortization schedule.
type Payment struct {
	Number    int       `json:"number"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
}

// Result is the output of Compute.
//
// PaymentAmount is the nominal periodic payment. The final schedule row may
// differ from it by the rounding correction that lands the balance on zero.
type Result struct {
	Params             Params    `json:"params"`
	PaymentAmount      float64   `json:"payment_amount"`
	TotalPayments      float64   `json:"total_payments"`
	TotalInterest      float64   `json:"total_interest"`
	DownPaymentPercent *float64  `json:"down_payment_percent,omitempty"`
	Schedule           []Payment `json:"schedule"`
}

// TotalPeriods returns the number of scheduled payments.
func (p Params) TotalPeriods() int {
	return p.TermYears * p.Frequency.PeriodsPerYear()
}

// PeriodicRate returns the interest rate applied per payment period.
func (p Params) PeriodicRate() float64 {
	return p.AnnualRatePercent / 100 / float64(p.Frequency.PeriodsPerYear())
}

// Validate checks the preconditions of Compute.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.Principal) || math.IsInf(p.Principal, 0) || p.Principal <= 0:
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidInput, p.Principal)
	case math.IsNaN(p.AnnualRatePercent) || math.IsInf(p.AnnualRatePercent, 0) || p.AnnualRatePercent < 0:
		return fmt.Errorf("%w: annual rate must be >= 0, got %v", ErrInvalidInput, p.AnnualRatePercent)
	case p.TermYears < 1 || p.TermYears > MaxTermYears:
		return fmt.Errorf("%w: term must be between 1 and %d years, got %d", ErrInvalidInput, MaxTermYears, p.TermYears)
	case !p.Frequency.Valid():
		return fmt.Errorf("%w: unknown payment frequency %d", ErrInvalidInput, int(p.Frequency))
	}
	return nil
}

// PeriodicPayment returns the constant payment that retires principal over n
// periods at rate r.
func PeriodicPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	// P*r / (1 - (1+r)^-n), which stays finite as (1+r)^n overflows.
	return principal * r / -math.Expm1(-float64(n)*math.Log1p(r))
}

// Compute derives the periodic payment and the full payment schedule.
func Compute(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	n := p.TotalPeriods()
	r := p.PeriodicRate()
	payment := PeriodicPayment(p.Principal, r, n)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return Result{}, fmt.Errorf("%w: payment is not finite at %v%% over %d periods", ErrInvalidInput, p.AnnualRatePercent, n)
	}

	schedule := make([]Payment, 0, n)
	balance := p.Principal
	var total float64

	for period := 1; period <= n; period++ {
		interest := balance * r
		amount := payment
		principal := amount - interest
		remaining := balance - principal

		// The last period (or any overshoot) retires exactly what is left.
		if remaining < 0 || period == n {
			principal = balance
			amount = principal + interest
			remaining = 0
		}

		schedule = append(schedule, Payment{
			Number:    period,
			Date:      PaymentDate(p.StartDate, p.Frequency, period),
			Amount:    amount,
			Principal: principal,
			Interest:  interest,
			Balance:   remaining,
		})
		total += amount
		balance = remaining
	}
	if math.IsInf(total, 0) {
		return Result{}, fmt.Errorf("%w: total payments overflow at %v%%", ErrInvalidInput, p.AnnualRatePercent)
	}

	return Result{
		Params:             p,
		PaymentAmount:      payment,
		TotalPayments:      total,
		TotalInterest:      total - p.Principal,
		DownPaymentPercent: DownPaymentPercent(p.HomePrice, p.DownPayment),
		Schedule:           schedule,
	}, nil
}

// DownPaymentPercent returns down/home*100, or nil when either value is
// missing or the home price is not positive.
func DownPaymentPercent(homePrice, downPayment *float64) *float64 {
	if homePrice == nil || downPayment == nil || *homePrice <= 0 {
		return nil
	}
	pct := *downPayment / *homePrice * 100
	return &pct
}

// DownPaymentFromPercent converts a down payment percentage into an amount.
func DownPaymentFromPercent(homePrice, pct float64) (float64, error) {
	if homePrice <= 0 || pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%w: down payment %.2f%% of %.2f", ErrInvalidInput, pct, homePrice)
	}
	return homePrice * pct / 100, nil
}

// LoanFromHome returns the amount borrowed when buying at homePrice with the
// given down payment.
func LoanFromHome(homePrice, downPayment float64) (float64, error) {
	if homePrice <= 0 {
		return 0, fmt.Errorf("%w: home price must be positive, got %v", ErrInvalidInput, homePrice)
	}
	if downPayment < 0 || downPayment > homePrice {
		return 0, fmt.Errorf("%w: down payment %.2f outside [0, %.2f]", ErrInvalidInput, downPayment, homePrice)
	}
	return homePrice - downPayment, nil
}
