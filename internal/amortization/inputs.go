package amortization

import (
	"fmt"
	"time"
)

// Inputs are loan terms as a form or request collects them. The loan is
// either given directly as LoanAmount, or derived from HomePrice less a
// down payment expressed as an amount or a percentage of the price.
type Inputs struct {
	LoanAmount         *float64
	HomePrice          *float64
	DownPayment        *float64
	DownPaymentPercent *float64
	AnnualRatePercent  float64
	TermYears          int
	Frequency          Frequency
	StartDate          time.Time
}

// Params resolves the inputs. A zero Frequency means Monthly and a zero
// StartDate means today.
func (in Inputs) Params() (Params, error) {
	p := Params{
		AnnualRatePercent: in.AnnualRatePercent,
		TermYears:         in.TermYears,
		Frequency:         in.Frequency,
		StartDate:         in.StartDate,
	}
	if p.Frequency == 0 {
		p.Frequency = Monthly
	}
	if p.StartDate.IsZero() {
		y, m, d := time.Now().Date()
		p.StartDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	down := in.DownPayment
	if down == nil && in.DownPaymentPercent != nil && in.HomePrice != nil {
		amt, err := DownPaymentFromPercent(*in.HomePrice, *in.DownPaymentPercent)
		if err != nil {
			return Params{}, err
		}
		down = &amt
	}

	switch {
	case in.LoanAmount != nil:
		p.Principal = *in.LoanAmount
	case in.HomePrice != nil:
		if down == nil {
			return Params{}, fmt.Errorf("%w: down payment amount or percentage required with a home price", ErrInvalidInput)
		}
		principal, err := LoanFromHome(*in.HomePrice, *down)
		if err != nil {
			return Params{}, err
		}
		p.Principal = principal
	default:
		return Params{}, fmt.Errorf("%w: loan amount or home price required", ErrInvalidInput)
	}

	p.HomePrice = in.HomePrice
	p.DownPayment = down
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
