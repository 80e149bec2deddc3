package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/income"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// loanRequest is the JSON body for amortization and scenario endpoints.
type loanRequest struct {
	Name               string                 `json:"name,omitempty"`
	LoanAmount         *float64               `json:"loan_amount,omitempty"`
	HomePrice          *float64               `json:"home_price,omitempty"`
	DownPayment        *float64               `json:"down_payment,omitempty"`
	DownPaymentPercent *float64               `json:"down_payment_percent,omitempty"`
	AnnualRatePercent  float64                `json:"annual_rate_percent"`
	TermYears          int                    `json:"term_years"`
	Frequency          amortization.Frequency `json:"frequency,omitempty"`
	StartDate          string                 `json:"start_date,omitempty"`
}

func (req loanRequest) params() (amortization.Params, error) {
	in := amortization.Inputs{
		LoanAmount:         req.LoanAmount,
		HomePrice:          req.HomePrice,
		DownPayment:        req.DownPayment,
		DownPaymentPercent: req.DownPaymentPercent,
		AnnualRatePercent:  req.AnnualRatePercent,
		TermYears:          req.TermYears,
		Frequency:          req.Frequency,
	}
	if req.StartDate != "" {
		d, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return amortization.Params{}, fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", errBadRequest, req.StartDate)
		}
		in.StartDate = d
	}
	return in.Params()
}

// incomeRequest is the JSON body for income endpoints.
type incomeRequest struct {
	Name              string            `json:"name,omitempty"`
	MonthlyIncome     float64           `json:"monthly_income"`
	GrowthKind        income.GrowthKind `json:"growth_kind,omitempty"`
	GrowthRatePercent float64           `json:"growth_rate_percent"`
	Years             int               `json:"years"`
	StartMonth        string            `json:"start_month,omitempty"`
}

func (req incomeRequest) project() (income.Projection, error) {
	start := time.Now()
	if req.StartMonth != "" {
		m, err := time.Parse(income.MonthLayout, req.StartMonth)
		if err != nil {
			return income.Projection{}, fmt.Errorf("%w: start_month %q is not YYYY-MM", errBadRequest, req.StartMonth)
		}
		start = m
	}
	g := income.Growth{Kind: req.GrowthKind, RatePercent: req.GrowthRatePercent}
	return income.Project(start, req.MonthlyIncome, g, req.Years)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
