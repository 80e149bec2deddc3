package scenario

import (
	"fmt"

	"github.com/theirongolddev/homeloan/internal/cli"
)

// NotAvailable is shown for optional values that were not provided.
const NotAvailable = "N/A"

// ComparisonHeaders are the columns of Comparison rows.
var ComparisonHeaders = []string{
	"Scenario", "Loan Amount", "Interest Rate", "Term (Years)", "Payment Frequency",
	"Payment Amount", "Total Payments", "Total Interest", "Down Payment", "Down Payment %",
}

// ComparisonRow is one formatted line of the side-by-side comparison.
type ComparisonRow struct {
	ID                 int    `json:"id"`
	Scenario           string `json:"scenario"`
	LoanAmount         string `json:"loan_amount"`
	InterestRate       string `json:"interest_rate"`
	TermYears          int    `json:"term_years"`
	Frequency          string `json:"payment_frequency"`
	PaymentAmount      string `json:"payment_amount"`
	TotalPayments      string `json:"total_payments"`
	TotalInterest      string `json:"total_interest"`
	DownPayment        string `json:"down_payment"`
	DownPaymentPercent string `json:"down_payment_percent"`
}

// Cells returns the row in ComparisonHeaders order.
func (r ComparisonRow) Cells() []string {
	return []string{
		r.Scenario, r.LoanAmount, r.InterestRate, fmt.Sprintf("%d", r.TermYears), r.Frequency,
		r.PaymentAmount, r.TotalPayments, r.TotalInterest, r.DownPayment, r.DownPaymentPercent,
	}
}

// Comparison formats every loan for side-by-side display.
func (b Book) Comparison() []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(b.Loans))
	for _, l := range b.Loans {
		r := l.Result
		row := ComparisonRow{
			ID:                 l.ID,
			Scenario:           l.Name,
			LoanAmount:         cli.FormatCurrency(r.Params.Principal),
			InterestRate:       fmt.Sprintf("%g%%", r.Params.AnnualRatePercent),
			TermYears:          r.Params.TermYears,
			Frequency:          r.Params.Frequency.String(),
			PaymentAmount:      cli.FormatCurrency(r.PaymentAmount),
			TotalPayments:      cli.FormatCurrency(r.TotalPayments),
			TotalInterest:      cli.FormatCurrency(r.TotalInterest),
			DownPayment:        NotAvailable,
			DownPaymentPercent: NotAvailable,
		}
		if r.Params.DownPayment != nil {
			row.DownPayment = cli.FormatCurrency(*r.Params.DownPayment)
		}
		if r.DownPaymentPercent != nil {
			row.DownPaymentPercent = fmt.Sprintf("%.1f%%", *r.DownPaymentPercent)
		}
		rows = append(rows, row)
	}
	return rows
}
