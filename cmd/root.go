// Package cmd implements the homeloan CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/config"
)

var (
	flagPrincipal   float64
	flagHomePrice   float64
	flagDownPayment float64
	flagDownPercent float64
	flagRate        float64
	flagYears       int
	flagFrequency   string
	flagStart       string
	flagName        string
)

var rootCmd = &cobra.Command{
	Use:   "homeloan",
	Short: "Mortgage amortization and income projection",
	Long:  "Compute loan amortization schedules, compare scenarios and project income growth.",
	RunE:  runCalc,
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Summarize a single loan",
	RunE:  runCalc,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addLoanFlags(rootCmd)
	addLoanFlags(calcCmd)
	rootCmd.AddCommand(calcCmd)
}

// addLoanFlags registers the loan input flags. Unset flags fall back to
// the [loan] section of the config file.
func addLoanFlags(c *cobra.Command) {
	f := c.Flags()
	f.Float64VarP(&flagPrincipal, "principal", "p", 0, "Loan amount (overrides home price and down payment)")
	f.Float64Var(&flagHomePrice, "home-price", 0, "Home price")
	f.Float64Var(&flagDownPayment, "down-payment", 0, "Down payment amount")
	f.Float64Var(&flagDownPercent, "down-percent", 0, "Down payment as a percentage of the home price")
	f.Float64VarP(&flagRate, "rate", "r", 0, "Annual interest rate in percent")
	f.IntVarP(&flagYears, "years", "y", 0, "Loan term in years")
	f.StringVarP(&flagFrequency, "frequency", "f", "", "Payment frequency: monthly, bi-weekly or weekly")
	f.StringVar(&flagStart, "start", "", "First payment date (YYYY-MM-DD, default today)")
	f.StringVarP(&flagName, "name", "n", "Scenario 1", "Scenario name")
}

// loanInputs merges the command's flags over the configured defaults.
func loanInputs(c *cobra.Command, cfg config.LoanConfig) (amortization.Inputs, error) {
	changed := c.Flags().Changed
	in := amortization.Inputs{
		AnnualRatePercent: cfg.AnnualRatePercent,
		TermYears:         cfg.TermYears,
	}

	if changed("rate") {
		in.AnnualRatePercent = flagRate
	}
	if changed("years") {
		in.TermYears = flagYears
	}

	freq := cfg.Frequency
	if changed("frequency") {
		freq = flagFrequency
	}
	f, err := amortization.ParseFrequency(freq)
	if err != nil {
		return in, err
	}
	in.Frequency = f

	if changed("start") {
		start, err := time.Parse(time.DateOnly, strings.TrimSpace(flagStart))
		if err != nil {
			return in, fmt.Errorf("%w: --start must be YYYY-MM-DD", amortization.ErrInvalidInput)
		}
		in.StartDate = start
	}

	if changed("principal") {
		amt := flagPrincipal
		in.LoanAmount = &amt
		return in, nil
	}

	price := cfg.HomePrice
	if changed("home-price") {
		price = flagHomePrice
	}
	in.HomePrice = &price

	switch {
	case changed("down-payment"):
		amt := flagDownPayment
		in.DownPayment = &amt
	case changed("down-percent"):
		pct := flagDownPercent
		in.DownPaymentPercent = &pct
	default:
		pct := cfg.DownPaymentPercent
		in.DownPaymentPercent = &pct
	}
	return in, nil
}

// computeLoan resolves flags and config into a computed schedule.
func computeLoan(c *cobra.Command) (amortization.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return amortization.Result{}, err
	}
	in, err := loanInputs(c, cfg.Loan)
	if err != nil {
		return amortization.Result{}, err
	}
	p, err := in.Params()
	if err != nil {
		return amortization.Result{}, err
	}
	r, err := amortization.Compute(p)
	if err != nil {
		return amortization.Result{}, fmt.Errorf("computing schedule: %w", err)
	}
	return r, nil
}

func runCalc(c *cobra.Command, _ []string) error {
	r, err := computeLoan(c)
	if err != nil {
		return err
	}
	p := r.Params

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MORTGAGE  %s", flagName)))
	fmt.Println()

	rows := [][]string{}
	if p.HomePrice != nil {
		rows = append(rows, []string{"Home Price", cli.FormatCurrency(*p.HomePrice)})
	}
	if p.DownPayment != nil {
		down := cli.FormatCurrency(*p.DownPayment)
		if r.DownPaymentPercent != nil {
			down += fmt.Sprintf("  (%s)", cli.FormatPercent(*r.DownPaymentPercent))
		}
		rows = append(rows, []string{"Down Payment", down})
	}
	rows = append(rows,
		[]string{"Loan Amount", cli.FormatCurrency(p.Principal)},
		[]string{"Interest Rate", cli.FormatRate(p.AnnualRatePercent)},
		[]string{"Term", cli.FormatYears(p.TermYears)},
		[]string{"Frequency", p.Frequency.String()},
		[]string{"---"},
		[]string{"Payment", cli.FormatCurrency(r.PaymentAmount)},
		[]string{"Payments", cli.FormatNumber(int64(len(r.Schedule)))},
		[]string{"Total Payments", cli.FormatCurrency(r.TotalPayments)},
		[]string{"Total Interest", cli.FormatCurrency(r.TotalInterest)},
	)
	if n := len(r.Schedule); n > 0 {
		rows = append(rows,
			[]string{"---"},
			[]string{"First Payment", cli.FormatDate(r.Schedule[0].Date)},
			[]string{"Payoff", cli.FormatDate(r.Schedule[n-1].Date)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))
	fmt.Println()
	fmt.Println("  " + cli.RenderSplitBar(p.Principal, r.TotalInterest, 40))
	fmt.Println()
	return nil
}
