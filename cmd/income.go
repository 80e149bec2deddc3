package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/config"
	"github.com/theirongolddev/homeloan/internal/income"
)

var (
	flagIncome       float64
	flagGrowth       string
	flagGrowthRate   float64
	flagIncomeYears  int
	flagIncomeStart  string
	flagIncomeMonths bool
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Project monthly income growth",
	RunE:  runIncome,
}

func init() {
	f := incomeCmd.Flags()
	f.Float64VarP(&flagIncome, "income", "i", 0, "Starting monthly income")
	f.StringVarP(&flagGrowth, "growth", "g", "fixed", "Growth type: fixed, inflation or manual")
	f.Float64Var(&flagGrowthRate, "growth-rate", 0, "Annual growth rate in percent (fixed growth)")
	f.IntVarP(&flagIncomeYears, "years", "y", 0, "Projection horizon in years")
	f.StringVar(&flagIncomeStart, "start", "", "First month (YYYY-MM, default this month)")
	f.BoolVar(&flagIncomeMonths, "monthly", false, "List every month instead of yearly totals")
	rootCmd.AddCommand(incomeCmd)
}

func incomeGrowth(kind income.GrowthKind, rate float64) income.Growth {
	switch kind {
	case income.InflationAdjusted:
		return income.Inflation(income.DefaultInflationPercent)
	case income.ManualPerYear:
		return income.Manual(nil)
	default:
		return income.Fixed(rate)
	}
}

func runIncome(c *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	changed := c.Flags().Changed

	monthly := cfg.Income.MonthlyIncome
	if changed("income") {
		monthly = flagIncome
	}
	rate := cfg.Income.GrowthRatePercent
	if changed("growth-rate") {
		rate = flagGrowthRate
	}
	years := cfg.Income.Years
	if changed("years") {
		years = flagIncomeYears
	}
	kind, err := income.ParseGrowthKind(flagGrowth)
	if err != nil {
		return err
	}

	var p income.Projection
	if changed("start") {
		start, perr := time.Parse(income.MonthLayout, strings.TrimSpace(flagIncomeStart))
		if perr != nil {
			return fmt.Errorf("%w: --start must be YYYY-MM", income.ErrInvalidInput)
		}
		p, err = income.Project(start, monthly, incomeGrowth(kind, rate), years)
	} else if kind == income.FixedAnnual {
		p, err = income.ProjectFromNow(monthly, rate, years)
	} else {
		p, err = income.Project(time.Now(), monthly, incomeGrowth(kind, rate), years)
	}
	if errors.Is(err, income.ErrGrowthNotImplemented) {
		return fmt.Errorf("%s is not implemented yet: %w", kind, err)
	}
	if err != nil {
		return fmt.Errorf("projecting income: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("INCOME  %s over %s", cli.FormatCurrency(monthly), cli.FormatYears(years))))
	fmt.Println()

	var rows [][]string
	if flagIncomeMonths {
		for month, v := range p.All() {
			rows = append(rows, []string{month, cli.FormatCurrency(v)})
		}
		fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Month", "Income"}, Rows: rows}))
	} else {
		blocks := p.YearTotals()
		peak := 0.0
		for _, y := range blocks {
			peak = max(peak, y.Total)
			rows = append(rows, []string{
				strconv.Itoa(y.Year),
				y.From + " to " + y.To,
				cli.FormatCurrency(y.Monthly),
				cli.FormatCurrency(y.Total),
			})
		}
		rows = append(rows, []string{"---"}, []string{"Total", "", "", cli.FormatCurrency(p.Total())})
		fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Year", "Months", "Monthly", "Annual"}, Rows: rows}))

		fmt.Println()
		for _, y := range blocks {
			fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("Year %-3d", y.Year), y.Total, peak, 40))
		}
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", cli.RenderSparkline(p.Values()), kind)
	fmt.Println()
	return nil
}
