package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Loan]")
	fmt.Printf("    Home price:     %s\n", cli.FormatCurrency(cfg.Loan.HomePrice))
	fmt.Printf("    Down payment:   %s\n", cli.FormatPercent(cfg.Loan.DownPaymentPercent))
	fmt.Printf("    Interest rate:  %s\n", cli.FormatRate(cfg.Loan.AnnualRatePercent))
	fmt.Printf("    Term:           %s\n", cli.FormatYears(cfg.Loan.TermYears))
	fmt.Printf("    Frequency:      %s\n", cfg.Loan.Frequency)
	fmt.Println()

	fmt.Println("  [Income]")
	fmt.Printf("    Monthly income: %s\n", cli.FormatCurrency(cfg.Income.MonthlyIncome))
	fmt.Printf("    Growth rate:    %s\n", cli.FormatPercent(cfg.Income.GrowthRatePercent))
	fmt.Printf("    Horizon:        %s\n", cli.FormatYears(cfg.Income.Years))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:    %s\n", cfg.Server.Addr)
	fmt.Printf("    Rate limit: %g req/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.Burst)
	fmt.Printf("    Cache TTL:  %s\n", cfg.CacheTTLDuration())
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    DSN: %s\n", cfg.Store.DSN)
	fmt.Println()

	fmt.Println("  Run `homeloan setup` to reconfigure.")
	return nil
}
