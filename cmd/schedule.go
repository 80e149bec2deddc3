package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/cli"
	"github.com/theirongolddev/homeloan/internal/export"
)

var (
	flagScheduleCSV   string
	flagScheduleLimit int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print or export the full amortization schedule",
	Example: `  homeloan schedule --principal 300000 --rate 4.5 --years 30 --limit 12
  homeloan schedule --csv .          # writes mortgage_amortization_<name>.csv
  homeloan schedule --csv - > out.csv`,
	RunE: runSchedule,
}

func init() {
	addLoanFlags(scheduleCmd)
	scheduleCmd.Flags().StringVar(&flagScheduleCSV, "csv", "", "Write CSV to a file, a directory, or - for stdout")
	scheduleCmd.Flags().IntVar(&flagScheduleLimit, "limit", 0, "Show only the first N payments (0 = all)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(c *cobra.Command, _ []string) error {
	r, err := computeLoan(c)
	if err != nil {
		return err
	}

	if flagScheduleCSV != "" {
		return writeScheduleCSV(flagScheduleCSV, r.Schedule)
	}

	sched := r.Schedule
	if flagScheduleLimit > 0 && flagScheduleLimit < len(sched) {
		sched = sched[:flagScheduleLimit]
	}

	rows := make([][]string, 0, len(sched))
	for _, p := range sched {
		rows = append(rows, []string{
			strconv.Itoa(p.Number),
			cli.FormatDate(p.Date),
			cli.FormatCurrency(p.Amount),
			cli.FormatCurrency(p.Principal),
			cli.FormatCurrency(p.Interest),
			cli.FormatCurrency(p.Balance),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCHEDULE  %s", flagName)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Date", "Payment", "Principal", "Interest", "Balance"},
		Rows:    rows,
	}))
	if len(sched) < len(r.Schedule) {
		fmt.Printf("  ... %d more payments (use --limit 0 for all)\n", len(r.Schedule)-len(sched))
	}
	fmt.Println()
	return nil
}

func writeScheduleCSV(dest string, schedule []amortization.Payment) error {
	if dest == "-" {
		return export.WriteScheduleCSV(os.Stdout, schedule)
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, export.FileName(flagName))
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := export.WriteScheduleCSV(f, schedule); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "  Wrote %d payments to %s\n", len(schedule), dest)
	return nil
}
