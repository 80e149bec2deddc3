// Package export writes amortization schedules in portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/homeloan/internal/amortization"
)

// DateLayout is the ISO date format used for payment dates.
const DateLayout = "2006-01-02"

// ScheduleHeader is the first CSV record.
var ScheduleHeader = []string{
	"Payment Number",
	"Payment Date",
	"Payment Amount",
	"Principal Payment",
	"Interest Payment",
	"Remaining Balance",
}

// WriteScheduleCSV writes one record per payment after the header.
func WriteScheduleCSV(w io.Writer, schedule []amortization.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range schedule {
		rec := []string{
			strconv.Itoa(p.Number),
			p.Date.Format(DateLayout),
			money(p.Amount),
			money(p.Principal),
			money(p.Interest),
			money(p.Balance),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing payment %d: %w", p.Number, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FileName returns the export file name for a scenario.
func FileName(scenario string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(scenario))
	if name == "" {
		name = "scenario"
	}
	return "mortgage_amortization_" + name + ".csv"
}
