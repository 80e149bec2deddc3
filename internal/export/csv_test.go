package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/homeloan/internal/amortization"
)

func TestWriteScheduleCSV(t *testing.T) {
	res, err := amortization.Compute(amortization.Params{
		Principal:         300000,
		AnnualRatePercent: 4.5,
		TermYears:         30,
		Frequency:         amortization.Monthly,
		StartDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, res.Schedule); err != nil {
		t.Fatalf("WriteScheduleCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}
	if len(records) != 361 {
		t.Fatalf("got %d records, want 361", len(records))
	}
	if got := strings.Join(records[0], ","); got != "Payment Number,Payment Date,Payment Amount,Principal Payment,Interest Payment,Remaining Balance" {
		t.Errorf("header = %q", got)
	}

	first := records[1]
	want := []string{"1", "2024-01-31", "1520.06", "395.06", "1125.00"}
	for i, w := range want {
		if first[i] != w {
			t.Errorf("first row col %d = %q, want %q", i, first[i], w)
		}
	}
	if got := records[2][1]; got != "2024-02-29" {
		t.Errorf("second payment date = %q, want 2024-02-29", got)
	}

	last := records[360]
	if last[0] != "360" || last[5] != "0.00" {
		t.Errorf("last row = %v, want number 360 and balance 0.00", last)
	}
}

func TestWriteScheduleCSV_EmptySchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, nil); err != nil {
		t.Fatalf("WriteScheduleCSV: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Errorf("got %d lines, want header only", lines)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteScheduleCSV_WriterError(t *testing.T) {
	sched := []amortization.Payment{{Number: 1, Date: time.Now()}}
	if err := WriteScheduleCSV(failWriter{}, sched); err == nil {
		t.Error("expected error from failing writer")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Scenario 1", "mortgage_amortization_Scenario 1.csv"},
		{"a/b:c", "mortgage_amortization_a_b_c.csv"},
		{"  ", "mortgage_amortization_scenario.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
