package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/homeloan/internal/amortization"
	"github.com/theirongolddev/homeloan/internal/config"
)

func parseLoanFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addLoanFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return c
}

func TestLoanInputsDefaults(t *testing.T) {
	cfg := config.DefaultConfig().Loan
	in, err := loanInputs(parseLoanFlags(t), cfg)
	if err != nil {
		t.Fatal(err)
	}
	p, err := in.Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.Principal != 400000 || p.AnnualRatePercent != 4.5 || p.TermYears != 30 || p.Frequency != amortization.Monthly {
		t.Errorf("unexpected params %+v", p)
	}
	if p.DownPayment == nil || *p.DownPayment != 100000 {
		t.Errorf("down payment = %v, want 100000", p.DownPayment)
	}
}

func TestLoanInputsFlags(t *testing.T) {
	cfg := config.DefaultConfig().Loan

	tests := []struct {
		name      string
		args      []string
		principal float64
		freq      amortization.Frequency
	}{
		{"principal overrides home price", []string{"--principal", "300000", "--home-price", "1"}, 300000, amortization.Monthly},
		{"down payment amount", []string{"--home-price", "400000", "--down-payment", "50000"}, 350000, amortization.Monthly},
		{"down payment percent", []string{"--home-price", "400000", "--down-percent", "10"}, 360000, amortization.Monthly},
		{"frequency", []string{"-p", "100000", "-f", "bi-weekly"}, 100000, amortization.BiWeekly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := loanInputs(parseLoanFlags(t, tt.args...), cfg)
			if err != nil {
				t.Fatal(err)
			}
			p, err := in.Params()
			if err != nil {
				t.Fatal(err)
			}
			if p.Principal != tt.principal || p.Frequency != tt.freq {
				t.Errorf("principal=%v freq=%v, want %v %v", p.Principal, p.Frequency, tt.principal, tt.freq)
			}
		})
	}
}

func TestLoanInputsStart(t *testing.T) {
	in, err := loanInputs(parseLoanFlags(t, "--start", "2024-01-31"), config.DefaultConfig().Loan)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC); !in.StartDate.Equal(want) {
		t.Errorf("start = %v, want %v", in.StartDate, want)
	}
}

func TestLoanInputsInvalid(t *testing.T) {
	cfg := config.DefaultConfig().Loan
	for _, args := range [][]string{
		{"--frequency", "daily"},
		{"--start", "31/01/2024"},
	} {
		if _, err := loanInputs(parseLoanFlags(t, args...), cfg); !errors.Is(err, amortization.ErrInvalidInput) {
			t.Errorf("%v: err = %v, want ErrInvalidInput", args, err)
		}
	}
}
