package cli

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1520.0559294776574, "$1,520.06"},
		{300000, "$300,000.00"},
		{0.004, "$0.00"},
		{-42.5, "-$42.50"},
		{1234567.891, "$1,234,567.89"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompactCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1520.4, "$1,520"},
		{350000, "$350.0K"},
		{1234567, "$1.2M"},
		{-2500, "-$2,500"},
	}
	for _, tc := range cases {
		if got := FormatCompactCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCompactCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	cases := map[float64]string{
		4.5:   "4.50%",
		6.125: "6.125%",
		0:     "0.00%",
		7:     "7.00%",
	}
	for in, want := range cases {
		if got := FormatRate(in); got != want {
			t.Errorf("FormatRate(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2024-02-29" {
		t.Errorf("FormatDate = %q, want 2024-02-29", got)
	}
}
