// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO date format used for payment dates.
const DateLayout = "2006-01-02"

// FormatCurrency formats a dollar amount with separators and cents.
// e.g., 1520.0559 -> "$1,520.06", -42.5 -> "-$42.50"
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	cents := int64(math.Round(math.Abs(v) * 100))
	s := "$" + FormatNumber(cents/100) + fmt.Sprintf(".%02d", cents%100)
	if v < 0 && cents != 0 {
		return "-" + s
	}
	return s
}

// FormatCompactCurrency formats large amounts with suffixes for cards and axes.
// e.g., 1520 -> "$1,520", 350000 -> "$350.0K", 1234567 -> "$1.2M"
func FormatCompactCurrency(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, abs/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1_000_000)
	case abs >= 100_000:
		return fmt.Sprintf("%s$%.1fK", sign, abs/1_000)
	default:
		return sign + "$" + FormatNumber(int64(math.Round(abs)))
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value already expressed in percent.
// e.g., 20 -> "20.0%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatRate formats an interest rate with up to three decimals.
// e.g., 4.5 -> "4.50%", 6.125 -> "6.125%"
func FormatRate(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 < 2 {
		s += strings.Repeat("0", 2-(len(s)-i-1))
	}
	return s + "%"
}

// FormatDate formats a payment date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatYears formats a loan term.
func FormatYears(n int) string {
	if n == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", n)
}
