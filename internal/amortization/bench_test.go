package amortization

import (
	"testing"
	"time"
)

func benchParams(f Frequency) Params {
	return Params{
		Principal:         300000,
		AnnualRatePercent: 4.5,
		TermYears:         30,
		Frequency:         f,
		StartDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func BenchmarkComputeMonthly(b *testing.B) {
	p := benchParams(Monthly)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := Compute(p)
		if err != nil {
			b.Fatal(err)
		}
		_ = r
	}
}

func BenchmarkComputeWeekly(b *testing.B) {
	p := benchParams(Weekly)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := Compute(p)
		if err != nil {
			b.Fatal(err)
		}
		_ = r
	}
}

func BenchmarkAddMonths(b *testing.B) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AddMonths(start, i%360)
	}
}
