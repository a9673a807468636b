package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func terms(principal, rate string, months int) model.Terms {
	return model.Terms{Principal: d(principal), AnnualRate: d(rate), TermMonths: months}
}

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name  string
		terms model.Terms
		want  string
	}{
		{"twelve percent one year", terms("1200.00", "0.12", 12), "106.62"},
		{"zero rate", terms("1000.00", "0", 10), "100.00"},
		{"zero rate uneven split", terms("1000.00", "0", 3), "333.33"},
		{"single month", terms("1000.00", "0.12", 1), "1010.00"},
		{"thirty year mortgage", terms("200000.00", "0.06", 360), "1199.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.MonthlyPayment(tt.terms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestGenerateSchedule_TwelvePercentOneYear(t *testing.T) {
	schedule, err := model.GenerateSchedule(terms("1200.00", "0.12", 12))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, "106.62", first.Payment.StringFixed(2))
	assert.Equal(t, "12.00", first.Interest.StringFixed(2))
	assert.Equal(t, "94.62", first.PrincipalPortion.StringFixed(2))
	assert.Equal(t, "1105.38", first.RemainingBalance.StringFixed(2))

	second := schedule[1]
	assert.Equal(t, "11.05", second.Interest.StringFixed(2))

	last := schedule[11]
	assert.Equal(t, 12, last.Month)
	assert.True(t, last.RemainingBalance.IsZero(), "final balance %s", last.RemainingBalance)
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	schedule, err := model.GenerateSchedule(terms("1000.00", "0", 10))
	require.NoError(t, err)
	require.Len(t, schedule, 10)

	for _, e := range schedule {
		assert.Equal(t, "100.00", e.Payment.StringFixed(2), "month %d", e.Month)
		assert.True(t, e.Interest.IsZero(), "month %d", e.Month)
	}
	assert.True(t, schedule[9].RemainingBalance.IsZero())
}

func TestGenerateSchedule_LastMonthAbsorbsRounding(t *testing.T) {
	schedule, err := model.GenerateSchedule(terms("1000.00", "0", 3))
	require.NoError(t, err)

	assert.Equal(t, "333.33", schedule[0].Payment.StringFixed(2))
	assert.Equal(t, "333.33", schedule[1].Payment.StringFixed(2))
	assert.Equal(t, "333.34", schedule[2].Payment.StringFixed(2))
	assert.True(t, schedule[2].RemainingBalance.IsZero())
}

func TestGenerateSchedule_SingleMonth(t *testing.T) {
	schedule, err := model.GenerateSchedule(terms("1000.00", "0.12", 1))
	require.NoError(t, err)
	require.Len(t, schedule, 1)

	assert.Equal(t, "10.00", schedule[0].Interest.StringFixed(2))
	assert.Equal(t, "1000.00", schedule[0].PrincipalPortion.StringFixed(2))
	assert.Equal(t, "1010.00", schedule[0].Payment.StringFixed(2))
	assert.True(t, schedule[0].RemainingBalance.IsZero())
}

func TestGenerateSchedule_TinyPrincipalNeverOvershoots(t *testing.T) {
	// 0.05 over 7 months rounds the level payment up to 0.01, which repays
	// the loan by month 5. The remaining months carry nothing.
	schedule, err := model.GenerateSchedule(terms("0.05", "0", 7))
	require.NoError(t, err)
	require.Len(t, schedule, 7)

	for i := 0; i < 5; i++ {
		assert.Equal(t, "0.01", schedule[i].Payment.StringFixed(2), "month %d", i+1)
	}
	for i := 5; i < 7; i++ {
		assert.True(t, schedule[i].Payment.IsZero(), "month %d", i+1)
		assert.True(t, schedule[i].RemainingBalance.IsZero(), "month %d", i+1)
	}
}

func TestGenerateSchedule_Properties(t *testing.T) {
	principals := []string{"0.01", "0.05", "1.00", "1200.00", "100000.00", "250000.99", "9999999999999999.99"}
	rates := []string{"0", "0.000001", "0.035", "0.12", "0.999999", "10"}
	months := []int{1, 2, 7, 12, 360, 600}

	for _, p := range principals {
		for _, r := range rates {
			for _, n := range months {
				tm := terms(p, r, n)
				t.Run(fmt.Sprintf("%s/%s/%d", p, r, n), func(t *testing.T) {
					schedule, err := model.GenerateSchedule(tm)
					require.NoError(t, err)
					require.Len(t, schedule, n)

					sum := decimal.Zero
					prevBalance := tm.Principal
					for i, e := range schedule {
						assert.Equal(t, i+1, e.Month)
						assert.False(t, e.PrincipalPortion.IsNegative(), "month %d principal portion", e.Month)
						assert.False(t, e.RemainingBalance.IsNegative(), "month %d balance", e.Month)
						assert.True(t, e.Payment.Equal(e.Interest.Add(e.PrincipalPortion)), "month %d payment split", e.Month)
						assert.True(t, e.RemainingBalance.Equal(prevBalance.Sub(e.PrincipalPortion)), "month %d balance carry", e.Month)
						assert.True(t, e.Interest.Equal(e.Interest.Round(2)), "month %d interest precision", e.Month)
						prevBalance = e.RemainingBalance
						sum = sum.Add(e.PrincipalPortion)
					}

					assert.True(t, schedule[n-1].RemainingBalance.IsZero(), "final balance %s", schedule[n-1].RemainingBalance)
					assert.True(t, sum.Equal(tm.Principal), "principal portions sum to %s", sum)
				})
			}
		}
	}
}

func TestSummarizeMonth_MatchesGenerateSchedule(t *testing.T) {
	cases := []model.Terms{
		terms("1200.00", "0.12", 12),
		terms("1000.00", "0", 10),
		terms("0.05", "0", 7),
		terms("250000.99", "0.0725", 120),
		terms("12345.67", "0.999999", 36),
	}
	for _, tm := range cases {
		t.Run(fmt.Sprintf("%s/%s/%d", tm.Principal, tm.AnnualRate, tm.TermMonths), func(t *testing.T) {
			schedule, err := model.GenerateSchedule(tm)
			require.NoError(t, err)

			for m := 1; m <= tm.TermMonths; m++ {
				got, err := model.SummarizeMonth(tm, m)
				require.NoError(t, err)
				assertSameEntry(t, schedule[m-1], got)
			}
		})
	}
}

func TestSummarizeMonth_SampledLongTerm(t *testing.T) {
	tm := terms("500000.00", "0.045", 600)
	schedule, err := model.GenerateSchedule(tm)
	require.NoError(t, err)

	for _, m := range []int{1, 2, 299, 300, 599, 600} {
		got, err := model.SummarizeMonth(tm, m)
		require.NoError(t, err)
		assertSameEntry(t, schedule[m-1], got)
	}
}

func assertSameEntry(t *testing.T, want, got model.ScheduleEntry) {
	t.Helper()
	assert.Equal(t, want.Month, got.Month)
	assert.True(t, want.Payment.Equal(got.Payment), "month %d payment", want.Month)
	assert.True(t, want.Interest.Equal(got.Interest), "month %d interest", want.Month)
	assert.True(t, want.PrincipalPortion.Equal(got.PrincipalPortion), "month %d principal", want.Month)
	assert.True(t, want.RemainingBalance.Equal(got.RemainingBalance), "month %d balance", want.Month)
}

func TestSummarizeMonth_OutOfRange(t *testing.T) {
	tm := terms("1200.00", "0.12", 12)
	for _, m := range []int{-1, 0, 13, 600} {
		_, err := model.SummarizeMonth(tm, m)
		var oor *domain.OutOfRangeError
		assert.True(t, errors.As(err, &oor), "month %d: got %v", m, err)
	}
}

func TestCumulativeSummary(t *testing.T) {
	tm := terms("1200.00", "0.12", 12)
	schedule, err := model.GenerateSchedule(tm)
	require.NoError(t, err)

	first, err := model.CumulativeSummary(tm, 1)
	require.NoError(t, err)
	assert.Equal(t, "94.62", first.TotalPrincipalPaid.StringFixed(2))
	assert.Equal(t, "12.00", first.TotalInterestPaid.StringFixed(2))

	last, err := model.CumulativeSummary(tm, 12)
	require.NoError(t, err)
	assert.True(t, last.TotalPrincipalPaid.Equal(d("1200.00")))
	assert.True(t, last.RemainingBalance.IsZero())

	interest := decimal.Zero
	for _, e := range schedule {
		interest = interest.Add(e.Interest)
	}
	assert.True(t, last.TotalInterestPaid.Equal(interest))
}

func TestTermsValidate(t *testing.T) {
	tests := []struct {
		name  string
		terms model.Terms
	}{
		{"zero principal", terms("0", "0.12", 12)},
		{"negative principal", terms("-100", "0.12", 12)},
		{"sub-cent principal", terms("100.001", "0.12", 12)},
		{"principal too large", terms("10000000000000000", "0.12", 12)},
		{"negative rate", terms("100", "-0.01", 12)},
		{"rate too large", terms("100", "10.000001", 12)},
		{"rate too precise", terms("100", "0.1234567", 12)},
		{"zero term", terms("100", "0.12", 0)},
		{"negative term", terms("100", "0.12", -3)},
		{"term too long", terms("100", "0.12", 601)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *domain.ValidationError

			_, err := model.GenerateSchedule(tt.terms)
			assert.True(t, errors.As(err, &verr), "GenerateSchedule: %v", err)

			_, err = model.MonthlyPayment(tt.terms)
			assert.True(t, errors.As(err, &verr), "MonthlyPayment: %v", err)

			_, err = model.SummarizeMonth(tt.terms, 1)
			assert.True(t, errors.As(err, &verr), "SummarizeMonth: %v", err)
		})
	}
}
