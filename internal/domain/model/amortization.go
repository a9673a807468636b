package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/pkg/money"
)

// Limits on loan terms accepted by the engine.
const (
	MaxTermMonths      = 600
	MaxRateFractionDig = 6
)

var (
	maxPrincipal  = decimal.New(1, 16) // exclusive, NUMERIC(18,2)
	maxAnnualRate = decimal.NewFromInt(10)
	monthsPerYear = decimal.NewFromInt(12)
)

// ---------------------------------------------------------------------------
// Terms and schedule value objects
// ---------------------------------------------------------------------------

// Terms are the immutable inputs of an amortization schedule. AnnualRate is a
// fraction, so 0.12 means 12% per year.
type Terms struct {
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
}

// Validate returns a ValidationError for terms the engine cannot amortize.
func (t Terms) Validate() error {
	if !t.Principal.IsPositive() {
		return domain.ErrValidation("principal must be positive, got %s", t.Principal)
	}
	if !money.HasCentPrecision(t.Principal) {
		return domain.ErrValidation("principal must have at most 2 decimal places, got %s", t.Principal)
	}
	if t.Principal.GreaterThanOrEqual(maxPrincipal) {
		return domain.ErrValidation("principal must be less than %s", maxPrincipal)
	}
	if t.AnnualRate.IsNegative() {
		return domain.ErrValidation("annual rate must not be negative, got %s", t.AnnualRate)
	}
	if t.AnnualRate.GreaterThan(maxAnnualRate) {
		return domain.ErrValidation("annual rate must not exceed %s, got %s", maxAnnualRate, t.AnnualRate)
	}
	if !t.AnnualRate.Equal(t.AnnualRate.Truncate(MaxRateFractionDig)) {
		return domain.ErrValidation("annual rate must have at most %d decimal places, got %s", MaxRateFractionDig, t.AnnualRate)
	}
	if t.TermMonths < 1 || t.TermMonths > MaxTermMonths {
		return domain.ErrValidation("term months must be between 1 and %d, got %d", MaxTermMonths, t.TermMonths)
	}
	return nil
}

// ScheduleEntry is one month of an amortization schedule. All amounts are
// rounded to cents.
type ScheduleEntry struct {
	Month            int
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	PrincipalPortion decimal.Decimal
	RemainingBalance decimal.Decimal
}

// MonthSummary is a schedule entry together with the totals paid through it.
type MonthSummary struct {
	ScheduleEntry
	TotalPrincipalPaid decimal.Decimal
	TotalInterestPaid  decimal.Decimal
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// MonthlyPayment returns the fixed level payment for the terms.
//
// With a the annual rate and r = a/12 the annuity payment
//
//	P * r / (1 - (1+r)^-n)
//
// is evaluated as the exact rational P*a*(12+a)^n / (12*((12+a)^n - 12^n))
// and rounded once, half-up, to cents. A zero rate divides P evenly.
func MonthlyPayment(t Terms) (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	return levelPayment(t), nil
}

func levelPayment(t Terms) decimal.Decimal {
	n := decimal.NewFromInt(int64(t.TermMonths))
	if t.AnnualRate.IsZero() {
		return money.DivRound(t.Principal, n)
	}
	growth := money.PowInt(monthsPerYear.Add(t.AnnualRate), t.TermMonths)
	base := money.PowInt(monthsPerYear, t.TermMonths)

	num := t.Principal.Mul(t.AnnualRate).Mul(growth)
	den := monthsPerYear.Mul(growth.Sub(base))
	return money.DivRound(num, den)
}

// GenerateSchedule returns all TermMonths entries in month order. The final
// entry absorbs accumulated rounding so its remaining balance is exactly zero.
func GenerateSchedule(t Terms) ([]ScheduleEntry, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	it := newScheduleIterator(t)
	schedule := make([]ScheduleEntry, 0, t.TermMonths)
	for it.month < t.TermMonths {
		schedule = append(schedule, it.next())
	}
	return schedule, nil
}

// SummarizeMonth returns the entry for a single month by iterating months
// 1..month only. The result equals GenerateSchedule(t)[month-1].
func SummarizeMonth(t Terms, month int) (ScheduleEntry, error) {
	s, err := CumulativeSummary(t, month)
	if err != nil {
		return ScheduleEntry{}, err
	}
	return s.ScheduleEntry, nil
}

// CumulativeSummary returns the entry for month along with the principal and
// interest paid over months 1..month.
func CumulativeSummary(t Terms, month int) (MonthSummary, error) {
	if err := t.Validate(); err != nil {
		return MonthSummary{}, err
	}
	if month < 1 || month > t.TermMonths {
		return MonthSummary{}, domain.ErrOutOfRange("month %d is outside the loan term [1, %d]", month, t.TermMonths)
	}

	it := newScheduleIterator(t)
	summary := MonthSummary{
		TotalPrincipalPaid: decimal.Zero,
		TotalInterestPaid:  decimal.Zero,
	}
	for it.month < month {
		entry := it.next()
		summary.ScheduleEntry = entry
		summary.TotalPrincipalPaid = summary.TotalPrincipalPaid.Add(entry.PrincipalPortion)
		summary.TotalInterestPaid = summary.TotalInterestPaid.Add(entry.Interest)
	}
	return summary, nil
}

// ---------------------------------------------------------------------------
// Iterator
// ---------------------------------------------------------------------------

// scheduleIterator carries the balance between months. Both the full schedule
// and the single-month lookups advance through it so their results agree.
type scheduleIterator struct {
	terms   Terms
	payment decimal.Decimal
	balance decimal.Decimal
	month   int
}

func newScheduleIterator(t Terms) *scheduleIterator {
	return &scheduleIterator{
		terms:   t,
		payment: levelPayment(t),
		balance: t.Principal,
	}
}

func (it *scheduleIterator) next() ScheduleEntry {
	it.month++

	interest := money.DivRound(it.balance.Mul(it.terms.AnnualRate), monthsPerYear)
	payment := it.payment
	principalPortion := payment.Sub(interest)

	// The last month settles the balance. An earlier month whose rounded
	// payment would overshoot the balance is capped the same way.
	if it.month == it.terms.TermMonths || principalPortion.GreaterThan(it.balance) {
		principalPortion = it.balance
		payment = interest.Add(principalPortion)
	}

	it.balance = it.balance.Sub(principalPortion)

	return ScheduleEntry{
		Month:            it.month,
		Payment:          payment,
		Interest:         interest,
		PrincipalPortion: principalPortion,
		RemainingBalance: it.balance,
	}
}
