package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event type names published to the broker.
const (
	TypeUserRegistered = "amortization.user.registered"
	TypeLoanCreated    = "amortization.loan.created"
	TypeLoanShared     = "amortization.loan.shared"
)

// ---------------------------------------------------------------------------
// User Events
// ---------------------------------------------------------------------------

// UserRegistered is raised when a new API user is created.
type UserRegistered struct {
	events.BaseEvent
	Email string `json:"email"`
}

func NewUserRegistered(userID, email string, now time.Time) UserRegistered {
	return UserRegistered{
		BaseEvent: events.NewBaseEvent(TypeUserRegistered, userID, "User", now),
		Email:     email,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a loan is created.
type LoanCreated struct {
	events.BaseEvent
	OwnerID    string          `json:"owner_id"`
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TermMonths int             `json:"term_months"`
	Currency   string          `json:"currency"`
}

func NewLoanCreated(
	loanID, ownerID string,
	principal, annualRate decimal.Decimal,
	termMonths int, currency string, now time.Time,
) LoanCreated {
	return LoanCreated{
		BaseEvent:  events.NewBaseEvent(TypeLoanCreated, loanID, "Loan", now),
		OwnerID:    ownerID,
		Principal:  principal,
		AnnualRate: annualRate,
		TermMonths: termMonths,
		Currency:   currency,
	}
}

// LoanShared is raised when an owner grants another user read access.
type LoanShared struct {
	events.BaseEvent
	OwnerID    string `json:"owner_id"`
	SharedWith string `json:"shared_with"`
}

func NewLoanShared(loanID, ownerID, sharedWith string, now time.Time) LoanShared {
	return LoanShared{
		BaseEvent:  events.NewBaseEvent(TypeLoanShared, loanID, "Loan", now),
		OwnerID:    ownerID,
		SharedWith: sharedWith,
	}
}
