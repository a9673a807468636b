package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/valueobject"
	"github.com/bibbank/amortization/pkg/money"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Its terms and owner never change; the only
// state that grows is the set of users it is shared with.
type Loan struct {
	id           string
	ownerID      string
	principal    money.Money
	annualRate   decimal.Decimal
	termMonths   int
	sharedWith   []string
	createdAt    time.Time
	domainEvents []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan validates the terms and creates a loan owned by ownerID.
func NewLoan(
	ownerID string,
	principal, annualRate decimal.Decimal,
	termMonths int,
	currency string,
	now time.Time,
) (Loan, error) {
	if ownerID == "" {
		return Loan{}, domain.ErrValidation("owner ID is required")
	}
	if currency == "" {
		currency = money.USD.Code()
	}
	cur, err := money.NewCurrency(currency)
	if err != nil {
		return Loan{}, domain.ErrValidation("%s", err.Error())
	}

	terms := Terms{Principal: principal, AnnualRate: annualRate, TermMonths: termMonths}
	if err := terms.Validate(); err != nil {
		return Loan{}, err
	}

	id := uuid.New().String()
	now = now.UTC()

	loan := Loan{
		id:         id,
		ownerID:    ownerID,
		principal:  money.New(principal, cur),
		annualRate: annualRate,
		termMonths: termMonths,
		createdAt:  now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		id, ownerID, principal, annualRate, termMonths, cur.Code(), now,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, ownerID string,
	principal money.Money,
	annualRate decimal.Decimal,
	termMonths int,
	sharedWith []string,
	createdAt time.Time,
) Loan {
	return Loan{
		id:         id,
		ownerID:    ownerID,
		principal:  principal,
		annualRate: annualRate,
		termMonths: termMonths,
		sharedWith: slices.Clone(sharedWith),
		createdAt:  createdAt,
	}
}

// ---------------------------------------------------------------------------
// Access
// ---------------------------------------------------------------------------

// AccessFor reports whether userID may read the loan.
func (l Loan) AccessFor(userID string) valueobject.AccessDecision {
	if userID != "" && (userID == l.ownerID || slices.Contains(l.sharedWith, userID)) {
		return valueobject.AccessAllowed
	}
	return valueobject.AccessDenied
}

// IsOwnedBy reports whether userID created the loan.
func (l Loan) IsOwnedBy(userID string) bool { return userID == l.ownerID }

// ShareWith grants targetID read access. Only the owner may share, and
// sharing with the owner is rejected. Granting an existing grantee again
// returns the loan unchanged.
func (l Loan) ShareWith(requesterID, targetID string, now time.Time) (Loan, error) {
	if !l.IsOwnedBy(requesterID) {
		return l, domain.ErrNotOwner("only the owner can share loan %s", l.id)
	}
	if targetID == "" {
		return l, domain.ErrValidation("share target is required")
	}
	if targetID == l.ownerID {
		return l, domain.ErrValidation("cannot share a loan with its owner")
	}
	if slices.Contains(l.sharedWith, targetID) {
		return l, nil
	}

	next := l
	next.sharedWith = append(slices.Clone(l.sharedWith), targetID)
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanShared(l.id, l.ownerID, targetID, now))
	return next, nil
}

// ---------------------------------------------------------------------------
// Amortization
// ---------------------------------------------------------------------------

// Terms returns the engine inputs for the loan.
func (l Loan) Terms() Terms {
	return Terms{
		Principal:  l.principal.Amount(),
		AnnualRate: l.annualRate,
		TermMonths: l.termMonths,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                        { return l.id }
func (l Loan) OwnerID() string                   { return l.ownerID }
func (l Loan) Principal() money.Money            { return l.principal }
func (l Loan) AnnualRate() decimal.Decimal       { return l.annualRate }
func (l Loan) TermMonths() int                   { return l.termMonths }
func (l Loan) Currency() string                  { return l.principal.Currency().Code() }
func (l Loan) CreatedAt() time.Time              { return l.createdAt }
func (l Loan) DomainEvents() []event.DomainEvent { return l.domainEvents }

// SharedWith returns a copy of the grantee IDs in grant order.
func (l Loan) SharedWith() []string { return slices.Clone(l.sharedWith) }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
