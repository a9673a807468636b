package service

import (
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
)

// ---------------------------------------------------------------------------
// AccessPolicy – domain service gating the amortization engine
// ---------------------------------------------------------------------------

// AccessPolicy decides whether a user may read or share a loan.
type AccessPolicy struct{}

// NewAccessPolicy returns a new policy instance.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// AuthorizeRead returns an AccessDeniedError unless userID owns the loan or
// has been granted access to it.
func (p *AccessPolicy) AuthorizeRead(loan model.Loan, userID string) error {
	if !loan.AccessFor(userID).IsAllowed() {
		return domain.ErrAccessDenied("user %s has no access to loan %s", userID, loan.ID())
	}
	return nil
}

// AuthorizeShare returns a NotOwnerError unless userID owns the loan.
func (p *AccessPolicy) AuthorizeShare(loan model.Loan, userID string) error {
	if !loan.IsOwnedBy(userID) {
		return domain.ErrNotOwner("only the owner can share loan %s", loan.ID())
	}
	return nil
}

// Visible filters loans down to those userID may read, preserving order.
func (p *AccessPolicy) Visible(loans []model.Loan, userID string) []model.Loan {
	out := make([]model.Loan, 0, len(loans))
	for _, l := range loans {
		if l.AccessFor(userID).IsAllowed() {
			out = append(out, l)
		}
	}
	return out
}
