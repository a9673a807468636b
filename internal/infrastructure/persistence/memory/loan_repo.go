package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
)

// LoanRepo is an in-memory port.LoanRepository for local runs and tests.
type LoanRepo struct {
	mu    sync.RWMutex
	loans map[string]model.Loan
}

// NewLoanRepo creates an empty repository.
func NewLoanRepo() *LoanRepo {
	return &LoanRepo{loans: make(map[string]model.Loan)}
}

// Save stores the loan. Loan terms never change, so a second save of the same
// ID keeps the stored grants.
func (r *LoanRepo) Save(_ context.Context, loan model.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loans[loan.ID()]; exists {
		return nil
	}
	r.loans[loan.ID()] = loan.ClearEvents()
	return nil
}

func (r *LoanRepo) FindByID(_ context.Context, id string) (model.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[id]
	if !ok {
		return model.Loan{}, domain.ErrNotFound("loan %s not found", id)
	}
	return loan, nil
}

// FindAccessibleBy returns loans owned by or shared with userID, newest first.
func (r *LoanRepo) FindAccessibleBy(_ context.Context, userID string) ([]model.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Loan
	for _, l := range r.loans {
		if l.AccessFor(userID).IsAllowed() {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

// AddShare grants userID access under the write lock, so concurrent grants
// on the same loan never overwrite each other.
func (r *LoanRepo) AddShare(_ context.Context, loanID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[loanID]
	if !ok {
		return domain.ErrNotFound("loan %s not found", loanID)
	}
	shared := loan.SharedWith()
	if slices.Contains(shared, userID) {
		return nil
	}
	r.loans[loanID] = model.ReconstructLoan(
		loan.ID(), loan.OwnerID(), loan.Principal(), loan.AnnualRate(),
		loan.TermMonths(), append(shared, userID), loan.CreatedAt(),
	)
	return nil
}
