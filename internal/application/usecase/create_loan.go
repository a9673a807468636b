package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/service"
)

// CreateLoanUseCase creates a loan owned by the caller.
type CreateLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(loanRepo port.LoanRepository, publisher port.EventPublisher) *CreateLoanUseCase {
	return &CreateLoanUseCase{loanRepo: loanRepo, publisher: publisher}
}

// Execute validates the terms, persists the loan and publishes LoanCreated.
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.LoanResponse, error) {
	// 1. Build the aggregate (validates terms).
	loan, err := model.NewLoan(
		req.RequesterID,
		req.Principal, req.AnnualRate,
		req.TermMonths, req.Currency,
		time.Now(),
	)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 2. Persist the loan.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 3. Publish domain events.
	publishEvents(ctx, uc.publisher, loan.DomainEvents())

	return toLoanResponse(loan), nil
}

// ListLoansUseCase lists the loans a caller owns or has been granted.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
	policy   *service.AccessPolicy
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository, policy *service.AccessPolicy) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo, policy: policy}
}

// Execute returns the caller's visible loans, newest first.
func (uc *ListLoansUseCase) Execute(ctx context.Context, req dto.ListLoansRequest) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindAccessibleBy(ctx, req.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}
	loans = uc.policy.Visible(loans, req.RequesterID)

	out := make([]dto.LoanResponse, len(loans))
	for i, l := range loans {
		out[i] = toLoanResponse(l)
	}
	return out, nil
}
