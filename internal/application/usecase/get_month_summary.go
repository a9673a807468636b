package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/service"
	"github.com/bibbank/amortization/pkg/money"
)

// GetMonthSummaryUseCase returns a single month of a loan's schedule along
// with the principal and interest paid through that month.
type GetMonthSummaryUseCase struct {
	loanRepo port.LoanRepository
	policy   *service.AccessPolicy
}

// NewGetMonthSummaryUseCase wires dependencies.
func NewGetMonthSummaryUseCase(loanRepo port.LoanRepository, policy *service.AccessPolicy) *GetMonthSummaryUseCase {
	return &GetMonthSummaryUseCase{loanRepo: loanRepo, policy: policy}
}

// Execute authorizes the caller and summarizes the requested month.
func (uc *GetMonthSummaryUseCase) Execute(
	ctx context.Context,
	req dto.GetMonthSummaryRequest,
) (dto.MonthSummaryResponse, error) {
	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.MonthSummaryResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Check read access before revealing anything about the term.
	if err := uc.policy.AuthorizeRead(loan, req.RequesterID); err != nil {
		return dto.MonthSummaryResponse{}, err
	}

	// 3. Iterate to the requested month.
	summary, err := model.CumulativeSummary(loan.Terms(), req.Month)
	if err != nil {
		return dto.MonthSummaryResponse{}, err
	}

	return dto.MonthSummaryResponse{
		LoanID:             loan.ID(),
		Currency:           loan.Currency(),
		Month:              summary.Month,
		Payment:            money.Format(summary.Payment),
		Interest:           money.Format(summary.Interest),
		PrincipalPortion:   money.Format(summary.PrincipalPortion),
		PrincipalBalance:   money.Format(summary.RemainingBalance),
		TotalPrincipalPaid: money.Format(summary.TotalPrincipalPaid),
		TotalInterestPaid:  money.Format(summary.TotalInterestPaid),
	}, nil
}
