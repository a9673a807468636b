package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/service"
	"github.com/bibbank/amortization/pkg/money"
)

// GetScheduleUseCase returns the full amortization schedule of a loan the
// caller may read. Schedules are cached by loan ID since terms never change.
type GetScheduleUseCase struct {
	loanRepo port.LoanRepository
	cache    port.ScheduleCache
	policy   *service.AccessPolicy
}

// NewGetScheduleUseCase wires dependencies.
func NewGetScheduleUseCase(
	loanRepo port.LoanRepository,
	cache port.ScheduleCache,
	policy *service.AccessPolicy,
) *GetScheduleUseCase {
	return &GetScheduleUseCase{loanRepo: loanRepo, cache: cache, policy: policy}
}

// Execute authorizes the caller, then serves the schedule from cache or the engine.
func (uc *GetScheduleUseCase) Execute(ctx context.Context, req dto.GetScheduleRequest) (dto.ScheduleResponse, error) {
	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Check read access.
	if err := uc.policy.AuthorizeRead(loan, req.RequesterID); err != nil {
		return dto.ScheduleResponse{}, err
	}

	// 3. Serve from cache, or compute and populate it.
	schedule, err := uc.schedule(ctx, loan)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	resp := dto.ScheduleResponse{
		LoanID:   loan.ID(),
		Currency: loan.Currency(),
		Entries:  make([]dto.ScheduleEntryResponse, len(schedule)),
	}
	for i, e := range schedule {
		resp.Entries[i] = toScheduleEntryResponse(e)
	}
	if len(schedule) > 0 {
		resp.MonthlyPayment = money.Format(schedule[0].Payment)
	}
	return resp, nil
}

func (uc *GetScheduleUseCase) schedule(ctx context.Context, loan model.Loan) ([]model.ScheduleEntry, error) {
	cached, found, err := uc.cache.Get(ctx, loan.ID())
	if err != nil {
		slog.WarnContext(ctx, "schedule cache read failed", "loan_id", loan.ID(), "error", err)
	}
	if found && len(cached) == loan.TermMonths() {
		return cached, nil
	}

	schedule, err := model.GenerateSchedule(loan.Terms())
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	if err := uc.cache.Set(ctx, loan.ID(), schedule); err != nil {
		slog.WarnContext(ctx, "schedule cache write failed", "loan_id", loan.ID(), "error", err)
	}
	return schedule, nil
}
