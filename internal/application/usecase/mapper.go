package usecase

import (
	"context"
	"log/slog"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/pkg/money"
)

// publishEvents hands events to the publisher after the state change has been
// committed. A failure is logged rather than returned: the write already
// succeeded and the caller may hold a one-time secret (an API key).
func publishEvents(ctx context.Context, publisher port.EventPublisher, events []event.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		slog.WarnContext(ctx, "failed to publish domain events",
			"count", len(events),
			"event_type", events[0].EventType(),
			"error", err,
		)
	}
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID(),
		Email:     u.Email().String(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
	}
}

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:         loan.ID(),
		OwnerID:    loan.OwnerID(),
		Principal:  money.Format(loan.Principal().Amount()),
		AnnualRate: loan.AnnualRate().String(),
		TermMonths: loan.TermMonths(),
		Currency:   loan.Currency(),
		SharedWith: loan.SharedWith(),
		CreatedAt:  loan.CreatedAt(),
	}
	if resp.SharedWith == nil {
		resp.SharedWith = []string{}
	}
	if payment, err := model.MonthlyPayment(loan.Terms()); err == nil {
		resp.MonthlyPayment = money.Format(payment)
	}
	return resp
}

func toScheduleEntryResponse(e model.ScheduleEntry) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		Month:            e.Month,
		Payment:          money.Format(e.Payment),
		Interest:         money.Format(e.Interest),
		PrincipalPortion: money.Format(e.PrincipalPortion),
		RemainingBalance: money.Format(e.RemainingBalance),
	}
}
