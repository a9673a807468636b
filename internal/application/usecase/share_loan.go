package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/service"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

// ShareLoanUseCase lets a loan's owner grant another user read access.
type ShareLoanUseCase struct {
	loanRepo  port.LoanRepository
	userRepo  port.UserRepository
	publisher port.EventPublisher
	policy    *service.AccessPolicy
}

// NewShareLoanUseCase wires dependencies.
func NewShareLoanUseCase(
	loanRepo port.LoanRepository,
	userRepo port.UserRepository,
	publisher port.EventPublisher,
	policy *service.AccessPolicy,
) *ShareLoanUseCase {
	return &ShareLoanUseCase{
		loanRepo:  loanRepo,
		userRepo:  userRepo,
		publisher: publisher,
		policy:    policy,
	}
}

// Execute grants access and returns the updated loan. Sharing with an
// existing grantee succeeds without change.
func (uc *ShareLoanUseCase) Execute(ctx context.Context, req dto.ShareLoanRequest) (dto.LoanResponse, error) {
	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Only the owner may share.
	if err := uc.policy.AuthorizeShare(loan, req.RequesterID); err != nil {
		return dto.LoanResponse{}, err
	}

	// 3. Resolve the target user.
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return dto.LoanResponse{}, err
	}
	target, err := uc.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return dto.LoanResponse{}, domain.ErrNotFound("no user registered with email %s", email)
		}
		return dto.LoanResponse{}, fmt.Errorf("find user: %w", err)
	}

	// 4. Apply the grant to the aggregate.
	shared, err := loan.ShareWith(req.RequesterID, target.ID(), time.Now())
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 5. Persist atomically; concurrent grants on the same loan are all kept.
	if err := uc.loanRepo.AddShare(ctx, loan.ID(), target.ID()); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("add share: %w", err)
	}

	// 6. Publish LoanShared (absent when the grant already existed).
	publishEvents(ctx, uc.publisher, shared.DomainEvents())

	return toLoanResponse(shared), nil
}
