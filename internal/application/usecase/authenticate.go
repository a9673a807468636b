package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

// AuthenticateUseCase resolves an API key to its user.
type AuthenticateUseCase struct {
	userRepo port.UserRepository
}

// NewAuthenticateUseCase wires dependencies.
func NewAuthenticateUseCase(userRepo port.UserRepository) *AuthenticateUseCase {
	return &AuthenticateUseCase{userRepo: userRepo}
}

// Execute returns the user owning the key, or an UnauthenticatedError.
func (uc *AuthenticateUseCase) Execute(ctx context.Context, req dto.AuthenticateRequest) (dto.UserResponse, error) {
	key := valueobject.ParseAPIKey(req.APIKey)
	if key.IsZero() {
		return dto.UserResponse{}, domain.ErrUnauthenticated("missing API key")
	}

	user, err := uc.userRepo.FindByAPIKeyHash(ctx, key.Hash())
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return dto.UserResponse{}, domain.ErrUnauthenticated("invalid API key")
		}
		return dto.UserResponse{}, fmt.Errorf("find user by api key: %w", err)
	}
	return toUserResponse(user), nil
}
