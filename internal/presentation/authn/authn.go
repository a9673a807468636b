// Package authn adapts the authenticate use case to pkg/auth.
package authn

import (
	"context"
	"errors"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/application/usecase"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/pkg/auth"
)

// Authenticator resolves API keys through the authenticate use case.
type Authenticator struct {
	uc *usecase.AuthenticateUseCase
}

// New wraps uc.
func New(uc *usecase.AuthenticateUseCase) *Authenticator {
	return &Authenticator{uc: uc}
}

// Authenticate returns auth.ErrInvalidCredentials for missing or unknown keys.
func (a *Authenticator) Authenticate(ctx context.Context, apiKey string) (auth.Principal, error) {
	user, err := a.uc.Execute(ctx, dto.AuthenticateRequest{APIKey: apiKey})
	if err != nil {
		var unauth *domain.UnauthenticatedError
		if errors.As(err, &unauth) {
			return auth.Principal{}, auth.ErrInvalidCredentials
		}
		return auth.Principal{}, err
	}
	return auth.Principal{UserID: user.ID, Email: user.Email}, nil
}
