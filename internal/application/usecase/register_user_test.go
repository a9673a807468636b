package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/application/usecase"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

func TestRegisterUserUseCase_Execute(t *testing.T) {
	t.Run("registers a user and returns the key once", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewRegisterUserUseCase(userRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.RegisterUserRequest{Email: " Alice@Example.com ", Name: "Alice"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "Alice", resp.Name)
		assert.NotEmpty(t, resp.APIKey)

		require.Len(t, userRepo.savedUsers, 1)
		assert.Equal(t, valueobject.ParseAPIKey(resp.APIKey).Hash(), userRepo.savedUsers[0].APIKeyHash())

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, event.TypeUserRegistered, publisher.publishedEvents[0].EventType())
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		userRepo := &mockUserRepository{
			findByEmailFunc: func(_ context.Context, email string) (model.User, error) {
				assert.Equal(t, "alice@example.com", email)
				return existingUser("user-1", email), nil
			},
		}
		uc := usecase.NewRegisterUserUseCase(userRepo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.RegisterUserRequest{Email: "ALICE@example.com"})

		var conflict *domain.ConflictError
		assert.True(t, errors.As(err, &conflict), "got %v", err)
		assert.Empty(t, userRepo.savedUsers)
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		uc := usecase.NewRegisterUserUseCase(&mockUserRepository{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.RegisterUserRequest{Email: "nope"})

		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), "got %v", err)
	})

	t.Run("surfaces repository failures", func(t *testing.T) {
		userRepo := &mockUserRepository{
			saveFunc: func(_ context.Context, _ model.User) error {
				return errors.New("connection refused")
			},
		}
		uc := usecase.NewRegisterUserUseCase(userRepo, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.RegisterUserRequest{Email: "bob@example.com"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save user")
	})

	t.Run("publish failure does not fail registration", func(t *testing.T) {
		publisher := &mockEventPublisher{
			publishFunc: func(_ context.Context, _ ...event.DomainEvent) error {
				return errors.New("broker unavailable")
			},
		}
		uc := usecase.NewRegisterUserUseCase(&mockUserRepository{}, publisher)

		resp, err := uc.Execute(context.Background(), dto.RegisterUserRequest{Email: "carol@example.com"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.APIKey)
	})
}

func TestListUsersUseCase_Execute(t *testing.T) {
	userRepo := &mockUserRepository{
		listFunc: func(_ context.Context) ([]model.User, error) {
			return []model.User{
				existingUser("user-1", "a@example.com"),
				existingUser("user-2", "b@example.com"),
			}, nil
		},
	}
	uc := usecase.NewListUsersUseCase(userRepo)

	users, err := uc.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user-1", users[0].ID)
	assert.Equal(t, "b@example.com", users[1].Email)
}

func TestAuthenticateUseCase_Execute(t *testing.T) {
	key := valueobject.ParseAPIKey("secret-key")
	userRepo := &mockUserRepository{
		findByAPIKeyHashFunc: func(_ context.Context, hash string) (model.User, error) {
			if hash == key.Hash() {
				return existingUser("user-1", "a@example.com"), nil
			}
			return model.User{}, domain.ErrNotFound("no user for key")
		},
	}
	uc := usecase.NewAuthenticateUseCase(userRepo)

	t.Run("valid key", func(t *testing.T) {
		user, err := uc.Execute(context.Background(), dto.AuthenticateRequest{APIKey: "secret-key"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	for name, raw := range map[string]string{"missing key": "", "unknown key": "guess"} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), dto.AuthenticateRequest{APIKey: raw})
			var unauth *domain.UnauthenticatedError
			assert.True(t, errors.As(err, &unauth), "got %v", err)
		})
	}

	t.Run("repository failure is not reported as bad credentials", func(t *testing.T) {
		failing := usecase.NewAuthenticateUseCase(&mockUserRepository{
			findByAPIKeyHashFunc: func(_ context.Context, _ string) (model.User, error) {
				return model.User{}, errors.New("timeout")
			},
		})
		_, err := failing.Execute(context.Background(), dto.AuthenticateRequest{APIKey: "secret-key"})
		require.Error(t, err)
		var unauth *domain.UnauthenticatedError
		assert.False(t, errors.As(err, &unauth))
	})
}
