package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/port"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

// RegisterUserUseCase creates an API user and issues their key.
type RegisterUserUseCase struct {
	userRepo  port.UserRepository
	publisher port.EventPublisher
}

// NewRegisterUserUseCase wires dependencies.
func NewRegisterUserUseCase(userRepo port.UserRepository, publisher port.EventPublisher) *RegisterUserUseCase {
	return &RegisterUserUseCase{userRepo: userRepo, publisher: publisher}
}

// Execute registers the user. The raw API key appears only in this response.
func (uc *RegisterUserUseCase) Execute(
	ctx context.Context,
	req dto.RegisterUserRequest,
) (dto.RegisteredUserResponse, error) {
	// 1. Normalize and validate the email.
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return dto.RegisteredUserResponse{}, err
	}

	// 2. Reject duplicates up front; the repository enforces it again on save.
	_, err = uc.userRepo.FindByEmail(ctx, email.String())
	if err == nil {
		return dto.RegisteredUserResponse{}, domain.ErrConflict("email %s is already registered", email)
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return dto.RegisteredUserResponse{}, fmt.Errorf("find user: %w", err)
	}

	// 3. Create the user and key.
	user, key, err := model.NewUser(email, req.Name, time.Now())
	if err != nil {
		return dto.RegisteredUserResponse{}, fmt.Errorf("create user: %w", err)
	}

	// 4. Persist.
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return dto.RegisteredUserResponse{}, fmt.Errorf("save user: %w", err)
	}

	// 5. Publish UserRegistered.
	publishEvents(ctx, uc.publisher, user.DomainEvents())

	return dto.RegisteredUserResponse{
		UserResponse: toUserResponse(user),
		APIKey:       key.String(),
	}, nil
}

// ListUsersUseCase returns all registered users.
type ListUsersUseCase struct {
	userRepo port.UserRepository
}

// NewListUsersUseCase wires dependencies.
func NewListUsersUseCase(userRepo port.UserRepository) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo}
}

// Execute lists users without their key hashes.
func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out, nil
}
