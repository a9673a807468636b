package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/valueobject"
	"github.com/bibbank/amortization/pkg/money"
)

// --- Mock implementations ---

type mockLoanRepository struct {
	saveFunc             func(ctx context.Context, loan model.Loan) error
	findByIDFunc         func(ctx context.Context, id string) (model.Loan, error)
	findAccessibleByFunc func(ctx context.Context, userID string) ([]model.Loan, error)
	addShareFunc         func(ctx context.Context, loanID, userID string) error
	savedLoans           []model.Loan
	shares               [][2]string
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, domain.ErrNotFound("loan %s not found", id)
}

func (m *mockLoanRepository) FindAccessibleBy(ctx context.Context, userID string) ([]model.Loan, error) {
	if m.findAccessibleByFunc != nil {
		return m.findAccessibleByFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockLoanRepository) AddShare(ctx context.Context, loanID, userID string) error {
	if m.addShareFunc != nil {
		return m.addShareFunc(ctx, loanID, userID)
	}
	m.shares = append(m.shares, [2]string{loanID, userID})
	return nil
}

type mockUserRepository struct {
	saveFunc             func(ctx context.Context, user model.User) error
	findByEmailFunc      func(ctx context.Context, email string) (model.User, error)
	findByAPIKeyHashFunc func(ctx context.Context, hash string) (model.User, error)
	listFunc             func(ctx context.Context) ([]model.User, error)
	savedUsers           []model.User
}

func (m *mockUserRepository) Save(ctx context.Context, user model.User) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, user)
	}
	m.savedUsers = append(m.savedUsers, user)
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	return model.User{}, domain.ErrNotFound("user %s not found", id)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return model.User{}, domain.ErrNotFound("user %s not found", email)
}

func (m *mockUserRepository) FindByAPIKeyHash(ctx context.Context, hash string) (model.User, error) {
	if m.findByAPIKeyHashFunc != nil {
		return m.findByAPIKeyHashFunc(ctx, hash)
	}
	return model.User{}, domain.ErrNotFound("user not found")
}

func (m *mockUserRepository) List(ctx context.Context) ([]model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return m.savedUsers, nil
}

type mockScheduleCache struct {
	getFunc func(ctx context.Context, loanID string) ([]model.ScheduleEntry, bool, error)
	setFunc func(ctx context.Context, loanID string, schedule []model.ScheduleEntry) error
	sets    int
}

func (m *mockScheduleCache) Get(ctx context.Context, loanID string) ([]model.ScheduleEntry, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, loanID)
	}
	return nil, false, nil
}

func (m *mockScheduleCache) Set(ctx context.Context, loanID string, schedule []model.ScheduleEntry) error {
	m.sets++
	if m.setFunc != nil {
		return m.setFunc(ctx, loanID, schedule)
	}
	return nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Fixtures ---

func existingLoan(sharedWith ...string) model.Loan {
	return model.ReconstructLoan(
		"loan-001", "owner-001",
		money.New(decimal.RequireFromString("1200.00"), money.USD),
		decimal.RequireFromString("0.12"), 12,
		sharedWith,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)
}

func existingUser(id, email string) model.User {
	e, err := valueobject.NewEmail(email)
	if err != nil {
		panic(err)
	}
	return model.ReconstructUser(id, e, "", "hash-"+id, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}
