package port

import (
	"context"

	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans. Lookups of unknown IDs return
// a domain NotFoundError.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	// FindAccessibleBy returns loans owned by or shared with userID, newest first.
	FindAccessibleBy(ctx context.Context, userID string) ([]model.Loan, error)
	// AddShare atomically grants userID access to the loan. Granting twice is a no-op.
	AddShare(ctx context.Context, loanID, userID string) error
}

// UserRepository persists and retrieves users. Save returns a domain
// ConflictError when the email is taken.
type UserRepository interface {
	Save(ctx context.Context, user model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByAPIKeyHash(ctx context.Context, hash string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// ScheduleCache stores computed schedules keyed by loan ID. Loan terms are
// immutable so entries never need invalidation. Get reports a miss with
// found == false and a nil error.
type ScheduleCache interface {
	Get(ctx context.Context, loanID string) (schedule []model.ScheduleEntry, found bool, err error)
	Set(ctx context.Context, loanID string, schedule []model.ScheduleEntry) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
