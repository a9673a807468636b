package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

// User is an API caller identified by an API key. Only the key's hash is
// held; the raw key is returned by NewUser and never stored.
type User struct {
	id           string
	email        valueobject.Email
	name         string
	apiKeyHash   string
	createdAt    time.Time
	domainEvents []event.DomainEvent
}

// NewUser registers a user and generates their API key.
func NewUser(email valueobject.Email, name string, now time.Time) (User, valueobject.APIKey, error) {
	key, err := valueobject.GenerateAPIKey()
	if err != nil {
		return User{}, valueobject.APIKey{}, err
	}

	id := uuid.New().String()
	now = now.UTC()
	u := User{
		id:         id,
		email:      email,
		name:       strings.TrimSpace(name),
		apiKeyHash: key.Hash(),
		createdAt:  now,
	}
	u.domainEvents = append(u.domainEvents, event.NewUserRegistered(id, email.String(), now))
	return u, key, nil
}

// ReconstructUser rebuilds a User from persistence.
func ReconstructUser(id string, email valueobject.Email, name, apiKeyHash string, createdAt time.Time) User {
	return User{
		id:         id,
		email:      email,
		name:       name,
		apiKeyHash: apiKeyHash,
		createdAt:  createdAt,
	}
}

func (u User) ID() string                        { return u.id }
func (u User) Email() valueobject.Email          { return u.email }
func (u User) Name() string                      { return u.name }
func (u User) APIKeyHash() string                { return u.apiKeyHash }
func (u User) CreatedAt() time.Time              { return u.createdAt }
func (u User) DomainEvents() []event.DomainEvent { return u.domainEvents }
