package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
)

// UserRepo is an in-memory port.UserRepository.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
	byHash  map[string]string
}

// NewUserRepo creates an empty repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
		byHash:  make(map[string]string),
	}
}

// Save inserts a user, enforcing unique email and key hash.
func (r *UserRepo) Save(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := user.Email().String()
	if id, taken := r.byEmail[email]; taken && id != user.ID() {
		return domain.ErrConflict("email %s is already registered", email)
	}
	if id, taken := r.byHash[user.APIKeyHash()]; taken && id != user.ID() {
		return domain.ErrConflict("api key collision")
	}

	r.byID[user.ID()] = user
	r.byEmail[email] = user.ID()
	r.byHash[user.APIKeyHash()] = user.ID()
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail[email])
}

func (r *UserRepo) FindByAPIKeyHash(_ context.Context, hash string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byHash[hash])
}

// List returns users in registration order.
func (r *UserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

// lookup must be called with the read lock held.
func (r *UserRepo) lookup(id string) (model.User, error) {
	u, ok := r.byID[id]
	if !ok || id == "" {
		return model.User{}, domain.ErrNotFound("user not found")
	}
	return u, nil
}
