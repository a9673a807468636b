package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/amortization/pkg/postgres"
)

const userColumns = `id, email, name, api_key_hash, created_at`

// UserRepo implements port.UserRepository.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new PostgreSQL-backed user repository.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Save inserts a user. A taken email yields a domain ConflictError.
func (r *UserRepo) Save(ctx context.Context, user model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID(), user.Email().String(), user.Name(), user.APIKeyHash(), user.CreatedAt())
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err, constraintUsersEmail) {
			return domain.ErrConflict("email %s is already registered", user.Email())
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepo) FindByAPIKeyHash(ctx context.Context, hash string) (model.User, error) {
	return r.findOne(ctx, "api_key_hash", hash)
}

// List returns all users in registration order.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// findOne looks a user up by a unique column. column is never user input.
func (r *UserRepo) findOne(ctx context.Context, column, value string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	u, err := scanUserRow(row)
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return model.User{}, domain.ErrNotFound("user not found")
		}
		return model.User{}, err
	}
	return u, nil
}

func scanUserRow(s scannable) (model.User, error) {
	var (
		id, email, name, hash string
		createdAt             time.Time
	)
	if err := s.Scan(&id, &email, &name, &hash, &createdAt); err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	e, err := valueobject.NewEmail(email)
	if err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", id, err)
	}
	return model.ReconstructUser(id, e, name, hash, createdAt.UTC()), nil
}
