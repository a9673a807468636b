package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/pkg/money"
	pkgpostgres "github.com/bibbank/amortization/pkg/postgres"
)

const loanColumns = `id, owner_id, principal, annual_rate, term_months, currency, created_at`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save inserts a new loan together with any grants it already carries.
// Loan terms are immutable, so an existing row is never updated.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO loans (`+loanColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`,
			loan.ID(), loan.OwnerID(),
			loan.Principal().Amount(), loan.AnnualRate(), loan.TermMonths(),
			loan.Currency(), loan.CreatedAt(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == constraintLoanOwner {
				return domain.ErrNotFound("owner %s not found", loan.OwnerID())
			}
			return fmt.Errorf("insert loan: %w", err)
		}

		for _, userID := range loan.SharedWith() {
			if err := addShare(ctx, tx, loan.ID(), userID); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a loan and its grants.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	rec, err := scanLoanRow(row)
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return model.Loan{}, domain.ErrNotFound("loan %s not found", id)
		}
		return model.Loan{}, fmt.Errorf("query loan: %w", err)
	}

	shares, err := r.loadShares(ctx, []string{rec.id})
	if err != nil {
		return model.Loan{}, err
	}
	return rec.toModel(shares[rec.id])
}

// FindAccessibleBy returns loans owned by or shared with userID, newest first.
func (r *LoanRepo) FindAccessibleBy(ctx context.Context, userID string) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans l
		WHERE l.owner_id = $1
		   OR EXISTS (SELECT 1 FROM loan_shares s WHERE s.loan_id = l.id AND s.user_id = $1)
		ORDER BY l.created_at DESC, l.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var recs []loanRecord
	for rows.Next() {
		rec, err := scanLoanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.id
	}
	shares, err := r.loadShares(ctx, ids)
	if err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0, len(recs))
	for _, rec := range recs {
		loan, err := rec.toModel(shares[rec.id])
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// AddShare grants userID access. The primary key on (loan_id, user_id) makes
// concurrent and repeated grants safe.
func (r *LoanRepo) AddShare(ctx context.Context, loanID, userID string) error {
	return addShare(ctx, r.pool, loanID, userID)
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func addShare(ctx context.Context, q pkgpostgres.Querier, loanID, userID string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO loan_shares (loan_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (loan_id, user_id) DO NOTHING
	`, loanID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound("loan %s or user %s not found", loanID, userID)
		}
		return fmt.Errorf("insert share: %w", err)
	}
	return nil
}

func (r *LoanRepo) loadShares(ctx context.Context, loanIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT loan_id, user_id
		FROM loan_shares
		WHERE loan_id = ANY($1::uuid[])
		ORDER BY created_at, user_id
	`, loanIDs)
	if err != nil {
		return nil, fmt.Errorf("query shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var loanID, userID string
		if err := rows.Scan(&loanID, &userID); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		out[loanID] = append(out[loanID], userID)
	}
	return out, rows.Err()
}

type loanRecord struct {
	id         string
	ownerID    string
	principal  decimal.Decimal
	annualRate decimal.Decimal
	termMonths int
	currency   string
	createdAt  time.Time
}

func scanLoanRow(s scannable) (loanRecord, error) {
	var rec loanRecord
	err := s.Scan(
		&rec.id, &rec.ownerID,
		&rec.principal, &rec.annualRate, &rec.termMonths,
		&rec.currency, &rec.createdAt,
	)
	return rec, err
}

func (rec loanRecord) toModel(sharedWith []string) (model.Loan, error) {
	cur, err := money.NewCurrency(rec.currency)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", rec.id, err)
	}
	return model.ReconstructLoan(
		rec.id, rec.ownerID,
		money.New(rec.principal, cur),
		rec.annualRate, rec.termMonths,
		sharedWith, rec.createdAt.UTC(),
	), nil
}
