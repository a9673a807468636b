package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/bibbank/amortization/pkg/postgres"
)

// Postgres is a migrated PostgreSQL instance with an open pool.
type Postgres struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres runs postgres:16-alpine, applies the migrations under dir in
// fsys and returns a pool connected to it.
func StartPostgres(ctx context.Context, t *testing.T, fsys fs.FS, dir string) *Postgres {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("amortization"),
		postgres.WithUsername("amortization"),
		postgres.WithPassword("amortization"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	terminateOnCleanup(t, "postgres", container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if err := pkgpostgres.RunEmbeddedMigrations(dsn, fsys, dir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pkgpostgres.NewPoolFromDSN(ctx, dsn, 10, 0)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &Postgres{DSN: dsn, Pool: pool}
}
