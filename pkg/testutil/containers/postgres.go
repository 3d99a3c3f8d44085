//go:build integration

// Package containers provides shared testcontainers helpers for
// integration-tagged suites.
package containers

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
}

// NewPostgresContainer starts a PostgreSQL container and opens a pgx pool
// against it. The container and pool are torn down via t.Cleanup.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("claims_test"),
		tcpostgres.WithUsername("claims"),
		tcpostgres.WithPassword("claims"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open pgx pool: %v", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{
		Container:  container,
		ConnString: connString,
		Pool:       pool,
	}
}

// TruncateTables empties the given tables. Use between tests to ensure
// isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	_, err := p.Pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", "))
	return err
}
