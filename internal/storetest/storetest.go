// Package storetest starts throwaway Postgres and MongoDB containers for
// repository tests. Tests skip unless TEST_INTEGRATION is set and a Docker
// provider is reachable.
package storetest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"campus/internal/store"
)

func requireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// Postgres returns a migrated database in a fresh container.
func Postgres(t *testing.T) *store.DB {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("campus_test"),
		postgres.WithUsername("campus"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	conn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	db, err := store.NewDB(conn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Mongo returns an empty database in a fresh container.
func Mongo(t *testing.T) *mongo.Database {
	t.Helper()
	requireDocker(t)
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "docker.io/mongo:7")
	if err != nil {
		t.Fatalf("start mongo container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo connection string: %v", err)
	}
	m, err := store.NewMongo(uri, "campus_"+strings.ReplaceAll(uuid.NewString(), "-", ""))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = m.Close(ctx) })
	return m.Database
}
