package store_test

import (
	"context"
	"testing"

	"campus/internal/storetest"
)

func TestEnsureSchemaIsRepeatable(t *testing.T) {
	db := storetest.Postgres(t)
	ctx := context.Background()

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
	for _, table := range []string{"registrations", "credentials", "students"} {
		var n int
		if err := db.Client.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
	if !db.Healthy(ctx) {
		t.Error("migrated db reported unhealthy")
	}
}
