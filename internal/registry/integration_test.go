package registry

import (
	"context"
	"testing"

	"campus/internal/storetest"
)

func TestPostgresRepository(t *testing.T) {
	db := storetest.Postgres(t)
	testRepository(t, NewPostgresRepository(db.Client))
}

func TestMongoRepository(t *testing.T) {
	repo := NewMongoRepository(storetest.Mongo(t))
	for i := 0; i < 2; i++ {
		if err := repo.EnsureIndexes(context.Background()); err != nil {
			t.Fatalf("ensure indexes (call %d): %v", i+1, err)
		}
	}
	testRepository(t, repo)
}
