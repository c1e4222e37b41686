package backend

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus/internal/accounts"
	"campus/internal/config"
	"campus/internal/handler"
	"campus/internal/registry"
	"campus/internal/session"
	"campus/internal/store"
	"campus/internal/students"
)

// Stores holds whichever datastore connections the configured backends need.
type Stores struct {
	kind   string
	db     *store.DB
	schema *gate
	mongo *store.Mongo
	redis *store.Redis
}

// Open connects the datastore named by cfg.StoreBackend. Unreachable
// databases are logged and the app starts degraded; /healthz reports it and
// repositories refuse calls with ErrNotReady until the schema is in place.
func Open(cfg config.App) (*Stores, error) {
	s := &Stores{kind: cfg.StoreBackend}
	switch cfg.StoreBackend {
	case "postgres":
		db, err := store.NewDB(cfg.DatabaseURL)
		if db == nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.db = db
		s.schema = newGate("postgres schema", db.EnsureSchema)
		if err != nil {
			log.Printf("warning: db not reachable, migrations deferred: %v", err)
			break
		}
		if err := s.schema.ready(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
	case "mongo":
		m, err := store.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
		if m == nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		s.mongo = m
		if err != nil {
			log.Printf("warning: mongo not reachable: %v", err)
		}
	case "memory":
		log.Println("using in-memory store; data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return s, nil
}

// Accounts returns the credential repository for the configured backend.
func (s *Stores) Accounts(ctx context.Context) accounts.Repository {
	switch s.kind {
	case "postgres":
		return gatedAccounts{gate: s.schema, repo: accounts.NewPostgresRepository(s.db.Client)}
	case "mongo":
		repo := accounts.NewMongoRepository(s.mongo.Database)
		return gatedAccounts{gate: s.indexGate(ctx, "credentials index", repo.EnsureIndexes), repo: repo}
	default:
		return accounts.NewMemoryRepository()
	}
}

// Registrations returns the upload registration repository.
func (s *Stores) Registrations(ctx context.Context) registry.Repository {
	switch s.kind {
	case "postgres":
		return gatedRegistry{gate: s.schema, repo: registry.NewPostgresRepository(s.db.Client)}
	case "mongo":
		repo := registry.NewMongoRepository(s.mongo.Database)
		return gatedRegistry{gate: s.indexGate(ctx, "users index", repo.EnsureIndexes), repo: repo}
	default:
		return registry.NewMemoryRepository()
	}
}

// Students returns the student repository.
func (s *Stores) Students() students.Repository {
	switch s.kind {
	case "postgres":
		return gatedStudents{gate: s.schema, repo: students.NewPostgresRepository(s.db.Client)}
	case "mongo":
		return students.NewMongoRepository(s.mongo.Database)
	default:
		return students.NewMemoryRepository()
	}
}

// indexGate tries to build a unique index now and, failing that, on every
// later call until it exists.
func (s *Stores) indexGate(ctx context.Context, name string, ensure func(context.Context) error) *gate {
	g := newGate(name, ensure)
	if err := g.ready(ctx); err != nil {
		log.Printf("warning: %v; retrying on first use", err)
	}
	return g
}

// Sessions returns the session store named by cfg.SessionBackend.
func (s *Stores) Sessions(cfg config.App) (session.Store, error) {
	switch cfg.SessionBackend {
	case "redis":
		s.redis = store.NewRedis(cfg.RedisAddr)
		return session.NewRedisStore(s.redis.Client, cfg.SessionTTL), nil
	case "memory":
		return session.NewMemoryStore(cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
}

// Checks reports health for every connection opened so far.
func (s *Stores) Checks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{}
	if s.db != nil {
		checks["db"] = s.db.Healthy
	}
	if s.mongo != nil {
		checks["mongo"] = s.mongo.Healthy
	}
	if s.redis != nil {
		checks["redis"] = s.redis.Healthy
	}
	return checks
}

// Close releases every open connection.
func (s *Stores) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.mongo.Close(ctx)
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}
