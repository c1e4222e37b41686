package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !mr.Exists(keyPrefix + sess.ID) {
		t.Fatalf("key %s not written", keyPrefix+sess.ID)
	}
	if ttl := mr.TTL(keyPrefix + sess.ID); ttl != time.Hour {
		t.Errorf("ttl = %s, want 1h", ttl)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want alice", got.Username)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreExpiresAfterTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "bob")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(59 * time.Minute)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("session gone before ttl: %v", err)
	}

	mr.FastForward(time.Minute)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after 1h", err)
	}
}

func TestRedisStoreUnknownID(t *testing.T) {
	store, _ := newRedisStore(t)
	for _, id := range []string{"", "does-not-exist"} {
		if _, err := store.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	sess, err := store.Create(ctx, "carol")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sess.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %s, want %s", sess.ExpiresAt, now.Add(time.Hour))
	}

	now = now.Add(59*time.Minute + 59*time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound at expiry", err)
	}
}

func TestCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetCookie(rr, Session{ID: "abc"}, time.Hour, true)
	ClearCookie(rr, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	set := cookies[0]
	if set.Name != CookieName || set.Value != "abc" || set.MaxAge != 3600 || !set.HttpOnly || !set.Secure {
		t.Errorf("unexpected session cookie: %+v", set)
	}
	if set.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", set.SameSite)
	}
	if cleared := cookies[1]; cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("clear cookie not expired: %+v", cleared)
	}
}
