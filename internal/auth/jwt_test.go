package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "campus-test"
)

func signExpired(t *testing.T, username string, issuedAgo time.Duration) string {
	t.Helper()
	issued := time.Now().Add(-issuedAgo)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("alice", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(tok.ExpiresAt); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %s, want ~1h", d)
	}

	claims, err := Parse(tok.Value, testKey, testIssuer)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "alice" || claims.Subject != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestIssueDefaultsTTL(t *testing.T) {
	tok, err := Issue("alice", testIssuer, testKey, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(tok.ExpiresAt); d < 59*time.Minute {
		t.Errorf("default ttl gave expiry in %s", d)
	}
}

func TestParseRejects(t *testing.T) {
	valid, err := Issue("alice", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "alice"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"expired after one hour", signExpired(t, "alice", time.Hour+time.Second), testKey, testIssuer},
		{"wrong key", valid.Value, "other-key", testIssuer},
		{"wrong issuer", valid.Value, testKey, "someone-else"},
		{"unsigned", none, testKey, ""},
		{"garbage", "not.a.jwt", testKey, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.token, tt.key, tt.issuer); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseAcceptsJustBeforeExpiry(t *testing.T) {
	tok := signExpired(t, "alice", 59*time.Minute)
	if _, err := Parse(tok, testKey, testIssuer); err != nil {
		t.Errorf("token rejected before expiry: %v", err)
	}
}

func TestTokenCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	SetTokenCookie(rr, Token{Value: "v", ExpiresAt: time.Now().Add(time.Hour)}, false)
	c := rr.Result().Cookies()[0]
	if c.Name != TokenCookie || !c.HttpOnly || c.MaxAge < 3590 || c.MaxAge > 3600 {
		t.Errorf("unexpected token cookie: %+v", c)
	}
}
