package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if cost, err := bcrypt.Cost([]byte(hash)); err != nil || cost != PasswordCost {
		t.Errorf("cost = %d (%v), want %d", cost, err, PasswordCost)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("matching password rejected")
	}
	if CheckPassword(hash, "S3cret") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("not-a-hash", "s3cret") {
		t.Error("malformed hash accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}
