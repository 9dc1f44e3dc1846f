package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{BcryptCost: 4}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Fatalf("expected bcrypt hash with cost 4, got %q", hash)
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	cfg := config.PasswordConfig{BcryptCost: 4}
	a, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct salts per hash")
	}
}

func TestHashPasswordRejectsEmptyAndOversized(t *testing.T) {
	if _, err := security.HashPassword("", config.PasswordConfig{}); err == nil {
		t.Fatal("expected error for empty password")
	}
	if _, err := security.HashPassword(strings.Repeat("x", 73), config.PasswordConfig{}); err == nil {
		t.Fatal("expected error for password over 72 bytes")
	}
}

func TestVerifyArgon2idHash(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	hash, err := security.HashArgon2id("legacy-password", cfg)
	if err != nil {
		t.Fatalf("HashArgon2id returned error: %v", err)
	}
	ok, err := security.VerifyPassword("legacy-password", hash)
	if err != nil || !ok {
		t.Fatalf("expected argon hash to verify, ok=%v err=%v", ok, err)
	}
	ok, err = security.VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); !errors.Is(err, security.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for malformed hash, got %v", err)
	}
	if _, err := security.VerifyPassword("irrelevant", "$argon2id$v=19$m=x$salt$hash"); !errors.Is(err, security.ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for malformed argon hash, got %v", err)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(16)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if len(pw) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(pw))
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
