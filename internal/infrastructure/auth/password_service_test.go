package auth

import (
	"strings"
	"testing"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	if !svc.Verify(hash, "secret1") {
		t.Error("expected correct password to verify")
	}
	if svc.Verify(hash, "wrong") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := NewPasswordService()

	first, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// Per-hash salts: the same plaintext never produces the same hash.
	if first == second {
		t.Error("expected distinct hashes for the same plaintext")
	}
}

func TestNewPasswordServiceWithCost_RejectsOutOfRange(t *testing.T) {
	svc := NewPasswordServiceWithCost(99)

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !svc.Verify(hash, "secret1") {
		t.Error("expected hash from clamped cost to verify")
	}
}
