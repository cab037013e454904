package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	p := NewPasswordServiceForTest(4)

	hash, err := p.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := p.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := p.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	p := NewPasswordServiceForTest(4)

	first, err := p.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := p.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt embeds a random salt, so identical inputs hash differently.
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	p := NewPasswordServiceForTest(4)

	// bcrypt silently truncates past 72 bytes; we reject instead.
	if _, err := p.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() accepted a 73-byte password")
	}
	if _, err := p.Hash(strings.Repeat("x", 72)); err != nil {
		t.Errorf("Hash() rejected a 72-byte password: %v", err)
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	p := NewPasswordServiceForTest(4)

	if err := p.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("Verify() accepted a malformed hash")
	}
}
