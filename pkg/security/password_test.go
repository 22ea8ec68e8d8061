package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/juniorgolf-backend/pkg/config"
	"github.com/angelmondragon/juniorgolf-backend/pkg/security"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{BcryptCost: 12}

	hash, err := security.HashPassword("VerySecure1", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("VerySecure1", hash)
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

func TestHashPasswordEnforcesMinimumCost(t *testing.T) {
	hash, err := security.HashPassword("VerySecure1", config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost < config.MinBcryptCost {
		t.Fatalf("expected cost >= %d, got %d", config.MinBcryptCost, cost)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestHashAndVerifyPin(t *testing.T) {
	cfg := config.PasswordConfig{BcryptCost: 12}

	if _, err := security.HashPin("12a4", cfg); err == nil {
		t.Fatal("expected non-numeric pin to be rejected")
	}

	hash, err := security.HashPin("1234", cfg)
	if err != nil {
		t.Fatalf("HashPin returned error: %v", err)
	}
	if ok, _ := security.VerifyPin("1234", hash); !ok {
		t.Fatal("VerifyPin failed for the correct pin")
	}
	if ok, _ := security.VerifyPin("4321", hash); ok {
		t.Fatal("VerifyPin returned true for the wrong pin")
	}
}

func TestIsValidPin(t *testing.T) {
	cases := map[string]bool{
		"1234":  true,
		"0000":  true,
		"123":   false,
		"12345": false,
		"12a4":  false,
		"":      false,
		"١٢٣٤":  false,
	}
	for pin, want := range cases {
		if got := security.IsValidPin(pin); got != want {
			t.Fatalf("pin %q expected %v got %v", pin, want, got)
		}
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Password1", true},
		{"Short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
		{"A1" + strings.Repeat("a", 71), false},
	}
	for _, tc := range cases {
		err := security.CheckPasswordStrength(tc.password)
		if (err == nil) != tc.ok {
			t.Fatalf("password %q expected ok=%v got err=%v", tc.password, tc.ok, err)
		}
	}
}

func TestRefreshTokenGenerationAndHash(t *testing.T) {
	a, err := security.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, _ := security.GenerateRefreshToken()
	if len(a) != 128 {
		t.Fatalf("expected 128 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}

	h1 := security.HashRefreshToken(a, "pepper")
	if h1 != security.HashRefreshToken(a, "pepper") {
		t.Fatal("hash must be deterministic")
	}
	if h1 == security.HashRefreshToken(a, "other-pepper") {
		t.Fatal("hash must depend on pepper")
	}
	if h1 == a {
		t.Fatal("hash must differ from the raw token")
	}
}
