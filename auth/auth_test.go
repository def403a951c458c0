package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, err := tokens.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	other := NewTokens("other-secret", time.Hour)
	forged, _ := other.Issue("user-1", "a@example.com")

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("user-1", "a@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"expired", old},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tokens.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswords(t *testing.T) {
	p := Passwords{Cost: bcrypt.MinCost}
	hash, err := p.Hash("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Check("hunter22", hash) {
		t.Error("Expected matching password to check")
	}
	if p.Check("hunter23", hash) {
		t.Error("Expected wrong password to fail")
	}
}
