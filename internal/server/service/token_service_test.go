package service

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, "owner@diner.test")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "owner@diner.test" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issued, err := NewTokenService("secret-a", time.Hour).GenerateToken(1, "a@b.test")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := NewTokenService("secret-b", time.Hour).ValidateToken(issued); err == nil {
		t.Fatal("token signed with another secret must not validate")
	}
}

func TestTokenRequiresUserID(t *testing.T) {
	if _, err := NewTokenService("secret", time.Hour).GenerateToken(0, "a@b.test"); err == nil {
		t.Fatal("expected error for zero user id")
	}
}
