package auth

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.GenerateToken(42, "alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("token should carry a jti")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer, err := NewService("secret-one")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	verifier, err := NewService("secret-two")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := issuer.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestEmptySecretGenerated(t *testing.T) {
	svc, err := NewService("")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	token, err := svc.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err != nil {
		t.Errorf("token from a generated secret should validate: %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	svc, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	hash, err := svc.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := svc.CheckPassword(hash, "secret123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCanManage(t *testing.T) {
	admin := &Claims{UserID: 1, Role: "admin"}
	user := &Claims{UserID: 2, Role: "user"}

	if !CanManage(admin, 99) {
		t.Error("admins manage anyone")
	}
	if !CanManage(user, 2) {
		t.Error("users manage themselves")
	}
	if CanManage(user, 3) {
		t.Error("users must not manage others")
	}
	if CanManage(nil, 3) {
		t.Error("nil claims manage nothing")
	}
}
