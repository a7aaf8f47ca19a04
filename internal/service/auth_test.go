package service

import (
	"errors"
	"testing"
)

func TestJWT_RoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := IssueJWT(42, "guest_42")
	if err != nil {
		t.Fatalf("не удалось выдать токен: %v", err)
	}

	userID, username, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("валидный токен отвергнут: %v", err)
	}
	if userID != 42 || username != "guest_42" {
		t.Fatalf("идентичность не совпала: %d %q", userID, username)
	}
}

func TestJWT_Tampered(t *testing.T) {
	InitJWT("test-secret")

	token, err := IssueJWT(42, "guest_42")
	if err != nil {
		t.Fatalf("не удалось выдать токен: %v", err)
	}

	if _, _, err := ParseJWT(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ожидался ErrInvalidToken, получили %v", err)
	}
	if _, _, err := ParseJWT("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ожидался ErrInvalidToken, получили %v", err)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := IssueJWT(7, "guest_7")
	if err != nil {
		t.Fatalf("не удалось выдать токен: %v", err)
	}

	// токен, подписанный другим секретом, не проходит
	InitJWT("secret-two")
	if _, _, err := ParseJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ожидался ErrInvalidToken, получили %v", err)
	}
}
