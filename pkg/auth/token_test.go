package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "vitalshop",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	adminID := uuid.New()

	payload := AccessTokenPayload{
		AdminID: adminID,
		Email:   "owner@example.com",
		Role:    enums.AdminRoleOwner,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.AdminID != adminID {
		t.Fatalf("expected admin_id %s, got %s", adminID, claims.AdminID)
	}
	if claims.Email != "owner@example.com" {
		t.Fatalf("email not preserved, got %q", claims.Email)
	}
	if claims.Role != enums.AdminRoleOwner {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenRejectsUnknownRole(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "vitalshop",
		ExpirationMinutes: 30,
	}
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRole("superuser"),
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "vitalshop",
		ExpirationMinutes: 10,
	}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "vitalshop",
		ExpirationMinutes: 1,
	}
	past := time.Now().Add(-time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token error")
	}
}
