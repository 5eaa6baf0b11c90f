package config

import "testing"

func TestValidateDev(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLMin: 480}
	if err := cfg.Validate(); err != nil {
		t.Errorf("dev config without secret should validate: %v", err)
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTLMin: 480}
	if err := cfg.Validate(); err == nil {
		t.Error("production config without JWT_SECRET must fail validation")
	}

	cfg.JWTSecret = "too-short"
	if err := cfg.Validate(); err == nil {
		t.Error("short JWT_SECRET must fail validation")
	}

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Errorf("32-char secret should validate: %v", err)
	}
}

func TestValidateRejectsUnknownEnv(t *testing.T) {
	cfg := &Config{Env: "qa", TokenTTLMin: 480, JWTSecret: "0123456789abcdef0123456789abcdef"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown ENV must fail validation")
	}
}

func TestValidateTokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLMin: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("zero TOKEN_TTL_MINUTES must fail validation")
	}
}
