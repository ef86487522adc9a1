package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("API_BASE_URL")
	os.Unsetenv("API_TOKEN")
	os.Unsetenv("HTTP_TIMEOUT_SECONDS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:4000" {
		t.Errorf("expected localhost fallback, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeoutSeconds != 10 {
		t.Errorf("expected default timeout 10, got %d", cfg.HTTPTimeoutSeconds)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("API_BASE_URL", "https://billing.example.com")
	defer os.Unsetenv("API_BASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://billing.example.com" {
		t.Errorf("expected API_BASE_URL from env, got %s", cfg.APIBaseURL)
	}
}

func TestValidate_RejectsBadScheme(t *testing.T) {
	c := &Config{APIBaseURL: "ftp://example.com", HTTPTimeoutSeconds: 10}
	if err := c.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestValidate_RejectsEmptyBaseURL(t *testing.T) {
	c := &Config{HTTPTimeoutSeconds: 10}
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
