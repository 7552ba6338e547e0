package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: eatery
  password: secret
  database: silogan
rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest
server:
  port: 8080
auth:
  jwt_secret: test-secret
  token_ttl_hours: 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLHours != 12 {
		t.Errorf("token ttl = %d, want 12", cfg.Auth.TokenTTLHours)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db
auth:
  jwt_secret: test-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("default server port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLHours != 24 {
		t.Errorf("default token ttl = %d, want 24", cfg.Auth.TokenTTLHours)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db
`)
	if _, err := Load(path); err == nil {
		t.Error("config without auth.jwt_secret should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
