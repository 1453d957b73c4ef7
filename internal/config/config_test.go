package config

import (
	"os"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// DatabaseConfig.GetDSN
// ---------------------------------------------------------------------------

func TestGetDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard config",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "onboarding",
				Password: "secret",
				Name:     "network_onboarding",
				SSLMode:  "require",
			},
			want: "host=localhost port=5432 user=onboarding password=secret dbname=network_onboarding sslmode=require",
		},
		{
			name: "disable ssl mode",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "admin",
				Password: "pass",
				Name:     "mydb",
				SSLMode:  "disable",
			},
			want: "host=db.example.com port=5433 user=admin password=pass dbname=mydb sslmode=disable",
		},
		{
			name: "empty password",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "user",
				Password: "",
				Name:     "dbname",
				SSLMode:  "prefer",
			},
			want: "host=localhost port=5432 user=user password= dbname=dbname sslmode=prefer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.GetDSN()
			if got != tt.want {
				t.Errorf("GetDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ServerConfig.GetAddress
// ---------------------------------------------------------------------------

func TestGetAddress(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{"default", ServerConfig{Host: "0.0.0.0", Port: 4000}, "0.0.0.0:4000"},
		{"localhost", ServerConfig{Host: "localhost", Port: 3000}, "localhost:3000"},
		{"empty host", ServerConfig{Host: "", Port: 4000}, ":4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetAddress(); got != tt.want {
				t.Errorf("GetAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("server.port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Database.MaxConnections != 25 {
		t.Errorf("database.max_connections = %d, want 25", cfg.Database.MaxConnections)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("auth.token_ttl = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Notifications.QueueSize != 256 {
		t.Errorf("notifications.queue_size = %d, want 256", cfg.Notifications.QueueSize)
	}
	// Dev mode generates a per-process secret when none is configured.
	if cfg.Auth.JWTSecret == "" {
		t.Error("expected auto-generated JWT secret in dev mode")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEV_MODE", "true")
	t.Setenv("NOB_SERVER_PORT", "5001")
	t.Setenv("NOB_DATABASE_HOST", "pg.internal")
	t.Setenv("NOB_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("PASSWORD_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 5001 {
		t.Errorf("server.port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Database.Host != "pg.internal" {
		t.Errorf("database.host = %q, want pg.internal", cfg.Database.Host)
	}
	if cfg.Auth.JWTSecret != "0123456789abcdef0123456789abcdef" {
		t.Errorf("unexpected jwt secret %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.PasswordEncryptionKey != "0123456789abcdef0123456789abcdef" {
		t.Errorf("PASSWORD_ENCRYPTION_KEY not bound, got %q", cfg.Auth.PasswordEncryptionKey)
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	os.Unsetenv("DEV_MODE")
	os.Unsetenv("GIN_MODE")
	os.Unsetenv("NOB_AUTH_JWT_SECRET")

	if _, err := Load(""); err == nil {
		t.Error("expected error when NOB_AUTH_JWT_SECRET is unset outside dev mode")
	}
}
