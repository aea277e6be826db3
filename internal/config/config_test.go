package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "5001" {
		t.Errorf("Port = %q, want 5001", cfg.Port)
	}
	if cfg.OutputDir != "./test_sessions" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if cfg.RelayPingInterval != 30*time.Second {
		t.Errorf("RelayPingInterval = %v", cfg.RelayPingInterval)
	}
	if !cfg.SessionIndex {
		t.Error("SessionIndex disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("OUTPUT_DIR", "/var/sessions")
	t.Setenv("SESSION_INDEX_ENABLED", "false")
	t.Setenv("RELAY_PING_INTERVAL", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.OutputDir != "/var/sessions" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.SessionIndex {
		t.Error("SessionIndex = true, want disabled")
	}
	if cfg.RelayPingInterval != 10*time.Second {
		t.Errorf("RelayPingInterval = %v, want 10s from a bare integer", cfg.RelayPingInterval)
	}
}

func TestLoadDurationString(t *testing.T) {
	t.Setenv("RELAY_PING_INTERVAL", "1m30s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RelayPingInterval != 90*time.Second {
		t.Errorf("RelayPingInterval = %v, want 1m30s", cfg.RelayPingInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Port: "5001", OutputDir: "./out", DBPath: "./x.db", RelayPingInterval: time.Second, SessionIndex: true},
		},
		{
			name:    "empty port",
			cfg:     Config{OutputDir: "./out", RelayPingInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "empty output dir",
			cfg:     Config{Port: "5001", RelayPingInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "index enabled without db path",
			cfg:     Config{Port: "5001", OutputDir: "./out", RelayPingInterval: time.Second, SessionIndex: true},
			wantErr: true,
		},
		{
			name: "index disabled without db path",
			cfg:  Config{Port: "5001", OutputDir: "./out", RelayPingInterval: time.Second},
		},
		{
			name:    "non-positive ping interval",
			cfg:     Config{Port: "5001", OutputDir: "./out", RelayPingInterval: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "")

	dev := Config{AllowedOrigin: "*"}
	if !dev.IsDevelopment() {
		t.Error("wildcard origin should be development")
	}
	local := Config{AllowedOrigin: "http://localhost:3000"}
	if !local.IsDevelopment() {
		t.Error("localhost origin should be development")
	}
	prod := Config{AllowedOrigin: "https://app.example.com"}
	if prod.IsDevelopment() {
		t.Error("remote origin should not be development")
	}

	t.Setenv("APP_ENV", "production")
	if dev.IsDevelopment() {
		t.Error("APP_ENV=production overrides the origin heuristic")
	}
}
