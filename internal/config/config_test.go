package config

import (
	"strings"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		Port:          8080,
		DBPath:        "./data/test.db",
		LogLevel:      "info",
		LogFormat:     "text",
		JWTSecret:     secret,
		TokenTTL:      time.Hour,
		AllowedOrigin: "*",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		errorString string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "uppercase log level", modify: func(c *Config) { c.LogLevel = "DEBUG" }},
		{
			name:        "port out of range",
			modify:      func(c *Config) { c.Port = 70000 },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty db path",
			modify:      func(c *Config) { c.DBPath = " " },
			errorString: "DB_PATH cannot be empty",
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "trace" },
			errorString: "invalid log level 'trace'",
		},
		{
			name:        "unknown log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "short secret",
			modify:      func(c *Config) { c.JWTSecret = "short" },
			errorString: "JWT_SECRET must be at least 32 bytes",
		},
		{
			name:        "tiny token ttl",
			modify:      func(c *Config) { c.TokenTTL = time.Second },
			errorString: "invalid token TTL 1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.JWTSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid port 0") || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("expected both problems reported, got %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", secret)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Port != 8080 {
			t.Errorf("Port = %d, want 8080", cfg.Port)
		}
		if cfg.DBPath != "./data/exsplitter.db" {
			t.Errorf("DBPath = %q", cfg.DBPath)
		}
		if cfg.TokenTTL != 720*time.Hour {
			t.Errorf("TokenTTL = %v, want 720h", cfg.TokenTTL)
		}
		if cfg.AllowedOrigin != "*" {
			t.Errorf("AllowedOrigin = %q, want *", cfg.AllowedOrigin)
		}
		if cfg.Addr() != ":8080" {
			t.Errorf("Addr = %q, want :8080", cfg.Addr())
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", secret)
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("TOKEN_TTL", "2h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Port != 9090 || cfg.LogFormat != "json" || cfg.TokenTTL != 2*time.Hour {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatal("expected error without JWT_SECRET")
		}
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("JWT_SECRET", secret)
		t.Setenv("PORT", "abc")
		if _, err := Load(); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
