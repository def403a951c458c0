package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/duels")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("DUEL_SYNC_INTERVAL", "90s")
	t.Setenv("R2_BUCKET_NAME", "archive")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/duels" || cfg.JWTSecret != "secret" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.DuelSyncInterval != 90*time.Second {
		t.Errorf("Expected 90s interval, got %s", cfg.DuelSyncInterval)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("Expected default JWT TTL, got %s", cfg.JWTTTL)
	}
	if cfg.R2.Bucket != "archive" {
		t.Errorf("Expected R2 bucket from env, got %q", cfg.R2.Bucket)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "database_url: postgres://file/db\njwt_secret: from-file\nallowed_origins: \"https://a.example, https://b.example\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(viper.New(), dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.JWTSecret != "from-file" {
		t.Errorf("Expected secret from file, got %q", cfg.JWTSecret)
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", origins)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error for empty config")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}

	cfg.DatabaseURL = "postgres://x"
	cfg.JWTSecret = "s"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
