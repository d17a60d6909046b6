package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TMDB_CACHE_TTL", "")
	t.Setenv("ADMIN_EMAILS", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org" {
		t.Errorf("Unexpected TMDB base URL %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.CacheTTL != 10*time.Minute {
		t.Errorf("Expected 10m cache TTL, got %v", cfg.TMDB.CacheTTL)
	}
	if cfg.LLM.Model != "gpt-4" {
		t.Errorf("Expected default model gpt-4, got %q", cfg.LLM.Model)
	}
	if AppConfig != cfg {
		t.Error("Expected Load to set AppConfig")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TMDB_CACHE_TTL", "90s")
	t.Setenv("ADMIN_EMAILS", " boss@example.com, ,Ops@Example.com ")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Expected port 9000, got %q", cfg.Port)
	}
	if cfg.TMDB.CacheTTL != 90*time.Second {
		t.Errorf("Expected 90s cache TTL, got %v", cfg.TMDB.CacheTTL)
	}
	if cfg.Database.MaxOpenConns != 7 {
		t.Errorf("Expected 7 open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if len(cfg.AdminEmails) != 2 {
		t.Fatalf("Expected 2 admin emails, got %v", cfg.AdminEmails)
	}
	if !cfg.IsAdminEmail("ops@example.com") {
		t.Error("Expected case-insensitive admin match")
	}
	if cfg.IsAdminEmail("someone@example.com") {
		t.Error("Did not expect someone@example.com to be admin")
	}
}
