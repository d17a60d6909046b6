package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	GinMode       string
	SessionSecret string
	AdminEmails   []string
	CORSOrigins   []string

	Database struct {
		URL          string
		MaxOpenConns int
		MaxIdleConns int
	}

	TMDB struct {
		APIKey   string
		BaseURL  string
		CacheTTL time.Duration
	}

	LLM struct {
		BaseURL string
		Token   string
		Model   string
	}
}

var AppConfig *Config

// Load reads .env (if any) and the process environment into AppConfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SESSION_SECRET", "secret_key_change_me")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=plottwisters port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org")
	v.SetDefault("TMDB_CACHE_TTL", "10m")
	v.SetDefault("LLM_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_MODEL", "gpt-4")

	cfg := &Config{
		Port:          v.GetString("PORT"),
		GinMode:       v.GetString("GIN_MODE"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		AdminEmails:   splitList(v.GetString("ADMIN_EMAILS")),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
	}
	cfg.Database.URL = v.GetString("DATABASE_URL")
	cfg.Database.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	cfg.Database.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")

	cfg.TMDB.APIKey = v.GetString("TMDB_API_KEY")
	cfg.TMDB.BaseURL = v.GetString("TMDB_BASE_URL")
	cfg.TMDB.CacheTTL = v.GetDuration("TMDB_CACHE_TTL")

	cfg.LLM.BaseURL = v.GetString("LLM_BASE_URL")
	cfg.LLM.Token = v.GetString("LLM_TOKEN")
	cfg.LLM.Model = v.GetString("LLM_MODEL")

	if cfg.TMDB.APIKey == "" {
		log.Println("TMDB_API_KEY is not set, movie pages will fail")
	}

	AppConfig = cfg
	return cfg
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
