// Package config handles application configuration via environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configurable values for the app.
type Config struct {
	Env  string
	Port string

	// Obrigatórios: sem banco e sem provedor de identidade o serviço
	// não tem o que fazer.
	DatabaseURL        string
	SupabaseURL        string
	SupabaseServiceKey string

	// Opcionais: eventos e notificação de import.
	RabbitMQURL       string
	MailHost          string
	MailPort          int
	MailUser          string
	MailPass          string
	ImportNotifyEmail string

	AllowedOrigins []string
}

// Load reads environment variables and populates a Config struct.
// Variáveis obrigatórias ausentes derrubam o processo na subida.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		MailHost:           os.Getenv("MAIL_HOST"),
		MailUser:           os.Getenv("MAIL_USER"),
		MailPass:           os.Getenv("MAIL_PASS"),
		ImportNotifyEmail:  os.Getenv("IMPORT_NOTIFY_EMAIL"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.SupabaseServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	mailPort, err := strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAIL_PORT: %w", err)
	}
	cfg.MailPort = mailPort

	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
