package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa toda la configuración del servicio, leída de env vars.
type Config struct {
	// HTTP
	Port string

	// Storage: si DBDSN está seteado se usa Postgres; si no, BadgerPath;
	// si tampoco, memoria.
	DBDSN      string
	BadgerPath string

	// Auth (proveedor de identidad). Si AuthBaseURL está vacío => modo dev.
	AuthBaseURL      string
	AuthAPIKey       string
	AuthAPIKeyHeader string
	AuthTimeout      time.Duration

	// Recordatorios
	PushoverAPIToken string
	ReminderCron     string
}

// FromEnv lee la configuración desde env vars con defaults razonables:
// - PORT=8080
// - DB_DSN / BADGER_PATH (opcionales)
// - AUTH_BASE_URL / AUTH_API_KEY / AUTH_API_KEY_HEADER / AUTH_TIMEOUT_SECONDS
// - PUSHOVER_API_TOKEN (si está vacío, no se arranca el scheduler)
// - REMINDER_CRON (default "*/5 * * * *")
func FromEnv() Config {
	return Config{
		Port:             envOr("PORT", "8080"),
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		BadgerPath:       strings.TrimSpace(os.Getenv("BADGER_PATH")),
		AuthBaseURL:      strings.TrimSpace(os.Getenv("AUTH_BASE_URL")),
		AuthAPIKey:       strings.TrimSpace(os.Getenv("AUTH_API_KEY")),
		AuthAPIKeyHeader: strings.TrimSpace(os.Getenv("AUTH_API_KEY_HEADER")),
		AuthTimeout:      time.Duration(envInt("AUTH_TIMEOUT_SECONDS", 5)) * time.Second,
		PushoverAPIToken: strings.TrimSpace(os.Getenv("PUSHOVER_API_TOKEN")),
		ReminderCron:     envOr("REMINDER_CRON", "*/5 * * * *"),
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
