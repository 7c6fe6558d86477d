package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireMinutes is the token lifetime in minutes (default 60). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// PokeAPIURL is the base URL of the card catalog source (default https://pokeapi.co/api/v2).
	PokeAPIURL string
	// SeedLimit is how many catalog entries to request when seeding (default 151).
	SeedLimit int
	// SeedRefreshCron is an optional cron expression for periodic catalog refresh.
	// Empty disables the refresh job.
	SeedRefreshCron string

	// RandomCardsCount is how many cards /add-random-cards hands out at most (default 3).
	RandomCardsCount int

	// AllowUnownedClaim controls whether any authenticated user may take an
	// unowned card via /add-card and /trade. Defaults to true.
	AllowUnownedClaim bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "cardsdb"),
		DBUser: getEnv("DB_USER", "cardsuser"),
		DBPass: getEnv("DB_PASS", "cardspass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:        getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60),
		Env:              getEnv("ENV", "dev"),

		PokeAPIURL:      getEnv("POKEAPI_URL", "https://pokeapi.co/api/v2"),
		SeedLimit:       getEnvInt("SEED_LIMIT", 151),
		SeedRefreshCron: getEnv("SEED_REFRESH_CRON", ""),

		RandomCardsCount: getEnvInt("RANDOM_CARDS_COUNT", 3),

		AllowUnownedClaim: getEnvBool("ALLOW_UNOWNED_CLAIM", true),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// DSN returns the postgres connection string for golang-migrate.
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPass + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
