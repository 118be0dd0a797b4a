package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/e-course-backend/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string // sqlite file
	LogLevel string
}

// Config is built once in main and handed to the components that need it.
type Config struct {
	Port        string
	GinMode     string
	DB          DBConfig
	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int
	CORSOrigins []string
	AdminEmails []string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:    get("PORT", "8080"),
		GinMode: get("GIN_MODE", "debug"),
		DB: DBConfig{
			Driver:   strings.ToLower(get("DB_DRIVER", DriverPostgres)),
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD"),
			Name:     get("DB_NAME", "cursos"),
			SSLMode:  get("DB_SSLMODE", "disable"),
			TimeZone: get("DB_TIMEZONE", "UTC"),
			Path:     get("DB_PATH", "cursos.db"),
			LogLevel: strings.ToLower(get("DB_LOG_LEVEL", "warn")),
		},
		JWTSecret:   getenv("JWT_SECRET"),
		JWTTTL:      utils.DefaultTokenTTL,
		BcryptCost:  bcrypt.DefaultCost,
		CORSOrigins: splitList(get("CORS_ORIGINS", "http://localhost:5173")),
		AdminEmails: splitList(getenv("ADMIN_EMAILS")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if v := get("JWT_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("JWT_TTL must be positive, got %s", ttl)
		}
		cfg.JWTTTL = ttl
	}

	if v := get("BCRYPT_COST", ""); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
		cfg.BcryptCost = cost
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
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
