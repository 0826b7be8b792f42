package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// minSecretLength is the minimum byte length accepted for the session
// signing secret (enough entropy for HMAC-SHA256).
const minSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// Database configuration
	Database DatabaseConfig

	// Session configuration
	Session SessionConfig

	// Blog post storage configuration
	Posts PostsConfig

	// Logging configuration
	Logging LoggingConfig
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr string // listen address (host:port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret string // signing secret, required
	Secure bool   // Secure cookie attribute; disable only for local HTTP dev
}

// PostsConfig holds markdown blog storage configuration
type PostsConfig struct {
	Dir string // directory holding .md post files
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables.
// The session signing secret is mandatory: a missing or short SESSION_SECRET
// is a startup error, never silently defaulted.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes, got %d", minSecretLength, len(secret))
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Database URL - default to jokehub.sqlite, allow override for dev
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "jokehub.sqlite"
	}

	postsDir := os.Getenv("POSTS_DIR")
	if postsDir == "" {
		postsDir = "posts"
	}

	// Secure cookies by default; COOKIE_SECURE=false only for plain-HTTP dev
	cookieSecure := true
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COOKIE_SECURE must be a boolean, got %q", v)
		}
		cookieSecure = parsed
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		HTTP: HTTPConfig{
			Addr: addr,
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Session: SessionConfig{
			Secret: secret,
			Secure: cookieSecure,
		},
		Posts: PostsConfig{
			Dir: postsDir,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
