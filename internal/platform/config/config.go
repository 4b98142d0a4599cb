package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	defaultServerPort    = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 60 * time.Second
	defaultSignedURLTTL  = 15 * time.Minute
	defaultTokenTTL      = 24 * time.Hour
	defaultUploadMaxSize = int64(10 * 1024 * 1024) // 10 MiB
)

// Config aggregates every runtime setting the API needs.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Uploads  UploadConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig controls the PostgreSQL connection.
type DatabaseConfig struct {
	DSN string
}

// StorageConfig controls the asset bucket and signed URL issuance.
type StorageConfig struct {
	Bucket        string
	SignerKeyFile string
	SignedURLTTL  time.Duration
}

// AuthConfig controls session tokens and Google sign-in.
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	GoogleClientID string
}

// UploadConfig constrains multipart file uploads.
type UploadConfig struct {
	MaxBytes int64
}

// ValidationError lists required settings that were missing or malformed.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: missing or invalid settings: %s", strings.Join(e.Missing, ", "))
}

type loader struct {
	lookup func(string) (string, bool)
}

// Option customises configuration loading.
type Option func(*loader)

// WithLookup replaces the environment lookup function (useful for tests).
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// Load reads configuration from the environment, applying defaults and
// reporting every missing required setting at once.
func Load(opts ...Option) (Config, error) {
	l := &loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	var missing []string

	cfg := Config{
		Server: ServerConfig{
			Port:         l.stringOr("API_SERVER_PORT", defaultServerPort),
			ReadTimeout:  l.durationOr("API_SERVER_READ_TIMEOUT", defaultReadTimeout, &missing),
			WriteTimeout: l.durationOr("API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &missing),
			IdleTimeout:  l.durationOr("API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &missing),
		},
		Database: DatabaseConfig{
			DSN: l.required("API_DATABASE_DSN", &missing),
		},
		Storage: StorageConfig{
			Bucket:        l.required("API_STORAGE_BUCKET", &missing),
			SignerKeyFile: l.stringOr("API_STORAGE_SIGNER_KEY_FILE", ""),
			SignedURLTTL:  l.durationOr("API_STORAGE_SIGNED_URL_TTL", defaultSignedURLTTL, &missing),
		},
		Auth: AuthConfig{
			JWTSecret:      l.required("API_AUTH_JWT_SECRET", &missing),
			TokenTTL:       l.durationOr("API_AUTH_TOKEN_TTL", defaultTokenTTL, &missing),
			GoogleClientID: l.required("API_AUTH_GOOGLE_CLIENT_ID", &missing),
		},
		Uploads: UploadConfig{
			MaxBytes: l.int64Or("API_UPLOAD_MAX_BYTES", defaultUploadMaxSize, &missing),
		},
	}

	if len(missing) > 0 {
		return Config{}, &ValidationError{Missing: missing}
	}
	return cfg, nil
}

func (l *loader) stringOr(key, fallback string) string {
	if value, ok := l.lookup(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func (l *loader) required(key string, missing *[]string) string {
	value := l.stringOr(key, "")
	if value == "" {
		*missing = append(*missing, key)
	}
	return value
}

func (l *loader) durationOr(key string, fallback time.Duration, missing *[]string) time.Duration {
	raw := l.stringOr(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		*missing = append(*missing, key)
		return fallback
	}
	return parsed
}

func (l *loader) int64Or(key string, fallback int64, missing *[]string) int64 {
	raw := l.stringOr(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		*missing = append(*missing, key)
		return fallback
	}
	return parsed
}
