package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and the CLI read from the environment.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DatabaseURL string

	// Allowed CORS origins (CLIENT_URL, comma separated)
	ClientOrigins []string

	JWTSecret    string
	JWTExpiresIn time.Duration
	CookieSecure bool

	RequestTimeout time.Duration

	AWS   AWSConfig
	Email EmailConfig

	ContactEmail string

	CatalogBaseURL  string
	RedisURL        string
	CatalogCacheTTL time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// Endpoint overrides the S3 endpoint for S3-compatible stores (minio, R2).
	Endpoint string
}

// Enabled reports whether an S3 bucket is configured.
func (a AWSConfig) Enabled() bool {
	return a.Bucket != "" && a.Region != ""
}

type EmailConfig struct {
	Host     string
	Port     int
	Secure   bool
	User     string
	Password string
	From     string
	FromName string
}

func (e EmailConfig) Enabled() bool {
	return e.Host != ""
}

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET environment variable is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")
)

const (
	DefaultPort           = "8000"
	DefaultClientURL      = "http://localhost:5173"
	DefaultCatalogBaseURL = "https://dummyjson.com"
	DefaultTokenTTL       = 7 * 24 * time.Hour
)

// LoadEnvFiles loads .env.local then .env. Missing files are ignored and
// variables already present in the process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load reads the configuration from environment variables.
//
// Environment variables:
//   - PORT (default 8000), APP_ENV, LOG_LEVEL
//   - DATABASE_URL
//   - CLIENT_URL: allowed origins, comma separated (default http://localhost:5173)
//   - JWT_SECRET, JWT_EXPIRES_IN (Go duration or "7d", default 7 days), COOKIE_SECURE
//   - REQUEST_TIMEOUT (default 30s)
//   - AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_BUCKET, AWS_S3_ENDPOINT
//   - EMAIL_HOST, EMAIL_PORT, EMAIL_SECURE, EMAIL_USER, EMAIL_PASSWORD, EMAIL_FROM, EMAIL_FROM_NAME
//   - CONTACT_EMAIL
//   - CATALOG_BASE_URL (default https://dummyjson.com), REDIS_URL, CATALOG_CACHE_TTL (default 5m)
func Load() Config {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = DefaultPort
	}

	clientURL := os.Getenv("CLIENT_URL")
	if strings.TrimSpace(clientURL) == "" {
		clientURL = DefaultClientURL
	}

	catalogURL := strings.TrimRight(strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")), "/")
	if catalogURL == "" {
		catalogURL = DefaultCatalogBaseURL
	}

	return Config{
		Env:      strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		Port:     port,
		LogLevel: os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		ClientOrigins: splitList(clientURL),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiresIn: parseDuration(os.Getenv("JWT_EXPIRES_IN"), DefaultTokenTTL),
		CookieSecure: parseBool(os.Getenv("COOKIE_SECURE")),

		RequestTimeout: parseDuration(os.Getenv("REQUEST_TIMEOUT"), 30*time.Second),

		AWS: AWSConfig{
			Region:          os.Getenv("AWS_REGION"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("AWS_S3_BUCKET"),
			Endpoint:        os.Getenv("AWS_S3_ENDPOINT"),
		},

		Email: EmailConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     parseInt(os.Getenv("EMAIL_PORT"), 587),
			Secure:   parseBool(os.Getenv("EMAIL_SECURE")),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			From:     os.Getenv("EMAIL_FROM"),
			FromName: os.Getenv("EMAIL_FROM_NAME"),
		},

		ContactEmail: os.Getenv("CONTACT_EMAIL"),

		CatalogBaseURL:  catalogURL,
		RedisURL:        os.Getenv("REDIS_URL"),
		CatalogCacheTTL: parseDuration(os.Getenv("CATALOG_CACHE_TTL"), 5*time.Minute),
	}
}

// Validate checks the values the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// parseDuration accepts Go durations plus the "7d" day suffix used by the
// JWT_EXPIRES_IN convention.
func parseDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return def
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
