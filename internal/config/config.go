// Package config loads process settings from the environment. Every value
// has a default; Load normalizes the result and rejects combinations the
// server cannot start with.
package config

import (
	"errors"
	"os"
	"slices"
	"strings"
	"time"
)

// CORSConfig lists the browser origins allowed to call the API. Empty
// allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig configures tracing.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Exporter    string  // OTEL_TRACES_EXPORTER: otlp|stdout
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG
}

// DBConfig selects and locates the relational store.
type DBConfig struct {
	Driver string // DB_DRIVER: sqlite|postgres
	Path   string // DB_PATH, sqlite file
	URL    string // DATABASE_URL, postgres DSN
}

// TurnstileConfig configures the bot-challenge verifier.
type TurnstileConfig struct {
	Secret    string        // TURNSTILE_SECRET
	VerifyURL string        // TURNSTILE_VERIFY_URL
	Timeout   time.Duration // TURNSTILE_TIMEOUT
	Bypass    bool          // TURNSTILE_BYPASS, accept every token (dev only)
}

// AbuseConfig bounds posting and reporting per client fingerprint.
type AbuseConfig struct {
	Window time.Duration // ABUSE_WINDOW
	Limit  int           // ABUSE_LIMIT
}

// NATSConfig configures best-effort event publishing.
type NATSConfig struct {
	URL           string // NATS_URL, empty disables publishing
	SubjectPrefix string // NATS_SUBJECT_PREFIX
}

// Config is the full set of process settings.
type Config struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test
	ClientIPHeader    string // header carrying the real client address

	LogLevel       string
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	DB DBConfig

	QuotesSource string // file path or s3://bucket/key
	SiteTZ       string // IANA zone for the daily pick

	HashSalt    string
	AdminSecret string
	Turnstile   TurnstileConfig

	Abuse AbuseConfig

	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration

	OTEL OTELConfig
	NATS NATSConfig
}

var (
	logLevels = []string{"debug", "info", "warn", "error", "fatal", "panic"}
	ginModes  = []string{"debug", "release", "test"}
	dbAliases = map[string]string{"postgresql": "postgres", "pg": "postgres", "sqlite3": "sqlite"}
)

// Load reads the environment, applies defaults and validates the result.
// On error the partially filled Config is returned alongside it.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		ClientIPHeader:    strings.TrimSpace(getenv("CLIENT_IP_HEADER", "CF-Connecting-IP")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:   getenv("DB_PATH", "dailyquote.db"),
			URL:    os.Getenv("DATABASE_URL"),
		},

		QuotesSource: getenv("QUOTES_SOURCE", "data/quotes.json"),
		SiteTZ:       getenv("SITE_TZ", "Europe/Copenhagen"),

		HashSalt:    os.Getenv("HASH_SALT"),
		AdminSecret: os.Getenv("ADMIN_SECRET"),
		Turnstile: TurnstileConfig{
			Secret:    os.Getenv("TURNSTILE_SECRET"),
			VerifyURL: getenv("TURNSTILE_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),
			Timeout:   getdur("TURNSTILE_TIMEOUT", 5*time.Second),
			Bypass:    getbool("TURNSTILE_BYPASS", false),
		},
		Abuse: AbuseConfig{
			Window: getdur("ABUSE_WINDOW", 10*time.Minute),
			Limit:  getint("ABUSE_LIMIT", 5),
		},

		RateRPS:   getfloat("RATE_RPS", 5),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{AllowedOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS"))},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Exporter:    strings.ToLower(getenv("OTEL_TRACES_EXPORTER", "otlp")),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-daily-quote"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		NATS: NATSConfig{
			URL:           os.Getenv("NATS_URL"),
			SubjectPrefix: getenv("NATS_SUBJECT_PREFIX", "dailyquote"),
		},
	}

	cfg.normalize()
	return cfg, cfg.validate()
}

func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if !slices.Contains(ginModes, c.GinMode) {
		c.GinMode = "release"
	}
	if alias, ok := dbAliases[c.DB.Driver]; ok {
		c.DB.Driver = alias
	}
}

// validate returns the first violated rule.
func (c Config) validate() error {
	rules := []struct {
		bad bool
		msg string
	}{
		{!slices.Contains(logLevels, c.LogLevel), "LOG_LEVEL must be one of: " + strings.Join(logLevels, ", ")},
		{strings.TrimSpace(c.Port) == "", "PORT must not be empty"},
		{c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0, "timeouts must be positive durations"},
		{c.MaxHeaderBytes <= 0, "MAX_HEADER_BYTES must be > 0"},
		{c.DB.Driver != "sqlite" && c.DB.Driver != "postgres", "DB_DRIVER must be one of: sqlite, postgres"},
		{c.DB.Driver == "sqlite" && strings.TrimSpace(c.DB.Path) == "", "DB_PATH must not be empty"},
		{c.DB.Driver == "postgres" && strings.TrimSpace(c.DB.URL) == "", "DATABASE_URL is required when DB_DRIVER=postgres"},
		{strings.TrimSpace(c.QuotesSource) == "", "QUOTES_SOURCE must not be empty"},
		{!validZone(c.SiteTZ), "SITE_TZ must be a valid IANA time zone"},
		{c.HashSalt == "" && c.GinMode == "release", "HASH_SALT is required in release mode"},
		{c.Turnstile.Timeout <= 0, "TURNSTILE_TIMEOUT must be > 0"},
		{c.Abuse.Window <= 0, "ABUSE_WINDOW must be > 0"},
		{c.Abuse.Limit < 1, "ABUSE_LIMIT must be >= 1"},
		{c.RateRPS < 0, "RATE_RPS must be >= 0"},
		{c.RateBurst < 1, "RATE_BURST must be >= 1"},
		{c.Security.HSTSMaxAge < 0, "HSTS_MAX_AGE must be >= 0"},
		{c.IdempotencyTTL <= 0, "IDEMPOTENCY_TTL must be > 0"},
		{c.OTEL.Exporter != "otlp" && c.OTEL.Exporter != "stdout", "OTEL_TRACES_EXPORTER must be one of: otlp, stdout"},
		{c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	for _, r := range rules {
		if r.bad {
			return errors.New(r.msg)
		}
	}
	return nil
}

func validZone(name string) bool {
	_, err := time.LoadLocation(name)
	return err == nil
}
