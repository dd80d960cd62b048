package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "Storefront"
	defaultAppEnv         = "development"
	defaultPort           = "4000"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultRequestTimeout = 5 * time.Second
	defaultSignupTokenTTL = time.Hour
	defaultLoginTokenTTL  = 90 * 24 * time.Hour
	defaultOTPTTL         = 5 * time.Minute
	defaultOTPLength      = 6
	defaultLoginRateLimit = 5
	defaultSMSTimeout     = 5 * time.Second
	defaultSMSAPIURL      = "https://www.fast2sms.com/dev/bulkV2"
	defaultDevJWTSecret   = "dev-secret-change-me"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	RequestTimeout time.Duration

	JWTSecret      string
	SignupTokenTTL time.Duration
	LoginTokenTTL  time.Duration

	OTPTTL          time.Duration
	OTPLength       int
	LoginRequireOTP bool
	LoginRateLimit  int

	SMSAPIKey  string
	SMSAPIURL  string
	SMSTimeout time.Duration

	ValidateOrderItems bool

	OTLPEndpoint string
	SentryDSN    string
}

// Load reads configuration values from the environment (and an optional .env
// file) and populates a Config instance.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SMSAPIKey:       getEnv("SMS_API_KEY", os.Getenv("FAST2SMS_API_KEY")),
		SMSAPIURL:       getEnv("SMS_API_URL", defaultSMSAPIURL),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		OTPLength:       defaultOTPLength,
		LoginRateLimit:  defaultLoginRateLimit,
		LoginRequireOTP: false,
	}

	durations := []struct {
		dst      *time.Duration
		seconds  string
		duration string
		fallback time.Duration
	}{
		{&cfg.ShutdownPeriod, "SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT", defaultShutdownDelay},
		{&cfg.IdempotencyTTL, "IDEMPOTENCY_TTL_SECONDS", "IDEMPOTENCY_TTL", defaultIdempotencyTTL},
		{&cfg.RequestTimeout, "REQUEST_TIMEOUT_SECONDS", "REQUEST_TIMEOUT", defaultRequestTimeout},
		{&cfg.SignupTokenTTL, "SIGNUP_TOKEN_TTL_SECONDS", "SIGNUP_TOKEN_TTL", defaultSignupTokenTTL},
		{&cfg.LoginTokenTTL, "LOGIN_TOKEN_TTL_SECONDS", "LOGIN_TOKEN_TTL", defaultLoginTokenTTL},
		{&cfg.OTPTTL, "OTP_TTL_SECONDS", "OTP_TTL", defaultOTPTTL},
		{&cfg.SMSTimeout, "SMS_TIMEOUT_SECONDS", "SMS_TIMEOUT", defaultSMSTimeout},
	}
	for _, d := range durations {
		v, err := getDuration(d.seconds, d.duration, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}

	if v := os.Getenv("OTP_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4 || n > 10 {
			return Config{}, fmt.Errorf("invalid OTP_LENGTH: %q", v)
		}
		cfg.OTPLength = n
	}

	if v := os.Getenv("LOGIN_RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.LoginRateLimit = n
	}

	var err error
	if cfg.LoginRequireOTP, err = getBool("LOGIN_REQUIRE_OTP", false); err != nil {
		return Config{}, err
	}
	if cfg.ValidateOrderItems, err = getBool("ORDER_VALIDATE_ITEMS", false); err != nil {
		return Config{}, err
	}

	if cfg.IsDev() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = defaultDevJWTSecret
		}
		return cfg, nil
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service runs in a local/development environment,
// where in-memory stores stand in for Postgres and Redis.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
