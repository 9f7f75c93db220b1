package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Tokens    TokenConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode is kept explicit for hosted-DB posture.
	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

// TokenConfig carries one signing secret per token class.
// A token signed for one class must never verify under another class's
// secret, so the four secrets must be distinct values in deployment.
type TokenConfig struct {
	AppSecret      string
	AuthSecret     string
	RefreshSecret  string
	InternalSecret string

	// AuthTTL overrides the default access-token lifetime. The other
	// class lifetimes are fixed policy, not deployment knobs.
	AuthTTL time.Duration

	// InternalOrigin identifies this service in service-to-service
	// tokens; verification matches it against the origin claim.
	InternalOrigin string
}

// RateLimitConfig controls limiter failure behavior.
// FailMode "open" treats limiter backend errors as "no record" so a Redis
// outage cannot block logins; "closed" rejects instead. Open is the default.
type RateLimitConfig struct {
	FailMode string
}

const (
	FailModeOpen   = "open"
	FailModeClosed = "closed"
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Tokens.AppSecret = os.Getenv("APP_TOKEN_SECRET")
	c.Tokens.AuthSecret = os.Getenv("AUTH_TOKEN_SECRET")
	c.Tokens.RefreshSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	c.Tokens.InternalSecret = os.Getenv("INTERNAL_TOKEN_SECRET")
	// Optional override; default applied in Validate().
	c.Tokens.AuthTTL = mustDuration("AUTH_TOKEN_TTL")
	c.Tokens.InternalOrigin = strings.TrimSpace(os.Getenv("INTERNAL_ORIGIN"))

	c.RateLimit.FailMode = strings.TrimSpace(os.Getenv("RATE_LIMIT_FAIL_MODE"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			// Local-friendly default; production must be explicit.
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	// Refuse to start with any signing secret missing. Warn-and-continue
	// here would only surface later as every token failing verification.
	if c.Tokens.AppSecret == "" {
		errs = append(errs, errors.New("APP_TOKEN_SECRET is required"))
	}
	if c.Tokens.AuthSecret == "" {
		errs = append(errs, errors.New("AUTH_TOKEN_SECRET is required"))
	}
	if c.Tokens.RefreshSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.Tokens.InternalSecret == "" {
		errs = append(errs, errors.New("INTERNAL_TOKEN_SECRET is required"))
	}
	if err := distinctSecrets(c.Tokens); err != nil {
		errs = append(errs, err)
	}
	if c.Tokens.AuthTTL <= 0 {
		c.Tokens.AuthTTL = time.Hour
	}
	if c.Tokens.InternalOrigin == "" {
		errs = append(errs, errors.New("INTERNAL_ORIGIN is required"))
	}

	switch c.RateLimit.FailMode {
	case "":
		c.RateLimit.FailMode = FailModeOpen
	case FailModeOpen, FailModeClosed:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_FAIL_MODE must be open or closed, got %q", c.RateLimit.FailMode))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func distinctSecrets(t TokenConfig) error {
	named := []struct{ name, value string }{
		{"APP_TOKEN_SECRET", t.AppSecret},
		{"AUTH_TOKEN_SECRET", t.AuthSecret},
		{"REFRESH_TOKEN_SECRET", t.RefreshSecret},
		{"INTERNAL_TOKEN_SECRET", t.InternalSecret},
	}
	seen := map[string]string{}
	for _, s := range named {
		if s.value == "" {
			continue
		}
		if other, ok := seen[s.value]; ok {
			return fmt.Errorf("%s and %s must not share a value", other, s.name)
		}
		seen[s.value] = s.name
	}
	return nil
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
