package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("config invalid")

// Config is loaded once at startup and passed by value or pointer to each
// component constructor. Nothing reads the environment after Load returns.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"todo-backend"`
	Env     string `env:"APP_ENV"  envDefault:"development"`

	HTTP     HTTPConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Postgres PostgresConfig
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Reminder ReminderConfig `envPrefix:"REMINDER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Sentry   SentryConfig   `envPrefix:"SENTRY_"`
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR"             envDefault:":8080"`
	APIPrefix       string        `env:"API_PREFIX"            envDefault:"/api"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"`
}

type AuthConfig struct {
	SecretKey  string        `env:"SECRET_KEY"`
	Algorithm  string        `env:"JWT_ALGORITHM"     envDefault:"HS256"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	BcryptCost int           `env:"BCRYPT_COST"       envDefault:"10"`

	AccessCookieName  string `env:"ACCESS_TOKEN_COOKIE_NAME"  envDefault:"access_token"`
	RefreshCookieName string `env:"REFRESH_TOKEN_COOKIE_NAME" envDefault:"refresh_token"`
	CSRFCookieName    string `env:"CSRF_COOKIE_NAME"          envDefault:"csrf_token"`
	CSRFHeaderName    string `env:"CSRF_HEADER_NAME"          envDefault:"X-CSRF-Token"`

	CSRFExemptPaths []string `env:"CSRF_EXEMPT_PATHS" envDefault:"/auth/login,/auth/register,/auth/refresh,/auth/logout" envSeparator:","`

	CookieDomain   string   `env:"COOKIE_DOMAIN"`
	CookieSecure   bool     `env:"COOKIE_SECURE"   envDefault:"false"`
	CookieSameSite SameSite `env:"COOKIE_SAMESITE" envDefault:"lax"`
}

type CORSConfig struct {
	AllowedOrigins   []string `env:"BACKEND_CORS_ORIGINS"   envDefault:"http://localhost:5173" envSeparator:","`
	AllowCredentials bool     `env:"ALLOW_CORS_CREDENTIALS" envDefault:"true"`
	AllowedMethods   []string `env:"ALLOW_CORS_METHODS"     envDefault:"GET,POST,PUT,PATCH,DELETE,OPTIONS" envSeparator:","`
	AllowedHeaders   []string `env:"ALLOW_CORS_HEADERS"     envDefault:"Authorization,Content-Type,X-CSRF-Token" envSeparator:","`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"PGHOST"     envDefault:"localhost"`
	Port        string `env:"PGPORT"     envDefault:"5432"`
	User        string `env:"PGUSER"`
	Password    string `env:"PGPASSWORD"`
	Database    string `env:"PGDATABASE"`
	SSLMode     string `env:"PGSSLMODE"  envDefault:"disable"`
}

// RedisConfig is optional; without a URL the reminder runner does not
// coordinate between replicas.
type RedisConfig struct {
	URL string `env:"URL"`
}

type ReminderConfig struct {
	Enabled  bool          `env:"ENABLED"  envDefault:"true"`
	Interval time.Duration `env:"INTERVAL" envDefault:"60m"`
	Window   time.Duration `env:"WINDOW"   envDefault:"24h"`
	LockKey  string        `env:"LOCK_KEY" envDefault:"todo:reminders:lock"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"5m"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type SentryConfig struct {
	DSN         string `env:"DSN"`
	Environment string `env:"ENVIRONMENT"`
}

// SameSite mirrors http.SameSite so it can be parsed from the environment.
type SameSite string

const (
	SameSiteLax    SameSite = "lax"
	SameSiteStrict SameSite = "strict"
	SameSiteNone   SameSite = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for SameSite.
func (s *SameSite) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch SameSite(v) {
	case "":
		*s = SameSiteLax
		return nil
	case SameSiteLax, SameSiteStrict, SameSiteNone:
		*s = SameSite(v)
		return nil
	default:
		return fmt.Errorf("invalid SameSite: %q (valid options: lax, strict, none)", v)
	}
}

func (s SameSite) HTTP() http.SameSite {
	switch s {
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sanitize normalizes values that have an obvious canonical form.
func (c *Config) Sanitize() {
	c.HTTP.APIPrefix = strings.TrimRight(strings.TrimSpace(c.HTTP.APIPrefix), "/")
	if c.HTTP.APIPrefix != "" && !strings.HasPrefix(c.HTTP.APIPrefix, "/") {
		c.HTTP.APIPrefix = "/" + c.HTTP.APIPrefix
	}
	if c.Sentry.Environment == "" {
		c.Sentry.Environment = c.Env
	}
	c.CORS.AllowedOrigins = trimAll(c.CORS.AllowedOrigins)
	c.Auth.CSRFExemptPaths = trimAll(c.Auth.CSRFExemptPaths)
}

func (c *Config) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.Reminder.Enabled && c.Reminder.Interval <= 0 {
		return fmt.Errorf("%w: REMINDER_INTERVAL must be positive", ErrInvalid)
	}
	if c.Reminder.Window <= 0 {
		return fmt.Errorf("%w: REMINDER_WINDOW must be positive", ErrInvalid)
	}
	return nil
}

func (a AuthConfig) Validate() error {
	if strings.TrimSpace(a.SecretKey) == "" {
		return fmt.Errorf("%w: SECRET_KEY is required", ErrInvalid)
	}
	if _, ok := jwt.GetSigningMethod(a.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		return fmt.Errorf("%w: JWT_ALGORITHM %q is not an HMAC algorithm", ErrInvalid, a.Algorithm)
	}
	if a.AccessTTL <= 0 || a.RefreshTTL <= 0 {
		return fmt.Errorf("%w: token TTLs must be positive", ErrInvalid)
	}
	if a.AccessCookieName == "" || a.RefreshCookieName == "" || a.CSRFCookieName == "" || a.CSRFHeaderName == "" {
		return fmt.Errorf("%w: cookie and header names must not be empty", ErrInvalid)
	}
	if a.CookieSameSite == SameSiteNone && !a.CookieSecure {
		return fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrInvalid)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
