package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ROASTERY"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "ROASTERY_APP_ENV"
	EnvPort   = "ROASTERY_APP_PORT"
	EnvDBDSN  = "ROASTERY_DB_DSN"
	EnvDBHost = "ROASTERY_DB_HOST"
	EnvDBUser = "ROASTERY_DB_USER"
	EnvDBName = "ROASTERY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	Postal       PostalConfig
	Storefront   StorefrontConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROASTERY_APP_ENV" required:"true"`
	Port         string `envconfig:"ROASTERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROASTERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROASTERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ROASTERY_DB_DSN"`

	LegacyHost     string `envconfig:"ROASTERY_DB_HOST"`
	LegacyPort     int    `envconfig:"ROASTERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROASTERY_DB_USER"`
	LegacyPassword string `envconfig:"ROASTERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROASTERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROASTERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROASTERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROASTERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROASTERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROASTERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROASTERY_REDIS_URL"`
	Address      string        `envconfig:"ROASTERY_REDIS_ADDR"`
	Password     string        `envconfig:"ROASTERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROASTERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROASTERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROASTERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROASTERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROASTERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROASTERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes how bearer tokens from the auth provider are verified.
// Tokens are minted externally; this service only validates them.
type JWTConfig struct {
	Secret string `envconfig:"ROASTERY_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"ROASTERY_JWT_ISSUER"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"ROASTERY_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"ROASTERY_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"ROASTERY_STRIPE_ENV" default:"test"`
	ReturnURL     string `envconfig:"ROASTERY_STRIPE_RETURN_URL" default:"http://localhost:5173/checkout/success"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PostalConfig struct {
	LookupBaseURL string        `envconfig:"ROASTERY_POSTAL_LOOKUP_URL" default:"https://zipcloud.ibsnet.co.jp/api/search"`
	Timeout       time.Duration `envconfig:"ROASTERY_POSTAL_TIMEOUT" default:"5s"`
}

// StorefrontConfig configures the client-side core when it runs out of
// process (cmd/storefront, integration tests).
type StorefrontConfig struct {
	APIBaseURL string `envconfig:"ROASTERY_STOREFRONT_API_URL" default:"http://localhost:8080"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ROASTERY_CORS_ORIGINS" default:"http://localhost:5173"`
}

// RateLimitConfig throttles the write-heavy checkout path per user.
type RateLimitConfig struct {
	CheckoutWindow time.Duration `envconfig:"ROASTERY_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
	CheckoutLimit  int64         `envconfig:"ROASTERY_RATE_LIMIT_CHECKOUT_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROASTERY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
