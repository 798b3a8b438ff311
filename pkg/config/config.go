package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Allocation   AllocationConfig
	Square       SquareConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	if _, err := cfg.Pricing.Margin(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUNDLEDRAW_APP_ENV" required:"true"`
	Port         string `envconfig:"BUNDLEDRAW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUNDLEDRAW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUNDLEDRAW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUNDLEDRAW_DB_DSN"`
	Driver string `envconfig:"BUNDLEDRAW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUNDLEDRAW_DB_HOST"`
	LegacyPort     int    `envconfig:"BUNDLEDRAW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUNDLEDRAW_DB_USER"`
	LegacyPassword string `envconfig:"BUNDLEDRAW_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUNDLEDRAW_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUNDLEDRAW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUNDLEDRAW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUNDLEDRAW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUNDLEDRAW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUNDLEDRAW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUNDLEDRAW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUNDLEDRAW_REDIS_ADDR"`
	Password     string        `envconfig:"BUNDLEDRAW_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUNDLEDRAW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUNDLEDRAW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUNDLEDRAW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUNDLEDRAW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUNDLEDRAW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUNDLEDRAW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig controls the buyer-facing price derivation.
type PricingConfig struct {
	// MarginFactor multiplies the quantity-weighted average unit value.
	MarginFactor string `envconfig:"BUNDLEDRAW_PRICING_MARGIN_FACTOR" default:"1.30"`
	// FallbackPriceCents is quoted when no eligible inventory remains.
	FallbackPriceCents int64 `envconfig:"BUNDLEDRAW_PRICING_FALLBACK_PRICE_CENTS" default:"9900"`
}

// Margin parses the configured margin factor.
func (p PricingConfig) Margin() (decimal.Decimal, error) {
	margin, err := decimal.NewFromString(strings.TrimSpace(p.MarginFactor))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid margin factor %q: %w", p.MarginFactor, err)
	}
	if margin.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("margin factor must be positive, got %s", margin)
	}
	return margin, nil
}

// AllocationConfig bounds the draw transaction retry behavior.
type AllocationConfig struct {
	MaxRetries int `envconfig:"BUNDLEDRAW_ALLOCATION_MAX_RETRIES" default:"3"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"BUNDLEDRAW_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"BUNDLEDRAW_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type GCPConfig struct {
	ProjectID string `envconfig:"BUNDLEDRAW_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"BUNDLEDRAW_PUBSUB_DOMAIN_TOPIC" default:"bd-domain-events"`
	DomainSubscription string `envconfig:"BUNDLEDRAW_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BUNDLEDRAW_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BUNDLEDRAW_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BUNDLEDRAW_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUNDLEDRAW_AUTO_MIGRATE" default:"false"`
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
