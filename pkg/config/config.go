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
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Pricing      PricingConfig
	Booking      BookingConfig
	BookingAPI   BookingAPIConfig
	Events       EventsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Booking.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAYFARER_APP_ENV" required:"true"`
	Port         string `envconfig:"WAYFARER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WAYFARER_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"WAYFARER_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"WAYFARER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WAYFARER_DB_DSN"`

	LegacyHost     string `envconfig:"WAYFARER_DB_HOST"`
	LegacyPort     int    `envconfig:"WAYFARER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WAYFARER_DB_USER"`
	LegacyPassword string `envconfig:"WAYFARER_DB_PASSWORD"`
	LegacyName     string `envconfig:"WAYFARER_DB_NAME"`
	LegacySSLMode  string `envconfig:"WAYFARER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAYFARER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAYFARER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAYFARER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAYFARER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery is the threshold above which catalog queries are logged; zero disables it.
	SlowQuery time.Duration `envconfig:"WAYFARER_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAYFARER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WAYFARER_REDIS_ADDR"`
	Password     string        `envconfig:"WAYFARER_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAYFARER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAYFARER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAYFARER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAYFARER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAYFARER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAYFARER_REDIS_WRITE_TIMEOUT" default:"5s"`
	// Namespace prefixes every key so several environments can share one instance.
	Namespace string `envconfig:"WAYFARER_REDIS_NAMESPACE" default:"wf"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WAYFARER_CORS_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WAYFARER_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"WAYFARER_CATALOG_CACHE_TTL" default:"5m"`
}

// PricingConfig overrides the quote constants. Rates are plain decimals, e.g. 0.10 for 10%.
type PricingConfig struct {
	TaxRate    decimal.Decimal `envconfig:"WAYFARER_PRICING_TAX_RATE" default:"0.10"`
	ServiceFee decimal.Decimal `envconfig:"WAYFARER_PRICING_SERVICE_FEE" default:"25"`
	ChildRate  decimal.Decimal `envconfig:"WAYFARER_PRICING_CHILD_RATE" default:"0.7"`
	Currency   string          `envconfig:"WAYFARER_PRICING_CURRENCY" default:"USD"`
}

func (p PricingConfig) validate() error {
	if p.TaxRate.IsNegative() || p.ServiceFee.IsNegative() || p.ChildRate.IsNegative() {
		return fmt.Errorf("pricing rates must be non-negative")
	}
	if strings.TrimSpace(p.Currency) == "" {
		return fmt.Errorf("%s is required", EnvPricingCurrency)
	}
	return nil
}

type BookingConfig struct {
	Timezone   string        `envconfig:"WAYFARER_BOOKING_TIMEZONE" default:"UTC"`
	SessionTTL time.Duration `envconfig:"WAYFARER_WIZARD_SESSION_TTL" default:"30m"`
}

// Location resolves the zone used to decide what "today" is for date rules.
func (b BookingConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(b.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading booking timezone %q: %w", name, err)
	}
	return loc, nil
}

type BookingAPIConfig struct {
	BaseURL string        `envconfig:"WAYFARER_BOOKING_API_URL" required:"true"`
	Token   string        `envconfig:"WAYFARER_BOOKING_API_TOKEN"`
	Timeout time.Duration `envconfig:"WAYFARER_BOOKING_API_TIMEOUT" default:"10s"`
	Source  string        `envconfig:"WAYFARER_BOOKING_SOURCE" default:"web"`
}

type EventsConfig struct {
	AMQPURL         string `envconfig:"WAYFARER_AMQP_URL"`
	Exchange        string `envconfig:"WAYFARER_AMQP_EXCHANGE" default:"wayfarer.bookings"`
	CatalogExchange string `envconfig:"WAYFARER_AMQP_CATALOG_EXCHANGE" default:"wayfarer.catalog"`
	CatalogQueue    string `envconfig:"WAYFARER_AMQP_CATALOG_QUEUE" default:"wayfarer.catalog-cache"`
	Prefetch        int    `envconfig:"WAYFARER_AMQP_PREFETCH" default:"8"`
}

// Enabled reports whether booking events should be published.
func (e EventsConfig) Enabled() bool {
	return strings.TrimSpace(e.AMQPURL) != ""
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
