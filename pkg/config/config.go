package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Store         StoreConfig
	DB            DBConfig
	Redis         RedisConfig
	Checkout      CheckoutConfig
	Payment       PaymentConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"ECODOTT_APP_ENV" default:"dev"`
	Port           string   `envconfig:"ECODOTT_APP_PORT" default:"8080"`
	LogLevel       string   `envconfig:"ECODOTT_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"ECODOTT_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"ECODOTT_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"ECODOTT_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StoreConfig struct {
	Backend string `envconfig:"ECODOTT_STORE_BACKEND" default:"sqlite"`
}

type DBConfig struct {
	// DSN is a file path for sqlite and a connection URL for postgres.
	DSN         string `envconfig:"ECODOTT_DB_DSN" default:"ecodott.db"`
	AutoMigrate bool   `envconfig:"ECODOTT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"ECODOTT_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"ECODOTT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"ECODOTT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECODOTT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECODOTT_REDIS_URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"ECODOTT_REDIS_KEY_PREFIX" default:"ecodott"`
	PoolSize     int           `envconfig:"ECODOTT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECODOTT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECODOTT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECODOTT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECODOTT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	ProcessingDelay   time.Duration `envconfig:"ECODOTT_CHECKOUT_PROCESSING_DELAY" default:"2s"`
	VerificationDelay time.Duration `envconfig:"ECODOTT_CHECKOUT_VERIFICATION_DELAY" default:"3s"`
	CODDelay          time.Duration `envconfig:"ECODOTT_CHECKOUT_COD_DELAY" default:"2s"`
	ConfirmWindow     time.Duration `envconfig:"ECODOTT_CHECKOUT_CONFIRM_WINDOW" default:"600s"`
	CODSurcharge      string        `envconfig:"ECODOTT_CHECKOUT_COD_SURCHARGE" default:"25"`
}

// Surcharge parses the configured COD surcharge. Load has already validated it.
func (c CheckoutConfig) Surcharge() decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(c.CODSurcharge))
	if err != nil {
		return decimal.NewFromInt(25)
	}
	return value
}

type PaymentConfig struct {
	MerchantUPIID string  `envconfig:"ECODOTT_PAYMENT_MERCHANT_UPI_ID" default:"ecodott@paytm"`
	MerchantName  string  `envconfig:"ECODOTT_PAYMENT_MERCHANT_NAME" default:"EcoDott Plants"`
	Currency      string  `envconfig:"ECODOTT_PAYMENT_CURRENCY" default:"INR"`
	Note          string  `envconfig:"ECODOTT_PAYMENT_NOTE" default:"EcoDott Plant Purchase"`
	SuccessRate   float64 `envconfig:"ECODOTT_PAYMENT_SUCCESS_RATE" default:"0.9"`
}

type NotificationsConfig struct {
	DefaultDuration time.Duration `envconfig:"ECODOTT_NOTIFICATIONS_DEFAULT_DURATION" default:"4s"`
	AddedDuration   time.Duration `envconfig:"ECODOTT_NOTIFICATIONS_ADDED_DURATION" default:"2s"`
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Store.Backend)) {
	case StoreBackendMemory, StoreBackendSQLite, StoreBackendPostgres, StoreBackendRedis:
		c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	default:
		return fmt.Errorf("%s must be one of memory, sqlite, postgres, redis (got %q)", EnvStoreBackend, c.Store.Backend)
	}

	if c.Store.Backend == StoreBackendPostgres && !strings.HasPrefix(c.DB.DSN, "postgres") {
		return fmt.Errorf("%s must be a postgres URL when the postgres backend is selected", EnvDBDSN)
	}

	surcharge, err := decimal.NewFromString(strings.TrimSpace(c.Checkout.CODSurcharge))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvCODSurcharge, err)
	}
	if surcharge.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvCODSurcharge)
	}

	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		return fmt.Errorf("%s must be within [0, 1]", EnvPaymentSuccess)
	}
	if strings.TrimSpace(c.Payment.MerchantUPIID) == "" {
		return fmt.Errorf("%s is required", EnvMerchantUPIID)
	}

	for name, d := range map[string]time.Duration{
		EnvProcessingDelay:   c.Checkout.ProcessingDelay,
		EnvVerificationDelay: c.Checkout.VerificationDelay,
		EnvCODDelay:          c.Checkout.CODDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Checkout.ConfirmWindow <= 0 {
		return fmt.Errorf("%s must be positive", EnvConfirmWindow)
	}
	return nil
}
