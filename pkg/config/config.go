package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/cricketstore/storefront/pkg/enums"
)

type Config struct {
	App          AppConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Payment      PaymentConfig
	Pricing      PricingConfig
	Notification NotificationConfig
	Store        StoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == StorageDriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Payment.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the session key/value backend.
type StorageConfig struct {
	Driver          string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"sqlite"`
	BreakerFailures uint32        `envconfig:"STOREFRONT_STORAGE_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"STOREFRONT_STORAGE_BREAKER_TIMEOUT" default:"30s"`
	AutoMigrate     bool          `envconfig:"STOREFRONT_STORAGE_AUTO_MIGRATE" default:"true"`
	PurgeInterval   time.Duration `envconfig:"STOREFRONT_STORAGE_PURGE_INTERVAL" default:"10m"`
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StorageDriverSQLite, StorageDriverPostgres, StorageDriverRedis:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvStorageDriver, StorageDriverSQLite, StorageDriverPostgres, StorageDriverRedis)
}

// UsesSQL reports whether the backend is served through gorm.
func (s StorageConfig) UsesSQL() bool {
	return s.Driver == StorageDriverSQLite || s.Driver == StorageDriverPostgres
}

type DBConfig struct {
	DSN        string `envconfig:"STOREFRONT_DB_DSN"`
	SQLitePath string `envconfig:"STOREFRONT_SQLITE_PATH" default:"storefront.db"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the anonymous shopper session cookie.
type SessionConfig struct {
	Secret     string        `envconfig:"STOREFRONT_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"STOREFRONT_SESSION_ISSUER" default:"cricket-store"`
	CookieName string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"cs_session"`
	TTL        time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"720h"`
}

// PaymentConfig describes the hosted payment widget handoff.
type PaymentConfig struct {
	Key           string        `envconfig:"STOREFRONT_PAYMENT_KEY"`
	Currency      string        `envconfig:"STOREFRONT_PAYMENT_CURRENCY" default:"INR"`
	MerchantName  string        `envconfig:"STOREFRONT_PAYMENT_MERCHANT_NAME" default:"Cricket Store"`
	ImageURL      string        `envconfig:"STOREFRONT_PAYMENT_IMAGE_URL" default:"https://via.placeholder.com/150x150/FFD700/000000?text=Cricket+Store"`
	ThemeColor    string        `envconfig:"STOREFRONT_PAYMENT_THEME_COLOR" default:"#FFD700"`
	BusyFallback  time.Duration `envconfig:"STOREFRONT_PAYMENT_BUSY_FALLBACK" default:"1s"`
	RedirectDelay time.Duration `envconfig:"STOREFRONT_PAYMENT_REDIRECT_DELAY" default:"1500ms"`
	AttemptTTL    time.Duration `envconfig:"STOREFRONT_PAYMENT_ATTEMPT_TTL" default:"30m"`
}

func (p *PaymentConfig) validate() error {
	currency, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(p.Currency)))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvCurrency, err)
	}
	p.Currency = currency.String()
	return nil
}

// PricingConfig holds the checkout pricing rule inputs.
type PricingConfig struct {
	FreeShippingOver decimal.Decimal `envconfig:"STOREFRONT_PRICING_FREE_SHIPPING_OVER" default:"1000"`
	ShippingFee      decimal.Decimal `envconfig:"STOREFRONT_PRICING_SHIPPING_FEE" default:"100"`
	TaxRate          decimal.Decimal `envconfig:"STOREFRONT_PRICING_TAX_RATE" default:"0.18"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingOver.IsNegative() || p.ShippingFee.IsNegative() || p.TaxRate.IsNegative() {
		return fmt.Errorf("pricing values must be non-negative")
	}
	return nil
}

type NotificationConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_NOTIFICATION_TTL" default:"3s"`
}

// StoreConfig carries storefront presentation defaults.
type StoreConfig struct {
	BrandPlaceholder string `envconfig:"STOREFRONT_BRAND_PLACEHOLDER" default:"Cricket Store"`
	Timezone         string `envconfig:"STOREFRONT_TIMEZONE" default:"Asia/Kolkata"`
	ConfirmationPath string `envconfig:"STOREFRONT_CONFIRMATION_PATH" default:"/success"`
	CartKey          string `envconfig:"STOREFRONT_CART_KEY" default:"cricketStoreCart"`
	OrdersKey        string `envconfig:"STOREFRONT_ORDERS_KEY" default:"cricketStoreOrders"`
}

// Location resolves the configured timezone, falling back to UTC.
func (s StoreConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(s.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
