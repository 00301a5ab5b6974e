package config

import _ "time/tzdata"

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvPort          = "STOREFRONT_APP_PORT"
	EnvStorageDriver = "STOREFRONT_STORAGE_DRIVER"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvDBHost        = "STOREFRONT_DB_HOST"
	EnvDBUser        = "STOREFRONT_DB_USER"
	EnvDBName        = "STOREFRONT_DB_NAME"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvSessionSecret = "STOREFRONT_SESSION_SECRET"
	EnvPaymentKey    = "STOREFRONT_PAYMENT_KEY"
	EnvCurrency      = "STOREFRONT_PAYMENT_CURRENCY"
	EnvCORSOrigins   = "STOREFRONT_CORS_ORIGINS"
	EnvTaxRate       = "STOREFRONT_PRICING_TAX_RATE"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
