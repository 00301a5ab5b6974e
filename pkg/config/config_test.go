package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.App.Env)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.UsesSQL())
	assert.True(t, cfg.Pricing.FreeShippingOver.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.Pricing.ShippingFee.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, 3*time.Second, cfg.Notification.TTL)
	assert.Equal(t, time.Second, cfg.Payment.BusyFallback)
	assert.Equal(t, 1500*time.Millisecond, cfg.Payment.RedirectDelay)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, "cricketStoreCart", cfg.Store.CartKey)
	assert.Equal(t, "cricketStoreOrders", cfg.Store.OrdersKey)
	assert.Equal(t, "Asia/Kolkata", cfg.Store.Location().String())
	assert.Equal(t, 10*time.Minute, cfg.Storage.PurgeInterval)
	assert.Empty(t, cfg.App.CORSOrigins)
}

func TestLoad_CurrencyNormalizedAndChecked(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCurrency, " inr ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "INR", cfg.Payment.Currency)

	t.Setenv(EnvCurrency, "usd")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvCurrency)
}

func TestLoad_CORSOriginsList(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSOrigins, "https://shop.example,https://www.shop.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://shop.example", "https://www.shop.example"}, cfg.App.CORSOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	require.NoError(t, os.Unsetenv(EnvAppEnv))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "mongo")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_PostgresBuildsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "Postgres")
	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "shop")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://shop@db.local:5432/storefront?sslmode=disable", cfg.DB.DSN)
}

func TestLoad_PostgresRequiresConnectionInfo(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvDBDSN)
}

func TestLoad_NegativeTaxRate(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvTaxRate, "-0.1")

	_, err := Load()
	require.Error(t, err)
}

func TestStoreLocationFallsBackToUTC(t *testing.T) {
	s := StoreConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, s.Location())
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvSessionSecret, "secret")
	for _, key := range []string{EnvStorageDriver, EnvDBDSN, EnvDBHost, EnvDBUser, EnvDBName, EnvTaxRate, EnvCurrency, EnvCORSOrigins} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
