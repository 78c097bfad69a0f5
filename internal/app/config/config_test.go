package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, "storefront.orders", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Postgres.DSN)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  http_addr: ":9090"
  log_level: debug
postgres:
  dsn: postgres://file
checkout:
  processing_delay: 500ms
kafka:
  brokers: ["k1:9092"]
`), 0o600))

	t.Setenv("STOREFRONT_POSTGRES__DSN", "postgres://env")
	t.Setenv("STOREFRONT_REDIS__ADDR", "localhost:6379")
	t.Setenv("STOREFRONT_REDIS__CART_TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, 500*time.Millisecond, cfg.Checkout.ProcessingDelay)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.CartTTL)
	assert.Equal(t, time.Minute, cfg.Redis.GuardTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.App.HTTPAddr = " "
	cfg.Checkout.ProcessingDelay = -time.Second
	cfg.Kafka.Brokers = []string{"k:9092"}
	cfg.Kafka.Topic = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.http_addr")
	assert.Contains(t, err.Error(), "processing_delay")
	assert.Contains(t, err.Error(), "kafka.topic")
}
