// Package config loads process settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.temporal.io/sdk/client"
)

const (
	// EnvConfigFile names an optional YAML file layered over the defaults.
	EnvConfigFile = "STOREFRONT_CONFIG"
	// EnvPrefix prefixes environment overrides. Nested keys use "__", e.g. STOREFRONT_REDIS__ADDR.
	EnvPrefix = "STOREFRONT_"
)

// Config carries the settings shared by the storefront processes.
type Config struct {
	App struct {
		Name        string `koanf:"name"`
		Environment string `koanf:"environment"`
		HTTPAddr    string `koanf:"http_addr"`
		LogLevel    string `koanf:"log_level"`
		LogFile     string `koanf:"log_file"`
	} `koanf:"app"`

	Telemetry struct {
		OTLPEndpoint string `koanf:"otlp_endpoint"`
		OTLPInsecure bool   `koanf:"otlp_insecure"`
	} `koanf:"telemetry"`

	Postgres struct {
		DSN string `koanf:"dsn"`
	} `koanf:"postgres"`

	Redis struct {
		Addr     string        `koanf:"addr"`
		Password string        `koanf:"password"`
		DB       int           `koanf:"db"`
		CartTTL  time.Duration `koanf:"cart_ttl"`
		GuardTTL time.Duration `koanf:"guard_ttl"`
	} `koanf:"redis"`

	RabbitMQ struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
		Queue    string `koanf:"queue"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers []string `koanf:"brokers"`
		Topic   string   `koanf:"topic"`
	} `koanf:"kafka"`

	Temporal struct {
		Address   string `koanf:"address"`
		Namespace string `koanf:"namespace"`
		Disabled  bool   `koanf:"disabled"`
	} `koanf:"temporal"`

	Checkout struct {
		ProcessingDelay time.Duration `koanf:"processing_delay"`
	} `koanf:"checkout"`
}

// Defaults returns a configuration that runs everything in memory with inline checkout.
func Defaults() Config {
	var cfg Config
	cfg.App.Name = "storefront-api"
	cfg.App.Environment = "local"
	cfg.App.HTTPAddr = ":8080"
	cfg.App.LogLevel = "info"
	cfg.Telemetry.OTLPInsecure = true
	cfg.Redis.CartTTL = 7 * 24 * time.Hour
	cfg.Redis.GuardTTL = time.Minute
	cfg.RabbitMQ.Exchange = "storefront.order.events"
	cfg.RabbitMQ.Queue = "storefront.order.events.audit"
	cfg.Kafka.Topic = "storefront.orders"
	cfg.Temporal.Address = client.DefaultHostPort
	cfg.Temporal.Namespace = client.DefaultNamespace
	cfg.Checkout.ProcessingDelay = 2 * time.Second
	return cfg
}

// LoadConfig loads the file named by STOREFRONT_CONFIG, if any, then STOREFRONT_ overrides.
func LoadConfig() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv(EnvConfigFile)))
}

// Load layers the optional YAML file at path and the environment over Defaults, then validates.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.Kafka.Brokers = compact(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ToLower(s)
}

// Validate rejects settings the processes cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		errs = append(errs, errors.New("app.http_addr required"))
	}
	if c.Checkout.ProcessingDelay < 0 {
		errs = append(errs, errors.New("checkout.processing_delay must not be negative"))
	}
	if c.Redis.Addr != "" && (c.Redis.CartTTL <= 0 || c.Redis.GuardTTL <= 0) {
		errs = append(errs, errors.New("redis.cart_ttl and redis.guard_ttl must be positive"))
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.Exchange == "" {
		errs = append(errs, errors.New("rabbitmq.exchange required when rabbitmq.url is set"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka.topic required when kafka.brokers is set"))
	}
	if !c.Temporal.Disabled && c.Temporal.Namespace == "" {
		errs = append(errs, errors.New("temporal.namespace required"))
	}
	return errors.Join(errs...)
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
