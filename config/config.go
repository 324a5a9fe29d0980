package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RetryConfig struct {
	Attempts  int           `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"baseDelay"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Schema string `mapstructure:"schema"`
}

type LoyaltyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SessionConfig struct {
	MaxIdle       time.Duration `mapstructure:"maxIdle"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Store   StoreConfig   `mapstructure:"store"`
	Loyalty LoyaltyConfig `mapstructure:"loyalty"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

var vp *viper.Viper

func LoadConfig() (Config, error) {
	return load("config")
}

func load(path string) (Config, error) {
	vp = viper.New()

	var config Config

	setDefaults(vp)

	vp.SetConfigName("config")
	vp.SetConfigType("json")
	vp.AddConfigPath(path)

	err := vp.ReadInConfig()
	if err != nil {
		return Config{}, err
	}

	err = vp.Unmarshal(&config)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("server.port", "8080")
	vp.SetDefault("backend.timeout", "10s")
	vp.SetDefault("retry.attempts", 3)
	vp.SetDefault("retry.baseDelay", "1s")
	vp.SetDefault("cache.ttl", "5m")
	vp.SetDefault("store.driver", StoreMemory)
	vp.SetDefault("store.schema", "public")
	vp.SetDefault("session.maxIdle", "24h")
	vp.SetDefault("session.sweepInterval", "10m")
}
