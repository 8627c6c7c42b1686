package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	QR       QRConfig       `mapstructure:"qr"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// OracleConfig tunes the price aggregator: which assets it tracks, how long
// a quote stays fresh, and where the live sources are reached.
type OracleConfig struct {
	BaseCurrency     string        `mapstructure:"base_currency"`
	TrackedAssets    []string      `mapstructure:"tracked_assets"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	SourceTimeout    time.Duration `mapstructure:"source_timeout"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	MarginPercent    float64       `mapstructure:"margin_percent"`
	TolerancePercent float64       `mapstructure:"tolerance_percent"`
	CriptoYaURL      string        `mapstructure:"criptoya_url"`
	BuenbitURL       string        `mapstructure:"buenbit_url"`
	BinanceURL       string        `mapstructure:"binance_url"`
	// FallbackRates are last-resort static prices keyed "ASSET_BASE".
	FallbackRates map[string]float64 `mapstructure:"fallback_rates"`
}

type QRConfig struct {
	ImageSize  int           `mapstructure:"image_size"` // pixels per side
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CQG_ (Crypto QR Gateway).
// Nested keys use underscore: CQG_DATABASE_HOST, CQG_ORACLE_CACHE_TTL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "qr_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("oracle.base_currency", "ARS")
	v.SetDefault("oracle.tracked_assets", []string{"USDT", "BTC", "ETH"})
	v.SetDefault("oracle.cache_ttl", "30s")
	v.SetDefault("oracle.source_timeout", "5s")
	v.SetDefault("oracle.refresh_interval", "30s")
	v.SetDefault("oracle.margin_percent", 2.0)
	v.SetDefault("oracle.tolerance_percent", 5.0)
	v.SetDefault("oracle.criptoya_url", "https://criptoya.com")
	v.SetDefault("oracle.buenbit_url", "https://be.buenbit.com")
	v.SetDefault("oracle.binance_url", "https://api.binance.com")
	v.SetDefault("qr.image_size", 512)
	v.SetDefault("qr.session_ttl", "15m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CQG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CQG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
