package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Etcd    EtcdConfig    `mapstructure:"etcd"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Storage StorageConfig `mapstructure:"storage"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Actor   ActorConfig   `mapstructure:"actor"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig describes the gRPC health endpoint.
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type GatewayConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Name string `mapstructure:"name"`
}

type EtcdConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Endpoints   []string `mapstructure:"endpoints"`
	DialTimeout int      `mapstructure:"dial_timeout"` // seconds
	Prefix      string   `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// StorageConfig selects the backends behind the persisted key layout.
// Backend is "memory" or "redis"; Orders is "kv" or "mysql".
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Orders  string `mapstructure:"orders"`
}

type CatalogConfig struct {
	ProductsLatency   time.Duration `mapstructure:"products_latency"`
	ProductLatency    time.Duration `mapstructure:"product_latency"`
	CategoriesLatency time.Duration `mapstructure:"categories_latency"`
	SettingsLatency   time.Duration `mapstructure:"settings_latency"`
}

type AuthConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

type ActorConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	IOTimeout      time.Duration `mapstructure:"io_timeout"`

	// SessionIdleTimeout stops a shopper that received nothing for this
	// long. Zero keeps shoppers until shutdown.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	OrdersKV      = "kv"
	OrdersMySQL   = "mysql"
)

// Load reads configPath (YAML) on top of the defaults. An empty path loads
// defaults and environment overrides only. Environment variables use the
// TWEENSHOP_ prefix with dots replaced by underscores, e.g.
// TWEENSHOP_STORAGE_BACKEND.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("tweenshop")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "tweenshop-grpc")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)

	v.SetDefault("gateway.name", "tweenshop-gateway")
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)

	v.SetDefault("etcd.enabled", false)
	v.SetDefault("etcd.endpoints", []string{"localhost:2379"})
	v.SetDefault("etcd.dial_timeout", 5)
	v.SetDefault("etcd.prefix", "/services/")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "tweenshop:")

	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.database", "tweenshop")
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("mysql.max_open_conns", 20)

	v.SetDefault("mongodb.enabled", false)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "tweenshop")
	v.SetDefault("mongodb.collection", "audit_logs")

	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.orders", OrdersKV)

	v.SetDefault("catalog.products_latency", 120*time.Millisecond)
	v.SetDefault("catalog.product_latency", 80*time.Millisecond)
	v.SetDefault("catalog.categories_latency", 60*time.Millisecond)
	v.SetDefault("catalog.settings_latency", 30*time.Millisecond)

	v.SetDefault("auth.admin_email", "rama.gueye@tweenshop.sn")
	v.SetDefault("auth.admin_password", "passer")

	v.SetDefault("actor.request_timeout", 5*time.Second)
	v.SetDefault("actor.io_timeout", 3*time.Second)
	v.SetDefault("actor.session_idle_timeout", 30*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.Orders {
	case OrdersKV, OrdersMySQL:
	default:
		return fmt.Errorf("unknown order storage %q", c.Storage.Orders)
	}
	if c.Actor.RequestTimeout <= 0 {
		return fmt.Errorf("actor.request_timeout must be positive")
	}
	if c.Actor.SessionIdleTimeout < 0 {
		return fmt.Errorf("actor.session_idle_timeout must not be negative")
	}
	return nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
