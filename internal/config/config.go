package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the public web server configuration
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the health and metrics server configuration
	Store      StoreConfig      `yaml:"store"`      // Store selects and configures the remote document backend
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the database configuration
	Redis      RedisConfig      `yaml:"redis"`      // Redis holds the redis configuration
	Card       CardConfig       `yaml:"card"`       // Card holds vCard settings
}

// HTTPConfig struct holds the configuration of the public web server.
type HTTPConfig struct {
	Port    string `yaml:"port"`     // Port is the listening port.
	BaseURL string `yaml:"base_url"` // BaseURL is the public origin used to build share links.
}

// MonitoringConfig struct holds the configuration of the monitoring server.
type MonitoringConfig struct {
	Port string `yaml:"port"`
}

// StoreConfig struct selects the remote document backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // Driver is one of memory, postgres, redis.
	Key    string `yaml:"key"`    // Key is the document holding the employee collection.
	Seed   bool   `yaml:"seed"`   // Seed shows the sample employees while the document is empty.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// RedisConfig struct holds the configuration details for connecting to Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"` // Prefix is prepended to every key and channel.
}

// CardConfig struct holds the vCard settings.
type CardConfig struct {
	Organization string `yaml:"organization"` // Organization is written to the ORG line of every card.
}

// MustLoad loads the configuration from defaults, an optional YAML file named by
// CONFIG_PATH and IRIS_* environment variables, in increasing priority.
func MustLoad() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("IRIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:    v.GetString("http.port"),
			BaseURL: v.GetString("http.base_url"),
		},
		Monitoring: MonitoringConfig{
			Port: v.GetString("monitoring.port"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Key:    v.GetString("store.key"),
			Seed:   v.GetBool("store.seed"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Dbname:   v.GetString("postgres.db_name"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Card: CardConfig{
			Organization: v.GetString("card.organization"),
		},
	}

	switch cfg.Store.Driver {
	case DriverMemory, DriverPostgres, DriverRedis:
	default:
		panic("unknown store driver: " + cfg.Store.Driver)
	}

	if cfg.Store.Key == "" {
		panic("store key is empty")
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.base_url", "http://localhost:8080/")
	v.SetDefault("monitoring.port", "9090")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.key", "employees")
	v.SetDefault("store.seed", true)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "iris")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "iris:")
	v.SetDefault("card.organization", "SELCO India")
}
