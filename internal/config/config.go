package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the seeder.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Seeding   SeedingConfig   `mapstructure:"seeding"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	ServiceName  string `mapstructure:"service_name"`
	LogLevel     string `mapstructure:"log_level"`
}

// DatabaseConfig selects the gorm dialect. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	LogLevel string         `mapstructure:"log_level"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// DSN renders the connection URL shared by the gorm dialect and the pgx probe.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DB, c.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type SeedingConfig struct {
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
}

// NATSConfig points at the JetStream server used for seeder events. An empty
// URL disables event publishing.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig points at the Redis instance holding the seed lock. An empty
// host disables the lock.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads config from the optional YAML file at path, then overlays
// environment variables with the SEEDER_ prefix (e.g. SEEDER_SERVER_PORT).
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SEEDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("telemetry.otlp_endpoint", "arc-friday-collector:4317")
	v.SetDefault("telemetry.otlp_insecure", true)
	v.SetDefault("telemetry.service_name", "arc-seeder")
	v.SetDefault("telemetry.log_level", "info")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.postgres.host", "arc-oracle")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "arc")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.db", "arc_db")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_conns", 10)
	v.SetDefault("database.sqlite.path", "seeder.db")

	v.SetDefault("seeding.on_startup", true)
	v.SetDefault("seeding.timeout", 2*time.Minute)
	v.SetDefault("seeding.lock_ttl", 2*time.Minute)

	v.SetDefault("nats.url", "nats://arc-flash:4222")

	v.SetDefault("redis.host", "arc-sonic")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}
