package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Iiko     IikoConfig     `mapstructure:"iiko"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Cart     CartConfig     `mapstructure:"cart"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log output settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts log settings into logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig holds connection pool settings.
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig holds redis cache settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// IikoConfig holds iiko Cloud API settings.
type IikoConfig struct {
	BaseURL          string           `mapstructure:"base_url"`
	APILogin         string           `mapstructure:"api_login"`
	OrganizationID   string           `mapstructure:"organization_id"`
	TerminalGroupID  string           `mapstructure:"terminal_group_id"`
	WebhookAuthToken string           `mapstructure:"webhook_auth_token"`
	TimeoutSeconds   int              `mapstructure:"timeout_seconds"`
	Submission       SubmissionConfig `mapstructure:"submission"`
}

// Timeout returns the HTTP timeout for POS requests.
func (c IikoConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SubmissionConfig holds delivery submission retry settings.
type SubmissionConfig struct {
	Attempts          int `mapstructure:"attempts"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds"`
}

// RetryDelay returns the delay between submission attempts.
func (c SubmissionConfig) RetryDelay() time.Duration {
	if c.RetryDelaySeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// SyncConfig holds periodic sync settings.
type SyncConfig struct {
	StopListIntervalMinutes  int `mapstructure:"stop_list_interval_minutes"`
	OrderPollIntervalSeconds int `mapstructure:"order_poll_interval_seconds"`
}

// StopListInterval returns the period between stop list refreshes.
func (c SyncConfig) StopListInterval() time.Duration {
	if c.StopListIntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.StopListIntervalMinutes) * time.Minute
}

// OrderPollInterval returns the period between order status sweeps.
func (c SyncConfig) OrderPollInterval() time.Duration {
	if c.OrderPollIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.OrderPollIntervalSeconds) * time.Second
}

// CartConfig holds cart storage settings.
type CartConfig struct {
	TTLHours int `mapstructure:"ttl_hours"`
}

// TTL returns the cart retention period.
func (c CartConfig) TTL() time.Duration {
	if c.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TTLHours) * time.Hour
}

// AdminConfig holds admin API settings.
type AdminConfig struct {
	APIToken string `mapstructure:"api_token"`
}

// Load reads configuration from config.yml, environment and defaults.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "foodtech.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/foodtech.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "ft")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("iiko.base_url", "https://api-ru.iiko.services")
	viper.SetDefault("iiko.api_login", "")
	viper.SetDefault("iiko.organization_id", "")
	viper.SetDefault("iiko.terminal_group_id", "")
	viper.SetDefault("iiko.webhook_auth_token", "")
	viper.SetDefault("iiko.timeout_seconds", 15)
	viper.SetDefault("iiko.submission.attempts", 3)
	viper.SetDefault("iiko.submission.retry_delay_seconds", 2)
	viper.SetDefault("sync.stop_list_interval_minutes", 10)
	viper.SetDefault("sync.order_poll_interval_seconds", 60)
	viper.SetDefault("cart.ttl_hours", 24)
	viper.SetDefault("admin.api_token", "")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("config parse failed: %w", err))
	}

	return &cfg
}
