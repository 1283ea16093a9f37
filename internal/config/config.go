package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Режимы хранения
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Режимы доставки уведомлений
const (
	DeliveryInbox = "inbox" // синхронно во входящие
	DeliveryQueue = "queue" // через фоновую очередь asynq
)

// envPrefix префикс переменных окружения, переопределяющих конфиг
const envPrefix = "EFFIQ_"

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Worker        WorkerConfig        `toml:"worker"`
	Booking       BookingConfig       `toml:"booking"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	CORS          CORSConfig          `toml:"cors"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig параметры redis (pub/sub уведомлений и очередь задач)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	QueueDB  int    `toml:"queue_db"`
}

// NotificationsConfig доставка уведомлений
type NotificationsConfig struct {
	Delivery string `toml:"delivery"` // inbox | queue
	Queue    string `toml:"queue"`
	MaxRetry int    `toml:"max_retry"`
	Timeout  int    `toml:"timeout"` // секунды
}

// WorkerConfig параметры фонового воркера
type WorkerConfig struct {
	Concurrency int    `toml:"concurrency"`
	SweepCron   string `toml:"sweep_cron"` // расписание повторного уведомления листа ожидания
}

// BookingConfig параметры движка распределения
type BookingConfig struct {
	PromoteBatch      int    `toml:"promote_batch"`
	ConflictRetries   int    `toml:"conflict_retries"`
	RetryBaseDelayMs  int    `toml:"retry_base_delay_ms"`
	StorageTimeoutMs  int    `toml:"storage_timeout_ms"`
	EmergencyFeeSelf  int64  `toml:"emergency_fee_self"`
	EmergencyFeeOther int64  `toml:"emergency_fee_other"`
	AvgServiceMinutes int    `toml:"avg_service_minutes"`
	Timezone          string `toml:"timezone"`
}

// RetryBaseDelay задержка перед первым повтором
func (b BookingConfig) RetryBaseDelay() time.Duration {
	return time.Duration(b.RetryBaseDelayMs) * time.Millisecond
}

// StorageTimeout таймаут операции движка
func (b BookingConfig) StorageTimeout() time.Duration {
	return time.Duration(b.StorageTimeoutMs) * time.Millisecond
}

// Location часовая зона вычисления статуса Completed
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RateLimitConfig ограничение частоты запросов на пользователя (или IP)
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// CORSConfig параметры CORS для веб-клиента
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает конфигурацию из TOML файла, .env и переменных окружения EFFIQ_*
func Load(path string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Storage: StorageConfig{Driver: StoragePostgres},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "effiq",
			DBName:          "effiq",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{Addr: "localhost:6379", QueueDB: 1},
		Notifications: NotificationsConfig{
			Delivery: DeliveryInbox,
			Queue:    "notifications",
			MaxRetry: 5,
			Timeout:  30,
		},
		Worker: WorkerConfig{Concurrency: 10, SweepCron: "@every 1m"},
		Booking: BookingConfig{
			PromoteBatch:      3,
			ConflictRetries:   2,
			RetryBaseDelayMs:  20,
			StorageTimeoutMs:  5000,
			EmergencyFeeSelf:  100,
			EmergencyFeeOther: 0,
			AvgServiceMinutes: 15,
			Timezone:          "UTC",
		},
		Logs:      LogsConfig{Level: "info"},
		Metrics:   MetricsConfig{Enabled: true, Path: "/metrics", ServiceName: "effiq_booking"},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 20},
		CORS:      CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() error {
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Logs.Level, "LOG_LEVEL")

	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(envPrefix + "REDIS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sREDIS_ENABLED: %v", ErrInvalidConfig, envPrefix, err)
		}
		c.Redis.Enabled = enabled
	}
	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		problems = append(problems, fmt.Sprintf("storage.driver must be %q or %q", StoragePostgres, StorageMemory))
	}
	switch c.Notifications.Delivery {
	case DeliveryInbox:
	case DeliveryQueue:
		if !c.Redis.Enabled {
			problems = append(problems, "notifications.delivery=queue requires redis.enabled")
		}
	default:
		problems = append(problems, fmt.Sprintf("notifications.delivery must be %q or %q", DeliveryInbox, DeliveryQueue))
	}
	if c.Booking.PromoteBatch <= 0 {
		problems = append(problems, "booking.promote_batch must be positive")
	}
	if c.Booking.ConflictRetries < 0 {
		problems = append(problems, "booking.conflict_retries must not be negative")
	}
	if c.Booking.EmergencyFeeSelf < 0 || c.Booking.EmergencyFeeOther < 0 {
		problems = append(problems, "booking emergency fees must not be negative")
	}
	if c.Booking.AvgServiceMinutes <= 0 {
		problems = append(problems, "booking.avg_service_minutes must be positive")
	}
	if _, err := c.Booking.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone: %v", err))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit requires positive requests_per_second and burst")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, key, err)
	}
	*dst = n
	return nil
}
