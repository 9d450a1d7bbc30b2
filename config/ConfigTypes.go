package config

import (
	"time"

	"CryptoReportBot/internal/services/analysis"
)

type Config struct {
	Exchange  ExchangeConfig  `mapstructure:"exchange" yaml:"exchange"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka" yaml:"kafka"`
	Telegram  TelegramConfig  `mapstructure:"telegram" yaml:"telegram"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Symbols   []string        `mapstructure:"symbols" yaml:"symbols" validate:"min=1,dive,required"`
	Analysis  analysis.Config `mapstructure:"analysis" yaml:"analysis"`
}

type ExchangeConfig struct {
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"`
	SecretKey         string  `mapstructure:"secret_key" yaml:"secret_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" yaml:"burst" validate:"gte=1"`
	CandleLimit       int     `mapstructure:"candle_limit" yaml:"candle_limit" validate:"gte=50,lte=1500"`

	// BaseURL overrides the futures endpoint, e.g. for the testnet.
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// DatabaseConfig selects the candle store. An empty Driver disables it.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" yaml:"driver" validate:"omitempty,oneof=postgres sqlite"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"db_name" yaml:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	Path     string `mapstructure:"path" yaml:"path"`

	// Retention is how long recorded candles are kept. Zero keeps them.
	Retention time.Duration `mapstructure:"retention" yaml:"retention" validate:"gte=0"`
}

// RedisConfig enables the candle cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
}

// KafkaConfig enables report publishing when Brokers is set.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers,omitempty"`
	Topic   string   `mapstructure:"topic" yaml:"topic" validate:"required_with=Brokers"`
}

// TelegramConfig enables the bot when Token is set. ChatID receives the
// scheduled reports.
type TelegramConfig struct {
	Token  string `mapstructure:"token" yaml:"token"`
	ChatID int64  `mapstructure:"chat_id" yaml:"chat_id"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port" yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gt=0"`
}

type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Symbol       string        `mapstructure:"symbol" yaml:"symbol" validate:"required"`
	Interval     time.Duration `mapstructure:"interval" yaml:"interval" validate:"gte=1m"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout" validate:"gt=0"`
	MaxElapsed   time.Duration `mapstructure:"max_elapsed" yaml:"max_elapsed" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}
