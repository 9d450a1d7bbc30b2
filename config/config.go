package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"CryptoReportBot/internal/services/analysis"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			RequestsPerSecond: 10,
			Burst:             5,
			CandleLimit:       200,
		},
		Database: DatabaseConfig{
			Port:      5432,
			SSLMode:   "disable",
			Retention: 30 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			TTL: time.Minute,
		},
		Kafka: KafkaConfig{
			Topic: "analysis-reports",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			Symbol:       "ETHUSDT",
			Interval:     time.Hour,
			FetchTimeout: 30 * time.Second,
			MaxElapsed:   5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Symbols:  []string{"BTCUSDT", "ETHUSDT"},
		Analysis: analysis.DefaultConfig(),
	}
}

// envAliases keeps the variable names of existing .env files working.
var envAliases = map[string][]string{
	"exchange.api_key":    {"BINANCE_API_KEY"},
	"exchange.secret_key": {"BINANCE_SECRET_KEY"},
	"database.host":       {"DB_HOST"},
	"database.port":       {"DB_PORT"},
	"database.user":       {"DB_USER"},
	"database.password":   {"DB_PASSWORD"},
	"database.db_name":    {"DB_NAME"},
	"symbols":             {"TRADING_SYMBOLS"},
	"telegram.token":      {"TELEGRAM_BOT_TOKEN"},
	"kafka.brokers":       {"KAFKA_BROKERS"},
	"redis.addr":          {"REDIS_ADDR"},
}

// Load builds the configuration from defaults, an optional YAML file at
// path, a .env file in the working directory and the environment, in
// increasing priority. The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to read defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		input := []string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		for _, alias := range aliases {
			if alias != input[1] {
				input = append(input, alias)
			}
		}
		if err := v.BindEnv(input...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks the service settings and then the analysis constants.
// Failures are *analysis.ConfigurationError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			reason := "failed " + fe.Tag()
			if fe.Param() != "" {
				reason += "=" + fe.Param()
			}
			return &analysis.ConfigurationError{Field: fe.Namespace(), Reason: reason}
		}
		return &analysis.ConfigurationError{Field: "Config", Reason: err.Error()}
	}

	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		return &analysis.ConfigurationError{Field: "Config.Database.Path", Reason: "required for the sqlite driver"}
	}
	if c.Database.Driver == "postgres" && (c.Database.Host == "" || c.Database.DBName == "") {
		return &analysis.ConfigurationError{Field: "Config.Database.Host", Reason: "host and db_name are required for the postgres driver"}
	}

	return c.Analysis.Validate()
}

// PostgresDSN returns the connection string in the form gorm's postgres
// driver expects.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

// SaveToFile writes cfg as YAML. Secrets are written as given.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
