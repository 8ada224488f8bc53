package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Database  DatabaseConfig
	Providers ProvidersConfig
	Relay     RelayConfig
	Mail      MailConfig
	Client    ClientConfig
	Quiz      QuizConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// TelemetryConfig controls the OpenTelemetry file exporters.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// DatabaseConfig selects the database/sql driver ("sqlite" or "pgx") and its DSN.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// ProviderConfig describes one OpenAI-compatible upstream.
type ProviderConfig struct {
	Name             string  `mapstructure:"name"`
	BaseURL          string  `mapstructure:"base_url"`
	APIKey           string  `mapstructure:"api_key"`
	Model            string  `mapstructure:"model"`
	History          int     `mapstructure:"history"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Temperature      float32 `mapstructure:"temperature"`
	TopP             float32 `mapstructure:"top_p"`
	FrequencyPenalty float32 `mapstructure:"frequency_penalty"`
	PresencePenalty  float32 `mapstructure:"presence_penalty"`
}

// Enabled reports whether the provider has enough configuration to be called.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != "" && p.Model != ""
}

// ProvidersConfig holds the primary and secondary providers, tried in that order.
type ProvidersConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// RelayConfig holds relay tuning.
type RelayConfig struct {
	WordInterval time.Duration `mapstructure:"word_interval"`
}

// MailConfig holds the mail API configuration used for notifications.
type MailConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	From    string `mapstructure:"from"`
}

// ClientConfig holds the terminal chat client configuration.
type ClientConfig struct {
	RelayURL string `mapstructure:"relay_url"`
	UserID   string `mapstructure:"user_id"`
}

// QuizConfig holds quiz timing.
type QuizConfig struct {
	QuestionTime time.Duration `mapstructure:"question_time"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dir", "logs")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "prepbuddy.db")

	v.SetDefault("providers.primary.name", "openai")
	v.SetDefault("providers.primary.base_url", "https://api.openai.com/v1")
	v.SetDefault("providers.primary.model", "gpt-3.5-turbo")
	v.SetDefault("providers.primary.history", 10)
	v.SetDefault("providers.primary.max_tokens", 2000)
	v.SetDefault("providers.primary.temperature", 0.7)
	v.SetDefault("providers.primary.top_p", 0.9)
	v.SetDefault("providers.primary.frequency_penalty", 0.1)
	v.SetDefault("providers.primary.presence_penalty", 0.1)

	v.SetDefault("providers.secondary.name", "groq")
	v.SetDefault("providers.secondary.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("providers.secondary.model", "mixtral-8x7b-32768")
	v.SetDefault("providers.secondary.history", 8)
	v.SetDefault("providers.secondary.max_tokens", 2000)
	v.SetDefault("providers.secondary.temperature", 0.7)
	v.SetDefault("providers.secondary.top_p", 0.9)

	v.SetDefault("relay.word_interval", 50*time.Millisecond)
	v.SetDefault("mail.base_url", "https://api.resend.com")
	v.SetDefault("mail.from", "PrepBuddy <notifications@prepbuddy.com>")
	v.SetDefault("client.relay_url", "http://localhost:8080/functions/v1/ai-assistant")
	v.SetDefault("quiz.question_time", 30*time.Second)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"providers.primary.api_key":   "OPENAI_API_KEY",
		"providers.secondary.api_key": "GROQ_API_KEY",
		"mail.api_key":                "RESEND_API_KEY",
		"database.dsn":                "DATABASE_URL",
		"log.level":                   "LOG_LEVEL",
		"client.relay_url":            "PREPBUDDY_RELAY_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Load loads the configuration from config.yaml, or from the file named by
// CONFIG_PATH, layered over defaults and environment variables. A missing
// config.yaml is not an error.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("PREPBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
