package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
)

// Completion providers
const (
	ProviderTemplate  = "template"
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Email transports
const (
	TransportLog  = "log"
	TransportSMTP = "smtp"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Generator GeneratorConfig `json:"generator"`
	Email     EmailConfig     `json:"email"`
}

type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Debug        bool          `json:"debug"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	BodyLimit    int           `json:"body_limit"`
	AllowOrigins string        `json:"allow_origins"`
}

// Addr is the listen address for fiber.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GeneratorConfig struct {
	Provider        string        `json:"provider"`
	Model           string        `json:"model,omitempty"`
	GroqAPIKey      string        `json:"groq_api_key,omitempty"`
	OpenAIAPIKey    string        `json:"openai_api_key,omitempty"`
	OpenAIBaseURL   string        `json:"openai_base_url,omitempty"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	OllamaBaseURL   string        `json:"ollama_base_url,omitempty"`
	MaxConcurrent   int           `json:"max_concurrent"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	QueueTimeout    time.Duration `json:"queue_timeout"`
}

type EmailConfig struct {
	Transport   string        `json:"transport"`
	SMTPHost    string        `json:"smtp_host,omitempty"`
	SMTPPort    int           `json:"smtp_port,omitempty"`
	SMTPUser    string        `json:"smtp_user,omitempty"`
	SMTPPass    string        `json:"smtp_pass,omitempty"`
	From        string        `json:"from"`
	SendTimeout time.Duration `json:"send_timeout"`
}

// Load reads configuration from the environment.
// Explicit environment variables win over values from a .env file,
// which win over the defaults below.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using environment variables and defaults")
	}

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	durations := make(map[string]time.Duration, len(durationKeys))
	for _, key := range durationKeys {
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return nil, fmt.Errorf("configuration validation failed: %s must be a duration with a unit such as 30s: %w", key, err)
		}
		durations[key] = d
	}

	config := &Config{
		Server: ServerConfig{
			Host:         v.GetString("HOST"),
			Port:         v.GetInt("PORT"),
			Debug:        v.GetBool("DEBUG"),
			ReadTimeout:  durations["READ_TIMEOUT"],
			WriteTimeout: durations["WRITE_TIMEOUT"],
			BodyLimit:    v.GetInt("BODY_LIMIT"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Generator: GeneratorConfig{
			Provider:        strings.ToLower(strings.TrimSpace(v.GetString("COMPLETION_PROVIDER"))),
			Model:           v.GetString("COMPLETION_MODEL"),
			GroqAPIKey:      v.GetString("GROQ_API_KEY"),
			OpenAIAPIKey:    v.GetString("OPENAI_API_KEY"),
			OpenAIBaseURL:   v.GetString("OPENAI_BASE_URL"),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			OllamaBaseURL:   v.GetString("OLLAMA_BASE_URL"),
			MaxConcurrent:   v.GetInt("GENERATOR_MAX_CONCURRENT"),
			RequestTimeout:  durations["GENERATOR_REQUEST_TIMEOUT"],
			QueueTimeout:    durations["GENERATOR_QUEUE_TIMEOUT"],
		},
		Email: EmailConfig{
			Transport:   strings.ToLower(strings.TrimSpace(v.GetString("EMAIL_TRANSPORT"))),
			SMTPHost:    v.GetString("SMTP_HOST"),
			SMTPPort:    v.GetInt("SMTP_PORT"),
			SMTPUser:    v.GetString("SMTP_USER"),
			SMTPPass:    v.GetString("SMTP_PASS"),
			From:        v.GetString("SMTP_FROM"),
			SendTimeout: durations["EMAIL_SEND_TIMEOUT"],
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// durationKeys are parsed with time.ParseDuration; a bare number is rejected.
var durationKeys = []string{
	"READ_TIMEOUT",
	"WRITE_TIMEOUT",
	"GENERATOR_REQUEST_TIMEOUT",
	"GENERATOR_QUEUE_TIMEOUT",
	"EMAIL_SEND_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 5000)
	v.SetDefault("DEBUG", false)
	v.SetDefault("READ_TIMEOUT", "30s")
	v.SetDefault("WRITE_TIMEOUT", "30s")
	v.SetDefault("BODY_LIMIT", 1<<20)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	v.SetDefault("COMPLETION_PROVIDER", ProviderTemplate)
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("GENERATOR_MAX_CONCURRENT", 2)
	v.SetDefault("GENERATOR_REQUEST_TIMEOUT", "60s")
	v.SetDefault("GENERATOR_QUEUE_TIMEOUT", "5s")

	v.SetDefault("EMAIL_TRANSPORT", TransportLog)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "no-reply@localhost")
	v.SetDefault("EMAIL_SEND_TIMEOUT", "30s")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("BODY_LIMIT must be positive")
	}

	switch c.Generator.Provider {
	case ProviderTemplate:
	case ProviderGroq:
		if c.Generator.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when using Groq provider")
		}
	case ProviderOpenAI:
		if c.Generator.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case ProviderAnthropic:
		if c.Generator.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when using Anthropic provider")
		}
	case ProviderOllama:
		if c.Generator.OllamaBaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL is required when using Ollama provider")
		}
	default:
		return fmt.Errorf("unsupported COMPLETION_PROVIDER: %s (supported: template, groq, openai, anthropic, ollama)", c.Generator.Provider)
	}

	if c.Generator.MaxConcurrent <= 0 {
		return fmt.Errorf("GENERATOR_MAX_CONCURRENT must be positive")
	}
	if c.Generator.RequestTimeout <= 0 || c.Generator.QueueTimeout <= 0 {
		return fmt.Errorf("generator timeouts must be positive")
	}

	switch c.Email.Transport {
	case TransportLog:
	case TransportSMTP:
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when using smtp transport")
		}
		if c.Email.SMTPPort <= 0 {
			return fmt.Errorf("SMTP_PORT must be positive")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_TRANSPORT: %s (supported: log, smtp)", c.Email.Transport)
	}

	if c.Email.SendTimeout <= 0 {
		return fmt.Errorf("EMAIL_SEND_TIMEOUT must be positive")
	}
	if c.Email.From == "" {
		return fmt.Errorf("SMTP_FROM must not be empty")
	}

	return nil
}
