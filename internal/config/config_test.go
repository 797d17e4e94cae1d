package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.False(t, cfg.Server.Debug)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ProviderTemplate, cfg.Generator.Provider)
	assert.Equal(t, 2, cfg.Generator.MaxConcurrent)
	assert.Equal(t, 60*time.Second, cfg.Generator.RequestTimeout)
	assert.Equal(t, TransportLog, cfg.Email.Transport)
	assert.Equal(t, "no-reply@localhost", cfg.Email.From)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "9090")
	v.Set("DEBUG", "true")
	v.Set("COMPLETION_PROVIDER", " Groq ")
	v.Set("GROQ_API_KEY", "gsk-test")
	v.Set("GENERATOR_REQUEST_TIMEOUT", "15s")
	v.Set("EMAIL_TRANSPORT", "smtp")
	v.Set("SMTP_HOST", "smtp.example.com")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, ProviderGroq, cfg.Generator.Provider)
	assert.Equal(t, "gsk-test", cfg.Generator.GroqAPIKey)
	assert.Equal(t, 15*time.Second, cfg.Generator.RequestTimeout)
	assert.Equal(t, TransportSMTP, cfg.Email.Transport)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestFromViper_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{"unknown provider", map[string]any{"COMPLETION_PROVIDER": "bard"}, "unsupported COMPLETION_PROVIDER"},
		{"groq without key", map[string]any{"COMPLETION_PROVIDER": "groq"}, "GROQ_API_KEY"},
		{"openai without key", map[string]any{"COMPLETION_PROVIDER": "openai"}, "OPENAI_API_KEY"},
		{"anthropic without key", map[string]any{"COMPLETION_PROVIDER": "anthropic"}, "ANTHROPIC_API_KEY"},
		{"ollama without url", map[string]any{"COMPLETION_PROVIDER": "ollama", "OLLAMA_BASE_URL": ""}, "OLLAMA_BASE_URL"},
		{"smtp without host", map[string]any{"EMAIL_TRANSPORT": "smtp"}, "SMTP_HOST"},
		{"unknown transport", map[string]any{"EMAIL_TRANSPORT": "pigeon"}, "unsupported EMAIL_TRANSPORT"},
		{"bad port", map[string]any{"PORT": 0}, "PORT"},
		{"zero concurrency", map[string]any{"GENERATOR_MAX_CONCURRENT": 0}, "GENERATOR_MAX_CONCURRENT"},
		{"duration without unit", map[string]any{"READ_TIMEOUT": "30"}, "READ_TIMEOUT must be a duration"},
		{"unparseable duration", map[string]any{"GENERATOR_QUEUE_TIMEOUT": "soon"}, "GENERATOR_QUEUE_TIMEOUT must be a duration"},
		{"zero send timeout", map[string]any{"EMAIL_SEND_TIMEOUT": "0s"}, "EMAIL_SEND_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}

			_, err := FromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
