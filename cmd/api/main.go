// AI Email Sender - prompt-to-draft email composer
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/HarishchandraChaudhary/ai-email-sender/internal/api"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/config"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/generator"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/mailer"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/pkg/log"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/platform/email"
	"github.com/HarishchandraChaudhary/ai-email-sender/internal/platform/llm"
)

const (
	serviceName    = "ai-email-sender"
	serviceVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if cfg.Server.Debug {
		log.SetLevel(log.LevelDebug)
		log.InfoStruct(cfg.Server)
	}

	gen, err := buildGenerator(cfg.Generator)
	if err != nil {
		log.Error("Failed to create generator: %v", err)
		os.Exit(1)
	}

	dispatcher, err := buildDispatcher(cfg.Email)
	if err != nil {
		log.Error("Failed to create email dispatcher: %v", err)
		os.Exit(1)
	}

	handler := api.NewHandler(gen, dispatcher, api.HandlerConfig{
		Debug:         cfg.Server.Debug,
		SendTimeout:   cfg.Email.SendTimeout,
		GeneratorName: cfg.Generator.Provider,
		TransportName: cfg.Email.Transport,
	})
	app := api.Router(handler, cfg.Server)

	go func() {
		addr := cfg.Server.Addr()
		log.Info("Starting %s %s on %s", serviceName, serviceVersion, addr)
		log.Info("Generator: %s, email transport: %s", cfg.Generator.Provider, cfg.Email.Transport)

		if err := app.Listen(addr); err != nil {
			log.Error("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

func buildGenerator(cfg config.GeneratorConfig) (generator.Generator, error) {
	if cfg.Provider == config.ProviderTemplate {
		log.Info("✓ Generator: template (offline)")
		return generator.NewTemplateGenerator(), nil
	}

	client, err := llm.NewCompletionClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s completion client: %w", cfg.Provider, err)
	}
	model := llm.NewLangChainAdapter(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := model.Health(ctx); err != nil {
		log.Warn("Health check failed for %s: %v", cfg.Provider, err)
		log.Warn("Continuing startup, but generation may fail until the provider is reachable")
	}

	log.Info("✓ Generator: %s (max concurrent: %d)", cfg.Provider, cfg.MaxConcurrent)
	return generator.NewService(model, generator.ServiceConfig{
		MaxConcurrent:  cfg.MaxConcurrent,
		RequestTimeout: cfg.RequestTimeout,
		QueueTimeout:   cfg.QueueTimeout,
	}), nil
}

func buildDispatcher(cfg config.EmailConfig) (mailer.Dispatcher, error) {
	if cfg.Transport == config.TransportLog {
		log.Info("✓ Email transport: simulated")
		return mailer.NewSimulated(email.NewLogSender(nil), cfg.From), nil
	}

	sender, err := email.NewSMTPSender(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort), cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		return nil, err
	}
	log.Info("✓ Email transport: smtp (%s:%d)", cfg.SMTPHost, cfg.SMTPPort)
	return mailer.NewService(sender, cfg.From, mailer.ConfirmationSent), nil
}
