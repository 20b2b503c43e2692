package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/appsmith/internal/config"
	"git.home.luguber.info/inful/appsmith/internal/forge"
	"git.home.luguber.info/inful/appsmith/internal/genai"
	"git.home.luguber.info/inful/appsmith/internal/history"
	"git.home.luguber.info/inful/appsmith/internal/metrics"
	"git.home.luguber.info/inful/appsmith/internal/notify"
	"git.home.luguber.info/inful/appsmith/internal/pipeline"
	"git.home.luguber.info/inful/appsmith/internal/publish"
	"git.home.luguber.info/inful/appsmith/internal/server/httpserver"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"appsmith.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
	} `cmd:"" help:"Run the build service"`

	CheckConfig struct {
	} `cmd:"" help:"Validate configuration and exit"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// .env files never override the process environment.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment variables from .env")
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "serve":
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid configuration", "error", err)
			os.Exit(1)
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "check-config":
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid configuration", "error", err)
			os.Exit(1)
		}
		fmt.Println("configuration ok")
	}
}

func runServe(cfg *config.Config) error {
	slog.Info("Starting appsmith",
		"listen_port", cfg.Server.ListenPort,
		"admin_port", cfg.Server.AdminPort,
		"github_owner", cfg.GitHubOwner)

	// Create main context for the service
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	generator, err := genai.NewClient(cfg.GroqAPIKey, cfg.GroqAPIURL)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	forgeClient, err := forge.NewGitHubClient(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubAPIURL, cfg.GitHubHTMLURL)
	if err != nil {
		return fmt.Errorf("failed to create forge client: %w", err)
	}

	store, err := history.NewStore(cfg.Server.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", "error", err)
		}
	}()

	registry := prom.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	pipe := pipeline.New(
		generator,
		publish.NewPublisher(forgeClient),
		forgeClient,
		notify.NewNotifier(),
		recorder,
		store,
	)

	srv := httpserver.New(cfg, pipe, store, registry)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP servers: %w", err)
	}

	slog.Info("Service started, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP servers: %w", err)
	}

	slog.Info("Service stopped successfully")
	return nil
}
