// ABOUTME: Entry point for the hearth-gateway MCP server.
// ABOUTME: Serves smart-home tools over stdio; stdout is the protocol channel.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/hearthlabs/hearth-gateway/internal/backend"
	"github.com/hearthlabs/hearth-gateway/internal/command"
	"github.com/hearthlabs/hearth-gateway/internal/config"
	"github.com/hearthlabs/hearth-gateway/internal/gateway"
	"github.com/hearthlabs/hearth-gateway/internal/mcp"
	"github.com/hearthlabs/hearth-gateway/internal/prompts"
	"github.com/hearthlabs/hearth-gateway/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the gateway config file, or "" when no
// file exists and configuration is environment-only.
// Priority: HEARTH_CONFIG env var > XDG_CONFIG_HOME/hearth/gateway.yaml > ~/.config/hearth/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv(config.EnvConfig); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	path := filepath.Join(configDir, "hearth", "gateway.yaml")
	if _, err := os.Stat(path); err != nil {
		return "" // no file; env vars only
	}
	return path
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprintln(os.Stderr, "Usage: hearth-gateway [command]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  serve    Serve MCP over stdio (default)")
		fmt.Fprintln(os.Stderr, "  health   Check backend connectivity and credentials")
		fmt.Fprintln(os.Stderr, "  version  Print the version")
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Missing credential fails here, before any tool registration.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout carries the protocol; all diagnostics go to stderr.
	logger := setupLogger(cfg.Logging)

	logger.Info("starting hearth-gateway",
		"version", version,
		"config", configPath,
		"base_url", cfg.Backend.BaseURL,
		"strict_delay", cfg.Validation.StrictDelay,
	)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, logger)
	resolver := backend.NewSessionResolver(client, logger)

	gw, err := gateway.New(gateway.Config{
		Client:    client,
		Sessions:  resolver,
		Validator: command.Validator{StrictDelay: cfg.Validation.StrictDelay},
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	registry := mcp.NewRegistry()
	tools.Register(registry, gw)
	prompts.Register(registry)

	server, err := mcp.NewServer(mcp.Config{
		Registry: registry,
		Logger:   logger,
		Name:     "hearth-gateway",
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	err = server.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

// runHealth verifies the credential against the backend by fetching the
// session descriptor, and prints a human-readable verdict.
func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)

	gray.Printf("backend: %s\n", cfg.Backend.BaseURL)

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	resolver := backend.NewSessionResolver(client, nil)

	sess, err := resolver.Resolve(ctx)
	if err != nil {
		red.Print("✗ ")
		fmt.Printf("session resolution failed: %v\n", err)
		return errors.New("backend unhealthy")
	}

	green.Print("✓ ")
	fmt.Printf("authenticated (userId=%s homeId=%s)\n", sess.UserID, sess.HomeID)

	listPath := fmt.Sprintf("%s?userId=%s&homeId=%s", backend.ListPath, sess.UserID, sess.HomeID)
	if _, err := client.RequestText(ctx, http.MethodGet, listPath, nil); err != nil {
		red.Print("✗ ")
		fmt.Printf("entity listing failed: %v\n", err)
		return errors.New("backend unhealthy")
	}

	green.Print("✓ ")
	fmt.Println("entity listing reachable")
	return nil
}

// setupLogger builds the stderr logger from config.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
