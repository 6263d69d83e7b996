package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sefaria-community/sefaria-mcp/internal/config"
	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Sefaria MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	// zap's development config writes to stderr; stdout is reserved for
	// the MCP protocol
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	log := logging.FromZap(zapLogger)

	cfg := config.Load()
	logging.Infof(log, "Sefaria MCP Server v%s starting, upstream %s, timeout %s",
		version, cfg.BaseURL, cfg.HTTPTimeout)

	server := mcp.NewServer(cfg, log)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Info("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logging.Infof(log, "received signal %v, shutting down", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			logging.Errorf(log, "server error: %v", err)
			os.Exit(1)
		}
	}

	log.Info("Server stopped")
}
