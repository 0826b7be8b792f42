package main

import (
	"fmt"
	"os"

	"github.com/jokehub-dev/jokehub/internal/config"
	"github.com/jokehub-dev/jokehub/internal/logger"
	"github.com/jokehub-dev/jokehub/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration; a missing SESSION_SECRET aborts startup here
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Msg("Starting JokeHub server...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
