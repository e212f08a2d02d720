package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/EdgeLink/backend/internal/infrastructure/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides PORT)")
	prefs := flag.String("prefs", "", "Shell preference file, .yaml or .toml (overrides SHELL_PREFS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *prefs != "" {
		cfg.Shell.PrefsPath = *prefs
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Printf("Server stopped with error: %v", err)
		os.Exit(1)
	}
}
