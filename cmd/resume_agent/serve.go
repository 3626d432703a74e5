package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the resume optimization, parsing and academic search endpoints.

Requires GEMINI_API_KEY. SERP_API_KEY and SCOPUS_API_KEY enable the search proxies.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var overrides config.Config
	if cmd.Flags().Changed("port") {
		overrides.Port = servePort
	}

	cfg, err := loadConfig(overrides)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("%s environment variable is required", config.EnvGeminiAPIKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, server.Config{
		Port:                     cfg.Port,
		APIKey:                   cfg.APIKey,
		SerpAPIKey:               cfg.SerpAPIKey,
		ScopusAPIKey:             cfg.ScopusAPIKey,
		MaxConcurrentGenerations: cfg.MaxConcurrentGenerations,
		MaxUploadBytes:           cfg.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
