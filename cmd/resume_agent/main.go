// Package main provides the resume_agent CLI: the optimizer API server and a
// terminal client for it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Resume Optimizer server and client",
	Long: `Resume Optimizer tailors a PDF resume to a job description and returns it as LaTeX.

Run "serve" to start the HTTP API, or "optimize" to send a resume to a running server.
Configuration can be loaded from a JSON file using --config. Command-line flags override config file values,
which override environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
}

// loadConfig layers the optional config file over the environment and the
// built-in defaults. Commands apply their own flag overrides before calling it.
func loadConfig(overrides config.Config) (config.Config, error) {
	cfg := overrides
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Copy = cfg.Copy || fileCfg.Copy
		cfg.NoRetry = cfg.NoRetry || fileCfg.NoRetry
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
