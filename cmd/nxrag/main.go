// Package main provides the nxrag CLI: grounded part descriptions from NX exports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/nxrag/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Resolved in PersistentPreRunE
	appConfig    *config.Config
	configLoaded bool
	logger       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nxrag",
	Short: "Grounded part descriptions from NX exports",
	Long: `nxrag turns an NXOpen script export or plain-text part notes into a short engineering
part description. It extracts facts with evidence, selects reference context from a local
corpus, packs a prompt, generates, and validates the result against the exemplars with one
corrective retry. Every stage writes its artifacts into a timestamped run folder.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, loaded, err := loadAppConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		appConfig = cfg
		configLoaded = loaded

		logger, err = newLogger(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to app.yaml (missing default file means built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadAppConfig reads --config strictly when it was given and leniently otherwise
func loadAppConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	if cmd.Flags().Changed("config") {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, true, nil
	}
	_, statErr := os.Stat(configPath)
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, statErr == nil, nil
}

// newLogger builds a production zap logger at level, or a debug-level one when verbose
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
