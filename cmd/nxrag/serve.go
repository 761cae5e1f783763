package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/db"
	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/server"
)

var (
	servePort int
	serveOpts runFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that runs the part description pipeline on uploaded text.
When a database URL is configured, runs are mirrored to Postgres and can be browsed under /runs.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveOpts.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	opts, err := serveOpts.options(cmd)
	if err != nil {
		return err
	}
	if opts.Client == nil {
		opts.Client, err = llm.NewClient(ctx, &opts.LLM)
		if err != nil {
			return err
		}
	}
	defer func() { _ = opts.Client.Close() }()

	cfg := server.Config{Port: servePort, Logger: logger}
	if opts.DatabaseURL != "" {
		database, err := db.Connect(ctx, opts.DatabaseURL)
		switch {
		case err != nil:
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Println("Continuing without database persistence...")
		case database.EnsureSchema(ctx) != nil:
			database.Close()
			fmt.Println("Warning: failed to apply database schema")
			fmt.Println("Continuing without database persistence...")
		default:
			defer database.Close()
			opts.Store = database
			cfg.Runs = database
		}
		// one pool for the server; runs never dial on their own
		opts.DatabaseURL = ""
	}
	cfg.Base = opts

	logger.Info("serving part descriptions",
		zap.Int("port", servePort),
		zap.String("provider", string(opts.Client.Provider())),
		zap.Bool("persistence", cfg.Runs != nil))

	return server.New(cfg).Start(ctx)
}
