package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pokelookup/pkg/config"
	"pokelookup/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Loaded before every command.
	cfg       *config.Config
	appLogger *logger.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pokelookup",
	Short: "Resolve pokémon names into their id, name and artwork",
	Long: `pokelookup resolves a pokémon name with the PokeAPI graph service,
then finds its artwork on the PokeAPI REST service.

It runs a single lookup from the command line, or serves the lookups
over HTTP and gRPC.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		appLogger, err = logger.New(cfg.Log.Level, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if cfg.BucketEnabled() {
			appLogger.WithBucket(cfg.Bucket)
		}
		return nil
	},
}

func init() {
	// Finalizers also run when the command fails.
	cobra.OnFinalize(closeLogger)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(serveCmd)
}

func closeLogger() {
	if appLogger == nil {
		return
	}
	appLogger.Close()
	appLogger = nil
}

func log() *zap.Logger {
	return appLogger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
