package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"credit-risk-lab/internal/config"
	"credit-risk-lab/internal/logging"
)

var (
	cfgFile string
	version = "dev"

	v      = viper.New()
	cfg    *config.Config
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "creditrisk",
		Short: "Credit risk feature engineering, WoE/IV analysis and scoring",
		Long: `creditrisk derives per-customer transaction features, measures how well
each feature separates good from bad borrowers with Weight of Evidence and
Information Value, and serves risk predictions from a trained model.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// configKeyAnnotation on a flag overrides its commandFlagKeys entry.
const configKeyAnnotation = "creditrisk_config_key"

// commandFlagKeys maps command-local flags to config keys.
var commandFlagKeys = map[string]string{
	"target":  "woe.target",
	"workers": "woe.workers",
	"bins":    "binning.bins",
	"exclude": "binning.exclude",
	"model":   "model.path",
	"addr":    "server.addr",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./creditrisk.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("log-dir", "", "directory for info.log and error.log")
	rootCmd.PersistentFlags().String("backend", config.BackendMemory, "storage backend (memory, sql)")

	// Bind flags to viper
	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("logging.dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	_ = v.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))

	// Add commands
	rootCmd.AddCommand(engineerCmd())
	rootCmd.AddCommand(binCmd())
	rootCmd.AddCommand(ivCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	closeLogger()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Command-local flags override config keys only for the running command.
	for name, key := range commandFlagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if keys := f.Annotations[configKeyAnnotation]; len(keys) > 0 {
				key = keys[0]
			}
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	closeLogger()
	logger, err = logging.New(cfg.LoggingOptions())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.SetDefault(logger.Logger)
	return nil
}

func closeLogger() {
	if logger == nil {
		return
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close logger: %v\n", err)
	}
	logger = nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "creditrisk %s\n", version)
		},
	}
}
