package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/observability"
)

// Version injected at build time with: -ldflags "-X 'main.version=1.2.3'"
var version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "kanbanviewd",
	Short: "Render and preview Kanban Board webview documents",
	Long: `kanbanviewd renders the Kanban Board webview document for a board file
and serves it with the assets, host bridge and live reload a webview host
would provide.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (.json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.AddCommand(versionCmd, serveCmd, renderCmd)
}

// loadConfig loads --config, or the defaults when no file is given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newLogger(cfg *config.Config) *zap.SugaredLogger {
	level := observability.EnvLogLevel(cfg.Logging.Level)
	if logLevel != "" {
		level = logLevel
	}
	return observability.NewLogger(level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
