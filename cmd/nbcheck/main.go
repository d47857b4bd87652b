package main

import (
	"fmt"
	"os"

	"nbcheck/internal/config"
	"nbcheck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nbcheck",
	Short: "Static analysis for pipeline notebooks",
	Long: `nbcheck validates the embedded source of notebook documents before a
pipeline executes them. It parses the assembled code without running it,
tolerates IPython-only syntax (line/cell magics and shell escapes), and
verifies that the params a task injects match the declarations in the
notebook's "parameters" cell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Debug = true
			cfg.Logging.Level = "debug"
		}
		return logging.Initialize(workspace, logging.Settings{
			Debug:      cfg.Logging.Debug,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "nbcheck.yml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "project directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
