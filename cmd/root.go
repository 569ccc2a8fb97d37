package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/config"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/logging"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

var (
	flagStore     string
	flagLogLevel  string
	flagLogFormat string
	flagDataDir   string

	// cfg and baseDir are filled in before any subcommand runs.
	cfg     config.Config
	baseDir string
)

var rootCmd = &cobra.Command{
	Use:   "tjb",
	Short: "Trading journal bot – grade answers and score your trading day",
	Long: `tjb asks scheduled journal questions, grades every answer on a five-color
scale and rolls each day up into a 0-100 score. Entries are stored in local
JSON files under ~/.tjb/ by default, or in SQLite, Postgres or Notion.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// exitError carries the process exit code for an error: 1 for usage
// mistakes, 2 for storage failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(format string, args ...any) error {
	return &exitError{code: 1, err: fmt.Errorf(format, args...)}
}

func storageError(err error) error {
	return &exitError{code: 2, err: err}
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagStore, "store", "", "Store backend: file, sqlite, postgres or notion (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (overrides config)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.tjb)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config, applies the global flags and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	baseDir = flagDataDir
	if baseDir == "" {
		var err error
		if baseDir, err = storage.BaseDir(); err != nil {
			return storageError(err)
		}
	}

	var err error
	cfg, err = config.Load(baseDir)
	if err != nil {
		return usageError("%v", err)
	}
	if flagStore != "" {
		cfg.Store.Backend = flagStore
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		return usageError("%v", err)
	}

	if err := logging.Init(cfg.Log, nil); err != nil {
		return usageError("%v", err)
	}
	return nil
}
