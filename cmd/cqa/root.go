package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cqa/internal/slogutil"
	"cqa/internal/version"
)

var (
	configPath string
	verbosity  int
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "cqa",
	Short: "cqa - static code quality analyzer",
	Long: `cqa inspects Python source files and produces a quality report:
categorized issues with severities, per-category scores, an overall
score, and a deployment verdict. It never executes the analyzed code.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("cqa version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (yaml, json, or toml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}

// newLogger builds the CLI logger; logs go to stderr so report output
// on stdout stays machine-parseable.
func newLogger() *slog.Logger {
	return slogutil.NewLogger(os.Stderr, slogutil.LevelFromVerbosity(verbosity, quiet))
}
