// Package main provides the entry point for the arbor CLI tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/arbor/cmd/arbor/commands"
	"github.com/Sumatoshi-tech/arbor/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Arbor - directory trees as navigable forests",
		Long: `Arbor mirrors directory hierarchies into an in-memory forest and
renders, inspects and edits them from the command line.

Commands:
  scan      Mirror a directory and print its tree
  stat      Summarize a directory by entry kind and extension`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewStatCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to stderr at a level derived from the
// verbosity flags.
func setupLogging() {
	level := slog.LevelInfo

	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "arbor %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
