// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "readme-health",
	Short: "A CLI tool to check the links and listed repositories of a README.",
	Long: `readme-health reads a curated Markdown list, verifies every external link
and inspects every GitHub repository listed in its tables.
It prints a summary, writes Markdown and HTML reports, and exits non-zero
when a link is broken or a repository is missing.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

// addGlobalFlags defines the persistent flags, available to all commands.
func addGlobalFlags(f *pflag.FlagSet) {
	f.BoolP("verbose", "v", false, "Enable verbose/debug logging")
	f.StringP("input", "i", "", "Markdown file to check (default README.md)")
}

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
