// Package cmd is the CLI surface: a cobra command tree with one root
// command ("pilot") and subcommands chat, info, version, setup, and
// "agent export"/"agent reload", each declared as a cobra.Command{Use,
// Short, Long, RunE} + init() flag-registration pattern.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the CLI version string, printed by "version" and the "info" table.
const Version = "0.1.0"

var (
	flagVerbose bool
	flagQuiet   bool
	flagOutput  string
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "An interactive CLI agent that drives tool-using LLM conversations",
	Long: `pilot dispatches natural-language input to an LLM, lets the model invoke
tools from a local registry or remote tool-provider servers, and streams the
final answer back to the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "accepted, but not read by any command")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "text", "output format: \"json\" makes info print JSON; any other value prints text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file (default settings.yaml)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(agentCmd)
}

// Execute runs the root command; exit code is non-zero on configuration or
// irrecoverable error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
