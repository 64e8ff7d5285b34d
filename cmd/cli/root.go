package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxintel application
var rootCmd = &cobra.Command{
	Use:   "inboxintel",
	Short: "AI-powered triage for your unread email",
	Long: `inboxintel fetches your unread email, asks an LLM to classify and
summarize each message, extracts actionable tasks and a suggested reply
draft, and stores the results. Already-processed emails are skipped on
every run.

It can run as:
  - A one-shot CLI triage pass (default)
  - A dashboard API server ("serve")`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxintel version %s\n" .Version}}`)

	// Bare invocations (including bare flags like --clear-db) run the
	// triage command by default
	if len(os.Args) == 1 || strings.HasPrefix(os.Args[1], "-") {
		rest := os.Args[1:]
		os.Args = append([]string{os.Args[0], "triage"}, rest...)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newServeCmd())
}
