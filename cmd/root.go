package cmd

import (
	"fmt"
	"os"

	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	apiURL   string
	stateDir string
	version  string = "dev"
	commit   string = "unknown"
	date     string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "Generate and manage HR reports from natural-language prompts",
	Long: `A CLI client for the HR reporting backend.

Describe the payroll or HR report you need in plain language and the
backend turns it into a structured result set. Reports are kept locally
so you can review, rename and export them later.

Quick Start:
  reportctl chat                          # Start an interactive chat session
  reportctl list                          # List named reports on the backend
  reportctl show                          # Render the current report
  reportctl export --format csv           # Export the current report

Configuration is read from the environment (REPORTCTL_API_URL and
friends); the --api-url and --state-dir flags override it per run.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment configuration and applies flag overrides
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		cfg.NL2SQLURL = apiURL
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend origin (overrides REPORTCTL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Local state directory (overrides REPORTCTL_STATE_DIR)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
