package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/system"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

// executor runs git and the build for every command; nil selects
// system.DefaultExecutor().
var executor system.CommandExecutor

var rootCmd = &cobra.Command{
	Use:   "tmplcheck",
	Short: "Check that a project template builds its documentation",
	Long: `tmplcheck verifies copier project templates.

A check:
  - materializes the template at a pinned revision into a fresh sandbox
  - commits the result as the baseline of an isolated git repository
  - runs the documentation build inside the project's nix dev shell
    (nix develop ./#docs --command -- task test-docs)
  - reports pass or fail and removes the sandbox`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
		logging.SetUserOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// Execute runs the root command until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs and reports in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default ./tmplcheck.toml if present)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
