package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/config"
	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/harness"
	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/params"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Materialize the template and build its documentation",
	Long: `Materialize the template into a fresh sandbox, commit it and run the
documentation build there.

Without a [data] section in the configuration the example database
project is used, and --data overrides single keys of it:
  accountname=radio-aktywne databasename=foo ... docs=true

Exit codes: 0 passed, 4 build failed, 2/3 setup or materialization error,
5 configuration error.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var (
	checkTemplate templateFlags
	checkKeep     bool
	checkTimeout  time.Duration
	checkNoDevenv bool
	checkShell    string
	checkTask     string
)

func init() {
	checkTemplate.register(checkCmd)
	checkCmd.Flags().BoolVar(&checkKeep, "keep", false, "Keep the sandbox after the check")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "Build timeout (0 disables; default from config, 30m)")
	checkCmd.Flags().BoolVar(&checkNoDevenv, "no-devenv", false, "Run the task directly instead of inside nix develop")
	checkCmd.Flags().StringVar(&checkShell, "shell", "", "Nix dev shell to build in (default docs)")
	checkCmd.Flags().StringVar(&checkTask, "task", "", "Build command (default \"task test-docs\")")
	rootCmd.AddCommand(checkCmd)
}

func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) {
	checkTemplate.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("keep") {
		cfg.Sandbox.Keep = checkKeep
	}
	if flags.Changed("timeout") {
		cfg.Verify.Timeout.Duration = checkTimeout
	}
	if flags.Changed("no-devenv") && checkNoDevenv {
		cfg.Verify.Devenv = config.DevenvNone
	}
	if flags.Changed("shell") {
		cfg.Verify.Shell = checkShell
	}
	if flags.Changed("task") {
		cfg.Verify.Task = checkTask
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCheckFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.ConfigError("invalid configuration", err)
	}

	data, err := checkTemplate.params(cfg, params.Example())
	if err != nil {
		return err
	}

	step, err := cfg.Step()
	if err != nil {
		return errors.ConfigError("invalid verify section", err)
	}

	h := harness.New(cfg.Source(), data)
	h.Alloc = cfg.Allocator()
	h.Verify = step
	h.Cleanup = cfg.Cleanup()
	h.Identity = cfg.Identity()
	h.CommitMessage = cfg.Git.Message
	h.Executor = getExecutor()

	logging.Info("checking template", "source", cfg.Template.Source, "ref", cfg.Template.Ref)

	report, runErr := h.Run(cmd.Context())

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		return runErr
	}

	displayReport(report, runErr)
	return runErr
}

// displayReport shows the outcome of a check to the user.
func displayReport(r *harness.Report, err error) {
	switch r.Outcome {
	case harness.OutcomePassed:
		logSuccess("Documentation built in %s", r.Verification.Duration.Round(time.Millisecond))
	case harness.OutcomeFailed:
		logError("Documentation build failed: %v", err)
		if out := strings.TrimSpace(errors.OutputOf(err)); out != "" {
			logInfo("Build output:\n%s", indent(lastLines(out, 40), "    "))
		}
	default:
		logError("Check aborted at %s: %v", r.Reached, err)
	}

	if r.Kept && r.SandboxDir != "" {
		logWarning("Sandbox kept at %s", r.SandboxDir)
	}
	logInfo("Run %s finished in %s", r.RunID, r.Duration().Round(time.Millisecond))
}

// lastLines returns at most n trailing lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return fmt.Sprintf("... (%d lines omitted)\n%s", len(lines)-n, strings.Join(lines[len(lines)-n:], "\n"))
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
