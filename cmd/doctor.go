package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/config"
	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the host can run a documentation check",
	Long: `Check that git and the build environment are installed and that the
template source resolves at the configured revision.

Nothing is materialized and no sandbox is created.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	doctorTemplate templateFlags
	doctorNoDevenv bool
)

func init() {
	doctorCmd.Flags().StringVarP(&doctorTemplate.source, "source", "s", "", "Template source directory (overrides template.source)")
	doctorCmd.Flags().StringVar(&doctorTemplate.ref, "ref", "", "Template revision (overrides template.ref)")
	doctorCmd.Flags().BoolVar(&doctorNoDevenv, "no-devenv", false, "Check for the task runner instead of nix")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doctorTemplate.apply(cmd, cfg)
	if doctorNoDevenv {
		cfg.Verify.Devenv = config.DevenvNone
	}

	step, err := cfg.Step()
	if err != nil {
		return errors.ConfigError("invalid verify section", err)
	}

	report := health.Check(cmd.Context(), getExecutor(), cfg.Source(), step)

	if jsonOutput {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		for _, c := range report.Checks {
			line := fmt.Sprintf("%-10s %s", c.Name, c.Detail)
			if c.OK() {
				logSuccess("%s", line)
			} else {
				logError("%s (%s)", line, c.Status)
			}
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, c := range failed {
			names[i] = c.Name
		}
		return errors.New(errors.ExitSetupError, "preflight failed: "+strings.Join(names, ", "))
	}
	return nil
}
