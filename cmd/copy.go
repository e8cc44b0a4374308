package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/sandbox"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/tui"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

var copyCmd = &cobra.Command{
	Use:   "copy <dest>",
	Short: "Materialize the template into a directory",
	Long: `Materialize the template into <dest> without building it.

Questions not answered with --data or the config file are asked
interactively, unless --quiet is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

var (
	copyTemplate templateFlags
	copyQuiet    bool
	copyCommit   bool
)

func init() {
	copyTemplate.register(copyCmd)
	copyCmd.Flags().BoolVarP(&copyQuiet, "quiet", "q", false, "Do not prompt; use defaults and fail on unanswered questions")
	copyCmd.Flags().BoolVar(&copyCommit, "commit", false, "Initialize a git repository in <dest> and commit the result")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	copyTemplate.apply(cmd, cfg)

	data, err := copyTemplate.params(cfg, params.Set{})
	if err != nil {
		return err
	}

	dest, err := filepath.Abs(args[0])
	if err != nil {
		return errors.ValidationError(err.Error())
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return errors.SetupFailed("directory creation", err)
	}

	opts := template.Options{
		Source:   cfg.Source(),
		Dest:     dest,
		Data:     data,
		Quiet:    copyQuiet,
		Progress: cmd.OutOrStdout(),
		Executor: getExecutor(),
	}
	if !copyQuiet {
		opts.Prompter = tui.NewPrompter()
	}

	res, err := template.Materialize(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if copyCommit {
		git := workspace.NewGit(getExecutor(), cfg.Identity())
		if !workspace.IsRepo(dest) {
			if err := git.Init(cmd.Context(), dest); err != nil {
				return errors.SetupFailed("repository initialization", err)
			}
		}
		if err := git.AddAll(cmd.Context(), dest); err != nil {
			return errors.SetupFailed("baseline commit", err)
		}
		message := cfg.Git.Message
		if message == "" {
			message = sandbox.DefaultCommitMessage
		}
		hash, err := git.Commit(cmd.Context(), dest, message)
		if err != nil {
			return errors.SetupFailed("baseline commit", err)
		}
		logInfo("Committed %s", hash)
	}

	if res.Commit != "" {
		logSuccess("Copied %d files from %s (%s) to %s", len(res.Files), cfg.Template.Source, res.Commit, dest)
	} else {
		logSuccess("Copied %d files from %s to %s", len(res.Files), cfg.Template.Source, dest)
	}
	return nil
}
