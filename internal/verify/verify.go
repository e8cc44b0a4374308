package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/tmplcheck/internal/devenv"
	tcerrors "github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/workdir"
)

// DefaultShell is the dev shell the documentation build runs in.
const DefaultShell = "docs"

// DefaultTimeout bounds a single build.
const DefaultTimeout = 30 * time.Minute

// DefaultTask returns the task runner invocation that builds the docs.
func DefaultTask() []string {
	return []string{"task", "test-docs"}
}

// Step is a single verification command run in a development environment.
type Step struct {
	// Env wraps the task; a Nix dev shell "docs" when nil.
	Env devenv.Environment

	// Task is the command to run; DefaultTask() when empty.
	Task []string

	// Timeout bounds the run; zero disables it.
	Timeout time.Duration

	// Executor runs the command; system.DefaultExecutor() when nil.
	Executor system.CommandExecutor
}

// Default returns the documentation build step.
func Default() Step {
	return Step{
		Env:     devenv.NewNix(DefaultShell),
		Task:    DefaultTask(),
		Timeout: DefaultTimeout,
	}
}

// Outcome is the result of running a Step.
type Outcome struct {
	// Command is the shell-quoted command line that was run.
	Command  string        `json:"command"`
	Env      string        `json:"env"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Duration time.Duration `json:"duration"`
}

// Passed reports whether the command exited with status zero.
func (o *Outcome) Passed() bool {
	return o.ExitCode == 0
}

// Output returns stdout and stderr combined.
func (o *Outcome) Output() string {
	return system.Result{Stdout: o.Stdout, Stderr: o.Stderr}.Output()
}

func (s Step) env() devenv.Environment {
	if s.Env == nil {
		return devenv.NewNix(DefaultShell)
	}
	return s.Env
}

// Command returns the executable and arguments the step runs.
func (s Step) Command() (string, []string) {
	task := s.Task
	if len(task) == 0 {
		task = DefaultTask()
	}
	return s.env().Wrap(task)
}

// Run executes the step once inside dir. The process working directory is
// switched to dir for the duration of the run and restored afterwards.
//
// The returned Outcome is non-nil whenever the command was started. A
// non-zero exit, a launch failure or a timeout is reported as a build
// failure error.
func (s Step) Run(ctx context.Context, dir string) (*Outcome, error) {
	exec := s.Executor
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	name, args := s.Command()

	outcome := &Outcome{
		Command:  shellquote.Join(append([]string{name}, args...)...),
		Env:      s.env().Name(),
		ExitCode: -1,
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var runErr error
	err := workdir.Scope(dir, func() error {
		logging.Info("running verification", "dir", dir, "command", outcome.Command)

		start := time.Now()
		result, err := exec.Run(ctx, system.Command{Name: name, Args: args, Dir: dir})
		outcome.Duration = time.Since(start)
		outcome.ExitCode = result.ExitCode
		outcome.Stdout = result.Stdout
		outcome.Stderr = result.Stderr
		runErr = err
		return nil
	})
	if err != nil {
		return nil, tcerrors.SetupFailed("working directory switch", err)
	}

	logging.Debug("verification finished",
		"command", outcome.Command,
		"exit_code", outcome.ExitCode,
		"duration", outcome.Duration.Round(time.Millisecond))

	switch {
	case runErr != nil && errors.Is(runErr, context.DeadlineExceeded):
		return outcome, tcerrors.BuildFailed(
			fmt.Sprintf("%s timed out after %s", outcome.Command, s.Timeout), runErr, outcome.Output())
	case runErr != nil:
		return outcome, tcerrors.BuildFailed(
			fmt.Sprintf("failed to run %s", outcome.Command), runErr, outcome.Output())
	case !outcome.Passed():
		return outcome, tcerrors.BuildFailed(
			fmt.Sprintf("%s exited with status %d", outcome.Command, outcome.ExitCode), nil, outcome.Output())
	}
	return outcome, nil
}

// Summary returns a one-line description of the outcome.
func (o *Outcome) Summary() string {
	var b strings.Builder
	if o.Passed() {
		b.WriteString("passed")
	} else {
		fmt.Fprintf(&b, "failed (exit %d)", o.ExitCode)
	}
	fmt.Fprintf(&b, " in %s: %s", o.Duration.Round(time.Millisecond), o.Command)
	return b.String()
}
