package harness

import (
	"context"
	"errors"
	"fmt"

	tcerrors "github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/sandbox"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/verify"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// Harness materializes a template into a sandbox, commits it and runs the
// documentation build there.
type Harness struct {
	// Alloc provides the sandbox directory.
	Alloc sandbox.TempAllocator

	Source template.Source
	Data   params.Set

	// Require lists parameters that must be present in Data.
	Require []string

	Verify  verify.Step
	Cleanup sandbox.CleanupOptions

	// Identity and CommitMessage are used for the baseline commit.
	Identity      workspace.Identity
	CommitMessage string

	// Executor runs git and the build; system.DefaultExecutor() when nil.
	Executor system.CommandExecutor
}

// New returns a Harness with the default sandbox allocator, verification
// step and cleanup.
func New(source template.Source, data params.Set) *Harness {
	return &Harness{
		Alloc:   sandbox.OSAllocator{},
		Source:  source,
		Data:    data,
		Verify:  verify.Default(),
		Cleanup: sandbox.DefaultCleanupOptions(),
	}
}

// Run executes one check. The sandbox is released on every path, after
// which the report is final.
//
// The returned error is nil only when the build passed. Build failures
// satisfy errors.IsFailure; anything else is a setup or materialization
// error. The report is never nil.
func (h *Harness) Run(ctx context.Context) (report *Report, err error) {
	report = newReport(logging.Logger)
	defer func() { report.finish(err) }()

	exec := h.Executor
	if exec == nil {
		exec = system.DefaultExecutor()
	}

	sb, err := sandbox.Acquire(ctx, h.Alloc, sandbox.Options{
		Identity: h.Identity,
		Executor: exec,
		Cleanup:  h.Cleanup,
	})
	if err != nil {
		return report, err
	}
	report.SandboxDir = sb.Dir
	defer func() {
		report.Kept = !h.Cleanup.RemoveDirectory
		if releaseErr := sb.Release(); releaseErr != nil {
			report.log.Warn("teardown failed", "dir", sb.Dir, "error", releaseErr)
			if err == nil {
				err = tcerrors.SetupFailed("teardown", releaseErr)
			}
		}
	}()

	if err := sb.InitRepo(ctx); err != nil {
		return report, err
	}
	report.enter(StateSandboxReady)

	res, err := template.Materialize(ctx, template.Options{
		Source:   h.Source,
		Dest:     sb.Dir,
		Data:     h.Data,
		Require:  h.Require,
		Quiet:    true,
		Executor: exec,
	})
	if err != nil {
		return report, err
	}
	report.TemplateCommit = res.Commit
	report.Files = len(res.Files)
	report.enter(StateMaterialized)

	hash, err := sb.CommitBaseline(ctx, h.CommitMessage)
	if err != nil {
		return report, err
	}
	clean, err := sb.IsClean(ctx)
	if err != nil {
		return report, tcerrors.SetupFailed("baseline commit", err)
	}
	if !clean {
		return report, tcerrors.SetupFailed("baseline commit", errors.New("working tree not clean after commit"))
	}
	report.BaselineCommit = hash
	report.enter(StateCommitted)

	step := h.Verify
	if step.Executor == nil {
		step.Executor = exec
	}
	report.enter(StateBuildInvoked)
	outcome, err := step.Run(ctx, sb.Dir)
	report.Verification = outcome
	if err != nil {
		return report, err
	}

	report.log.Info("documentation build passed", "duration", outcome.Duration, "dir", sb.Dir)
	return report, nil
}

// String summarizes the report on one line.
func (r *Report) String() string {
	if r.Outcome == OutcomePassed {
		return fmt.Sprintf("run %s passed", r.RunID)
	}
	return fmt.Sprintf("run %s %s at %s: %s", r.RunID, r.Outcome, r.Reached, r.Error)
}
