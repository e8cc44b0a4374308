package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/verify"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// Status represents the result of a single check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusMissing   Status = "missing"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// OK reports whether the check passed.
func (r CheckResult) OK() bool {
	return r.Status == StatusHealthy
}

// Report collects the checks of one preflight run.
type Report struct {
	Checks []CheckResult `json:"checks"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if !c.OK() {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if !c.OK() {
			failed = append(failed, c)
		}
	}
	return failed
}

// CheckTool runs "<name> --version" and reports the first line of its
// output.
func CheckTool(ctx context.Context, exec system.CommandExecutor, name string) CheckResult {
	result := CheckResult{Name: name}

	res, err := exec.Run(ctx, system.Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		result.Status = StatusMissing
		result.Detail = err.Error()
		return result
	}
	if !res.Success() {
		result.Status = StatusUnhealthy
		result.Detail = fmt.Sprintf("exit %d: %s", res.ExitCode, firstLine(res.Output()))
		return result
	}

	result.Status = StatusHealthy
	result.Detail = firstLine(res.Stdout)
	return result
}

// CheckSource verifies that the template source is a repository in which
// the pinned revision resolves, and that its questionnaire parses. An
// unversioned source passes only with the default revision.
func CheckSource(ctx context.Context, exec system.CommandExecutor, src template.Source) CheckResult {
	result := CheckResult{Name: "template"}

	q, err := template.LoadQuestionnaire(src.Path)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Detail = err.Error()
		return result
	}

	ref := src.Ref
	if ref == "" {
		ref = template.DefaultRef
	}

	if !workspace.IsRepo(src.Path) {
		if ref != template.DefaultRef {
			result.Status = StatusUnhealthy
			result.Detail = fmt.Sprintf("%s is not a git repository; cannot pin %q", src.Path, ref)
			return result
		}
		result.Status = StatusHealthy
		result.Detail = fmt.Sprintf("unversioned, %d questions", len(q.Questions))
		return result
	}

	commit, err := workspace.NewGit(exec, workspace.Identity{}).ResolveRevision(ctx, src.Path, ref)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Detail = err.Error()
		return result
	}

	result.Status = StatusHealthy
	result.Detail = fmt.Sprintf("%s at %s, %d questions", ref, shortHash(commit), len(q.Questions))
	return result
}

// Check runs every preflight check for a run of step against src. git is
// always needed; the build executable is the one the step's environment
// launches, so under Nix only nix itself is required on the host.
func Check(ctx context.Context, exec system.CommandExecutor, src template.Source, step verify.Step) *Report {
	if exec == nil {
		exec = system.DefaultExecutor()
	}

	tools := []string{"git"}
	if name, _ := step.Command(); name != "git" {
		tools = append(tools, name)
	}

	report := &Report{}
	for _, tool := range tools {
		report.Checks = append(report.Checks, CheckTool(ctx, exec, tool))
	}
	report.Checks = append(report.Checks, CheckSource(ctx, exec, src))
	return report
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
