// Package health provides preflight checks for a documentation check.
//
// Checks verify that the tools a run needs are installed and that the
// template source can be checked out at the requested revision, so a
// broken host is reported before a sandbox is created.
//
// # Health Status
//
// Each check ends in a Status:
//
//	StatusHealthy   - the check passed
//	StatusMissing   - a required executable is not installed
//	StatusUnhealthy - the executable or source exists but is unusable
//
// # Check Functions
//
// Individual checks:
//
//	health.CheckTool(ctx, exec, "git")        // executable runs
//	health.CheckSource(ctx, exec, source)     // revision and questionnaire
//
// Combined checks:
//
//	report := health.Check(ctx, exec, source, step)
//	// report.Checks, report.Healthy()
package health
