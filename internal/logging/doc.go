// Package logging provides logging utilities for tmplcheck.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("materializing template", "source", src, "ref", ref)
//	logging.Warn("sandbox left in place", "dir", dir)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Materializing %s at %s...", src, ref)
//	logging.UserSuccess("Documentation built in %s", dir)
//	logging.UserWarning("Keeping sandbox %s", dir)
//	logging.UserError("Documentation build failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// SetUserOutput redirects both streams, mainly for tests.
//
// # Status Indicators
//
// User functions prepend status indicators styled with lipgloss:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
