// Package harness runs the end-to-end template documentation check.
//
// A run walks a fixed sequence of states:
//
//	init -> sandbox_ready -> materialized -> committed -> build_invoked -> passed | failed
//
// The sandbox is torn down on every path once it has been acquired. Errors
// before the build produce an "error" outcome; a build that runs and fails
// produces a "failed" outcome. Each run has a random ID that is attached to
// every log line and to the Report.
package harness
