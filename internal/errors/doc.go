// Package errors provides typed errors with exit codes for tmplcheck.
//
// # Error Types
//
// CheckError is the base error type that wraps an error with an exit code:
//
//	type CheckError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	    Output  string // Captured process output (build failures)
//	}
//
// # Exit Codes
//
//	ExitSuccess          = 0  // Success
//	ExitGeneralError     = 1  // General/unknown errors
//	ExitSetupError       = 2  // Sandbox directory or repository setup failed
//	ExitMaterializeError = 3  // Template could not be materialized
//	ExitBuildFailed      = 4  // Documentation build failed
//	ExitConfigError      = 5  // Configuration error
//
// Setup and materialization errors abort a run before the build is invoked
// and are reported as errors. Build failures are reported as failures; use
// IsFailure to tell them apart.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
