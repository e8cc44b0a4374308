package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCheckError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *CheckError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCheckError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestSetupFailed(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := SetupFailed("directory creation", cause)

	if err.Code != ExitSetupError {
		t.Errorf("Code = %d, want %d", err.Code, ExitSetupError)
	}
	if err.Message != "sandbox directory creation failed" {
		t.Errorf("Message = %q, want %q", err.Message, "sandbox directory creation failed")
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestMissingParameters(t *testing.T) {
	err := MissingParameters([]string{"port", "docs", "accountname"})

	if err.Code != ExitMaterializeError {
		t.Errorf("Code = %d, want %d", err.Code, ExitMaterializeError)
	}
	want := "missing required parameters: accountname, docs, port"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

func TestMissingParameters_DoesNotReorderInput(t *testing.T) {
	keys := []string{"b", "a"}
	MissingParameters(keys)
	if keys[0] != "b" {
		t.Errorf("input slice was reordered: %v", keys)
	}
}

func TestBuildFailed(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := BuildFailed("documentation build failed", cause, "mkdocs: error")

	if err.Code != ExitBuildFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitBuildFailed)
	}
	if err.Output != "mkdocs: error" {
		t.Errorf("Output = %q, want %q", err.Output, "mkdocs: error")
	}
	if got := OutputOf(fmt.Errorf("outer: %w", err)); got != "mkdocs: error" {
		t.Errorf("OutputOf() = %q, want %q", got, "mkdocs: error")
	}
}

func TestIsFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"build failed", BuildFailed("build", nil, ""), true},
		{"wrapped build failed", fmt.Errorf("run: %w", BuildFailed("build", nil, "")), true},
		{"setup error", SetupFailed("init", nil), false},
		{"materialize error", MaterializeFailed("render", nil), false},
		{"plain error", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFailure(tt.err); got != tt.want {
				t.Errorf("IsFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "CheckError",
			err:      SetupFailed("init", nil),
			wantCode: ExitSetupError,
		},
		{
			name:     "wrapped CheckError",
			err:      fmt.Errorf("outer: %w", MaterializeFailed("render", nil)),
			wantCode: ExitMaterializeError,
		},
		{
			name:     "config error",
			err:      ConfigError("bad toml", nil),
			wantCode: ExitConfigError,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}

	var checkErr *CheckError
	if !As(outer, &checkErr) {
		t.Fatal("As should find CheckError")
	}
	if checkErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", checkErr.Code, ExitConfigError)
	}
}
