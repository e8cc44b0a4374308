package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// Environment variables controlling the end-to-end tests.
const (
	EnvEnable   = "TMPLCHECK_INTEGRATION_TESTS"
	EnvTemplate = "TMPLCHECK_TEMPLATE_SOURCE"
	EnvRef      = "TMPLCHECK_TEMPLATE_REF"
)

// TestEnv describes a real template checkout to run the documentation
// build against.
type TestEnv struct {
	t *testing.T

	// Source is the template checkout.
	Source string

	// Ref is the revision to check; HEAD when unset.
	Ref string
}

// NewEnv returns the end-to-end test environment. It skips the test unless
// EnvEnable is set, EnvTemplate names a template checkout and both git and
// nix are installed.
func NewEnv(t *testing.T) *TestEnv {
	t.Helper()

	if os.Getenv(EnvEnable) == "" {
		t.Skipf("integration tests disabled (set %s=1 to enable)", EnvEnable)
	}

	source := os.Getenv(EnvTemplate)
	if source == "" {
		t.Skipf("no template checkout (set %s)", EnvTemplate)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		t.Fatalf("invalid %s: %v", EnvTemplate, err)
	}
	if _, err := os.Stat(filepath.Join(abs, "copier.yml")); err != nil {
		if _, err := os.Stat(filepath.Join(abs, "copier.yaml")); err != nil {
			t.Fatalf("%s is not a copier template: %v", abs, err)
		}
	}

	for _, tool := range []string{"git", "nix"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available", tool)
		}
	}

	return &TestEnv{t: t, Source: abs, Ref: os.Getenv(EnvRef)}
}
