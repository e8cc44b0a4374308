package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/tmplcheck/internal/harness"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/template"
)

// TestDocs builds the documentation of the example database project
// generated from the template at the pinned revision.
func TestDocs(t *testing.T) {
	env := NewEnv(t)

	h := harness.New(template.Source{Path: env.Source, Ref: env.Ref}, params.Example())
	h.Require = params.RecognizedKeys

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	report, err := h.Run(ctx)
	if report.Verification != nil && err != nil {
		t.Logf("build output:\n%s", report.Verification.Output())
	}
	require.NoError(t, err)
	require.Equal(t, harness.OutcomePassed, report.Outcome)
	require.Equal(t, harness.StatePassed, report.State)
	require.NotEmpty(t, report.BaselineCommit)
	require.NoDirExists(t, report.SandboxDir)
}

func TestNewEnvSkipsWhenDisabled(t *testing.T) {
	t.Setenv(EnvEnable, "")

	skipped := true
	t.Run("inner", func(t *testing.T) {
		NewEnv(t)
		skipped = false
	})
	require.True(t, skipped, "NewEnv should skip when %s is unset", EnvEnable)
}
