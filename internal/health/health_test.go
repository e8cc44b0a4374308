package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/tmplcheck/internal/devenv"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/testutil"
	"github.com/firefly-engineering/tmplcheck/internal/verify"
)

func TestStatusConstants(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusMissing, "missing"},
		{StatusUnhealthy, "unhealthy"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("Status %v = %q, want %q", tt.status, tt.status, tt.want)
		}
	}
}

func TestCheckTool(t *testing.T) {
	tests := []struct {
		name       string
		result     system.Result
		err        error
		wantStatus Status
		wantDetail string
	}{
		{
			name:       "installed",
			result:     system.Result{Stdout: "nix (Nix) 2.24.9\n"},
			wantStatus: StatusHealthy,
			wantDetail: "nix (Nix) 2.24.9",
		},
		{
			name:       "not installed",
			err:        errors.New(`exec: "nix": executable file not found in $PATH`),
			wantStatus: StatusMissing,
			wantDetail: "executable file not found",
		},
		{
			name:       "broken",
			result:     system.Result{ExitCode: 1, Stderr: "error: experimental feature 'flakes' is disabled\nmore"},
			wantStatus: StatusUnhealthy,
			wantDetail: "exit 1: error: experimental feature 'flakes' is disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := system.NewMockExecutor()
			mock.AddResponse("nix --version", tt.result, tt.err)

			got := CheckTool(context.Background(), mock, "nix")
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if !strings.Contains(got.Detail, tt.wantDetail) {
				t.Errorf("Detail = %q, want it to contain %q", got.Detail, tt.wantDetail)
			}
			if got.OK() != (tt.wantStatus == StatusHealthy) {
				t.Errorf("OK() = %v for status %q", got.OK(), got.Status)
			}
		})
	}
}

func TestCheckSource_Unversioned(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTemplate(t, dir)
	mock := system.NewMockExecutor()

	got := CheckSource(context.Background(), mock, template.Source{Path: dir})
	if !got.OK() {
		t.Fatalf("Status = %q (%s), want healthy", got.Status, got.Detail)
	}
	if !strings.Contains(got.Detail, "12 questions") {
		t.Errorf("Detail = %q, want question count", got.Detail)
	}
	if len(mock.Commands) != 0 {
		t.Errorf("unversioned source ran commands: %v", mock.CommandLines())
	}

	pinned := CheckSource(context.Background(), mock, template.Source{Path: dir, Ref: "v1.0.0"})
	if pinned.Status != StatusUnhealthy {
		t.Errorf("pinned unversioned source: Status = %q, want unhealthy", pinned.Status)
	}
}

func TestCheckSource_Versioned(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTemplate(t, dir)
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	mock := system.NewMockExecutor()
	mock.AddResponse("git rev-parse", system.Result{Stdout: "0123456789abcdef0123456789abcdef01234567\n"}, nil)

	got := CheckSource(context.Background(), mock, template.Source{Path: dir})
	if !got.OK() {
		t.Fatalf("Status = %q (%s), want healthy", got.Status, got.Detail)
	}
	if !strings.Contains(got.Detail, "HEAD at 0123456789ab") {
		t.Errorf("Detail = %q, want resolved revision", got.Detail)
	}

	mock.AddResponse("git rev-parse", system.Result{ExitCode: 1}, nil)
	bad := CheckSource(context.Background(), mock, template.Source{Path: dir, Ref: "nope"})
	if bad.Status != StatusUnhealthy {
		t.Errorf("bad revision: Status = %q, want unhealthy", bad.Status)
	}
}

func TestCheckSource_NoQuestionnaire(t *testing.T) {
	got := CheckSource(context.Background(), system.NewMockExecutor(), template.Source{Path: t.TempDir()})
	if got.Status != StatusUnhealthy {
		t.Errorf("Status = %q, want unhealthy", got.Status)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTemplate(t, dir)

	t.Run("nix", func(t *testing.T) {
		mock := system.NewMockExecutor()
		mock.AddResponse("nix --version", system.Result{ExitCode: 127}, nil)

		report := Check(context.Background(), mock, template.Source{Path: dir}, verify.Default())

		var names []string
		for _, c := range report.Checks {
			names = append(names, c.Name)
		}
		if got := strings.Join(names, ","); got != "git,nix,template" {
			t.Errorf("checks = %s, want git,nix,template", got)
		}
		if report.Healthy() {
			t.Error("Healthy() = true with a broken nix")
		}
		if failed := report.Failed(); len(failed) != 1 || failed[0].Name != "nix" {
			t.Errorf("Failed() = %+v, want only nix", failed)
		}
	})

	t.Run("direct", func(t *testing.T) {
		mock := system.NewMockExecutor()
		step := verify.Step{Env: devenv.Direct{}, Task: []string{"make", "docs"}}

		report := Check(context.Background(), mock, template.Source{Path: dir}, step)
		if !report.Healthy() {
			t.Errorf("Healthy() = false: %+v", report.Failed())
		}
		if report.Checks[1].Name != "make" {
			t.Errorf("build tool check = %q, want make", report.Checks[1].Name)
		}
	})
}
