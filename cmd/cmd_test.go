package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/harness"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/testutil"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	verbose = false
	jsonOutput = false
	configPath = ""
	checkTemplate.reset()
	checkKeep = false
	checkTimeout = 0
	checkNoDevenv = false
	checkShell = ""
	checkTask = ""
	copyTemplate.reset()
	copyQuiet = false
	copyCommit = false
	questionsTemplate.reset()
	doctorTemplate.reset()
	doctorNoDevenv = false
	for _, c := range rootCmd.Commands() {
		c.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
	}

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

// useExecutor installs exec for the duration of the test.
func useExecutor(t *testing.T, exec system.CommandExecutor) {
	t.Helper()
	executor = exec
	t.Cleanup(func() { executor = nil })
}

// isolate runs the test from an empty directory so no tmplcheck.toml is
// picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "tmplcheck") {
		t.Error("Help output should contain 'tmplcheck'")
	}
	for _, sub := range []string{"check", "copy", "questions"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("Help output should list %q", sub)
		}
	}
}

func TestCheckCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("check", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, flag := range []string{"--source", "--ref", "--data", "--keep", "--timeout", "--no-devenv", "--task"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("check help should mention %s", flag)
		}
	}
}

func TestCheckCommand_Pass(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	exec := testutil.NewBuildExecutor(0)
	useExecutor(t, exec)
	root := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "tmplcheck.toml")
	cfg := "[sandbox]\nroot = \"" + root + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := executeCommand("check", "--config", cfgPath, "--source", src)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(stdout, "Documentation built") {
		t.Errorf("stdout = %q, want success message", stdout)
	}

	if exec.BuildCount() != 1 {
		t.Fatalf("BuildCount() = %d, want 1", exec.BuildCount())
	}
	if got := strings.Join(exec.Builds[0].Argv(), " "); got != "nix develop ./#docs --command -- task test-docs" {
		t.Errorf("build command = %q", got)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("sandbox root not empty after check: %v", entries)
	}
}

func TestCheckCommand_BuildFailure(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	exec := testutil.NewBuildExecutor(2)
	exec.Result.Stdout = "building docs\nERROR broken reference"
	useExecutor(t, exec)

	stdout, _, err := executeCommand("check", "--source", src, "--no-devenv", "--task", "make docs")
	if err == nil {
		t.Fatal("check should fail when the build fails")
	}
	if code := errors.GetExitCode(err); code != errors.ExitBuildFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitBuildFailed)
	}
	if !strings.Contains(stdout, "broken reference") {
		t.Errorf("stdout should include the build output:\n%s", stdout)
	}
	if got := strings.Join(exec.Builds[0].Argv(), " "); got != "make docs" {
		t.Errorf("build command = %q, want make docs", got)
	}
}

func TestCheckCommand_JSONReport(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	useExecutor(t, testutil.NewBuildExecutor(0))

	stdout, _, err := executeCommand("check", "--json", "--source", src, "--data", "description=Another database")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var report harness.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, stdout)
	}
	if report.Outcome != harness.OutcomePassed || report.RunID == "" {
		t.Errorf("report = %+v, want passed with a run ID", report)
	}
}

func TestCheckCommand_MissingData(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	exec := testutil.NewBuildExecutor(0)
	useExecutor(t, exec)

	cfgPath := filepath.Join(t.TempDir(), "tmplcheck.toml")
	if err := os.WriteFile(cfgPath, []byte("[data]\naccountname = \"radio-aktywne\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := executeCommand("check", "--config", cfgPath, "--source", src)
	if code := errors.GetExitCode(err); code != errors.ExitMaterializeError {
		t.Errorf("exit code = %d, want %d (err %v)", code, errors.ExitMaterializeError, err)
	}
	if exec.BuildCount() != 0 {
		t.Error("no build should run when materialization fails")
	}
}

func TestCheckCommand_DataOverridesExample(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	exec := testutil.NewBuildExecutor(0)
	useExecutor(t, exec)

	var port string
	exec.Hook = func(cmd system.Command) error {
		data, err := os.ReadFile(filepath.Join(cmd.Dir, "foo", "config.env"))
		if err != nil {
			return err
		}
		port = string(data)
		return nil
	}

	_, _, err := executeCommand("check", "--source", src, "--data", "port=1234")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(port, "FOOPORT=1234") {
		t.Errorf("config.env = %q, want the overridden port", port)
	}
}

func TestCheckCommand_InvalidFlags(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad assignment", []string{"check", "--data", "novalue"}, errors.ExitGeneralError},
		{"bad task", []string{"check", "--task", "task 'unterminated"}, errors.ExitConfigError},
		{"missing config", []string{"check", "--config", "/nonexistent/tmplcheck.toml"}, errors.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			if code := errors.GetExitCode(err); code != tt.code {
				t.Errorf("exit code = %d, want %d (err %v)", code, tt.code, err)
			}
		})
	}
}

func TestCopyCommand(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)
	useExecutor(t, system.DefaultExecutor())
	dest := filepath.Join(t.TempDir(), "project")

	args := []string{"copy", dest, "--quiet", "--commit", "--source", src}
	for _, kv := range []string{
		"accountname=radio-aktywne", "databasename=bar", "description=Bar",
		"reponame=bar", "repourl=https://example.com/bar", "envprefix=BAR",
		"port=5433", "docs=false", "releases=true", "registry=ghcr.io",
		"imagename=databases/bar",
	} {
		args = append(args, "--data", kv)
	}

	stdout, _, err := executeCommand(args...)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if !strings.Contains(stdout, "Copied") {
		t.Errorf("stdout = %q, want copy summary", stdout)
	}

	tree := testutil.ReadTree(t, dest)
	if tree["bar/config.env"] != "BARPORT=5433\nBARNAME=bar\n" {
		t.Errorf("bar/config.env = %q", tree["bar/config.env"])
	}
	if !strings.Contains(tree["README.md"], "ghcr.io/radio-aktywne/databases/bar") {
		t.Errorf("README.md should mention the image:\n%s", tree["README.md"])
	}

	if !workspace.IsRepo(dest) {
		t.Fatal("--commit should create a repository")
	}
}

func TestCopyCommand_QuietMissing(t *testing.T) {
	isolate(t)
	src := testutil.NewTemplateRepo(t)

	_, _, err := executeCommand("copy", filepath.Join(t.TempDir(), "out"), "--quiet", "--source", src)
	if code := errors.GetExitCode(err); code != errors.ExitMaterializeError {
		t.Errorf("exit code = %d, want %d (err %v)", code, errors.ExitMaterializeError, err)
	}
}

func TestQuestionsCommand(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	testutil.WriteTemplate(t, src)

	stdout, _, err := executeCommand("questions", "--source", src)
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	for _, want := range []string{"accountname", "docsurl", "{{ docs }}", "ghcr.io"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("questions output missing %q:\n%s", want, stdout)
		}
	}
}

func TestQuestionsCommand_JSON(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	testutil.WriteTemplate(t, src)

	stdout, _, err := executeCommand("questions", "--json", "--source", src)
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}

	var questions []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(stdout), &questions); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(questions) != 12 || questions[7].Name != "docs" || questions[7].Type != "bool" {
		t.Errorf("questions = %+v", questions)
	}
}

func TestDoctorCommand(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	testutil.WriteTemplate(t, src)

	mock := system.NewMockExecutor()
	mock.AddResponse("git --version", system.Result{Stdout: "git version 2.47.0\n"}, nil)
	mock.AddResponse("nix --version", system.Result{Stdout: "nix (Nix) 2.24.9\n"}, nil)
	useExecutor(t, mock)

	stdout, _, err := executeCommand("doctor", "--json", "--source", src)
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}

	var report struct {
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(report.Checks) != 3 || report.Checks[1].Name != "nix" {
		t.Errorf("checks = %+v, want git, nix, template", report.Checks)
	}
}

func TestDoctorCommand_MissingTool(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	testutil.WriteTemplate(t, src)

	mock := system.NewMockExecutor()
	mock.AddResponse("task --version", system.Result{ExitCode: -1}, os.ErrNotExist)
	useExecutor(t, mock)

	_, _, err := executeCommand("doctor", "--no-devenv", "--source", src)
	if err == nil {
		t.Fatal("expected doctor to fail without task")
	}
	if code := errors.GetExitCode(err); code != errors.ExitSetupError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSetupError)
	}
	if !strings.Contains(err.Error(), "task") {
		t.Errorf("error = %v, want it to name task", err)
	}
}
