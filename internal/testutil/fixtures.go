package testutil

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

//go:embed all:fixtures/template
var fixturesFS embed.FS

const templateRoot = "fixtures/template"

// TemplateFS returns the fixture template tree.
func TemplateFS() fs.FS {
	sub, err := fs.Sub(fixturesFS, templateRoot)
	if err != nil {
		panic(err)
	}
	return sub
}

// LoadFixture reads a file from the fixture template by slash path.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile(path.Join(templateRoot, name))
}

// WriteTemplate writes the fixture template into dir. Shell scripts are made
// executable since embedded files carry no mode.
func WriteTemplate(t testing.TB, dir string) {
	t.Helper()

	err := fs.WalkDir(TemplateFS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := fs.ReadFile(TemplateFS(), p)
		if err != nil {
			return err
		}
		mode := os.FileMode(0644)
		if strings.HasSuffix(p, ".sh") {
			mode = 0755
		}
		if err := os.WriteFile(target, data, mode); err != nil {
			return err
		}
		return os.Chmod(target, mode)
	})
	if err != nil {
		t.Fatalf("Failed to write fixture template: %v", err)
	}
}

// RequireGit skips the test when git is not installed.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// NewTemplateRepo writes the fixture template into a fresh git repository
// with a single commit and returns its path.
func NewTemplateRepo(t testing.TB) string {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), "template")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create template directory: %v", err)
	}
	WriteTemplate(t, dir)

	CommitAll(t, dir, "Add template")
	return dir
}

// CommitAll initializes dir as a repository when needed and commits every
// file in it, returning the commit hash.
func CommitAll(t testing.TB, dir, message string) string {
	t.Helper()

	ctx := context.Background()
	git := workspace.NewGit(system.DefaultExecutor(), workspace.DefaultIdentity)
	if !workspace.IsRepo(dir) {
		if err := git.Init(ctx, dir); err != nil {
			t.Fatalf("git init: %v", err)
		}
	}
	if err := git.AddAll(ctx, dir); err != nil {
		t.Fatalf("git add: %v", err)
	}
	hash, err := git.Commit(ctx, dir, message)
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	return hash
}
