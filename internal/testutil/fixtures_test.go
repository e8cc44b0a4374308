package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

func TestLoadFixture(t *testing.T) {
	data, err := LoadFixture("copier.yml")
	if err != nil {
		t.Fatalf("LoadFixture() error: %v", err)
	}

	for _, key := range params.RecognizedKeys {
		if !strings.Contains(string(data), key+":") {
			t.Errorf("copier.yml does not declare %q", key)
		}
	}
}

func TestLoadFixture_NotFound(t *testing.T) {
	if _, err := LoadFixture("nonexistent.yml"); err == nil {
		t.Error("LoadFixture() should fail for a missing fixture")
	}
}

func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()
	WriteTemplate(t, dir)

	for _, rel := range []string{
		"copier.yml",
		"template/README.md.jinja",
		"template/{{ databasename }}/config.env.jinja",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
	}

	info, err := os.Stat(filepath.Join(dir, "template", "scripts", "check.sh"))
	if err != nil {
		t.Fatalf("Stat(check.sh) error: %v", err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Errorf("check.sh mode = %v, want executable", info.Mode().Perm())
	}
}

func TestNewTemplateRepo(t *testing.T) {
	dir := NewTemplateRepo(t)

	if !workspace.IsRepo(dir) {
		t.Fatal("template directory is not a repository")
	}

	git := workspace.NewGit(system.DefaultExecutor(), workspace.DefaultIdentity)
	status, err := git.StatusPorcelain(context.Background(), dir)
	if err != nil {
		t.Fatalf("StatusPorcelain() error: %v", err)
	}
	if status != "" {
		t.Errorf("template repository not clean:\n%s", status)
	}
}

func TestAllocator(t *testing.T) {
	alloc := NewAllocator(t)

	first, err := alloc.MkdirTemp("copied-template-")
	if err != nil {
		t.Fatalf("MkdirTemp() error: %v", err)
	}
	second, err := alloc.MkdirTemp("copied-template-")
	if err != nil {
		t.Fatalf("MkdirTemp() error: %v", err)
	}

	if first == second {
		t.Error("MkdirTemp() returned the same directory twice")
	}
	if !strings.HasPrefix(filepath.Base(first), "copied-template-") {
		t.Errorf("directory %q lacks prefix", first)
	}
	if alloc.Last() != second {
		t.Errorf("Last() = %q, want %q", alloc.Last(), second)
	}

	alloc.Fails = errors.New("disk full")
	if _, err := alloc.MkdirTemp("x"); err == nil {
		t.Error("MkdirTemp() should return the injected error")
	}
}

func TestBuildExecutor(t *testing.T) {
	exec := NewBuildExecutor(2)

	result, err := exec.Run(context.Background(), system.Command{Name: "nix", Args: []string{"develop"}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", result.ExitCode)
	}
	if exec.BuildCount() != 1 {
		t.Errorf("BuildCount() = %d, want 1", exec.BuildCount())
	}
}

func TestReadTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "a"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a", "b.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	tree := ReadTree(t, dir)
	if len(tree) != 1 || tree["a/b.txt"] != "hello" {
		t.Errorf("ReadTree() = %v, want only a/b.txt", tree)
	}
}
