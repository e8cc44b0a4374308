// Package testutil provides test utilities shared across packages
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/firefly-engineering/tmplcheck/internal/system"
)

// Allocator hands out sandbox directories under a test's temp dir, so they
// are removed even when a test forgets to release them.
type Allocator struct {
	t    testing.TB
	root string

	mu    sync.Mutex
	Dirs  []string
	Fails error
}

// NewAllocator returns an Allocator rooted in t.TempDir().
func NewAllocator(t testing.TB) *Allocator {
	return &Allocator{t: t, root: t.TempDir()}
}

// MkdirTemp creates a uniquely named directory starting with pattern.
func (a *Allocator) MkdirTemp(pattern string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Fails != nil {
		return "", a.Fails
	}
	dir, err := os.MkdirTemp(a.root, pattern+"*")
	if err != nil {
		return "", err
	}
	a.Dirs = append(a.Dirs, dir)
	return dir, nil
}

// Last returns the most recently allocated directory.
func (a *Allocator) Last() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.Dirs) == 0 {
		a.t.Fatal("no directory allocated")
	}
	return a.Dirs[len(a.Dirs)-1]
}

// BuildExecutor runs git for real and answers every other command (the
// development shell and the task runner) with a canned result.
type BuildExecutor struct {
	Real   system.CommandExecutor
	Result system.Result
	Err    error

	// Hook runs before a build command returns; its error replaces Err.
	Hook func(cmd system.Command) error

	mu     sync.Mutex
	Builds []system.Command
}

// NewBuildExecutor returns a BuildExecutor whose builds exit with code.
func NewBuildExecutor(code int) *BuildExecutor {
	return &BuildExecutor{
		Real:   system.DefaultExecutor(),
		Result: system.Result{ExitCode: code},
	}
}

func (e *BuildExecutor) Run(ctx context.Context, cmd system.Command) (system.Result, error) {
	if cmd.Name == "git" {
		return e.Real.Run(ctx, cmd)
	}

	e.mu.Lock()
	e.Builds = append(e.Builds, cmd)
	e.mu.Unlock()

	if e.Hook != nil {
		if err := e.Hook(cmd); err != nil {
			return system.Result{ExitCode: -1}, err
		}
	}
	return e.Result, e.Err
}

// BuildCount returns the number of build commands run.
func (e *BuildExecutor) BuildCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Builds)
}

// ReadTree returns the regular files under dir keyed by slash path,
// skipping .git.
func ReadTree(t testing.TB, dir string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to read tree %s: %v", dir, err)
	}
	return tree
}
