package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"

	tcerrors "github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// TempAllocator hands out fresh, uniquely named directories.
type TempAllocator interface {
	MkdirTemp(pattern string) (string, error)
}

// OSAllocator allocates directories under Root, or os.TempDir() when Root
// is empty.
type OSAllocator struct {
	Root string
}

func (a OSAllocator) MkdirTemp(pattern string) (string, error) {
	if a.Root != "" {
		if err := os.MkdirAll(a.Root, 0755); err != nil {
			return "", err
		}
	}
	return os.MkdirTemp(a.Root, pattern+"*")
}

// Sandbox is a disposable directory plus an isolated git context.
type Sandbox struct {
	// Dir is the sandbox directory.
	Dir string

	opts            Options
	git             *workspace.Git
	repoInitialized bool
	released        bool
}

// Acquire creates a fresh, empty sandbox directory.
func Acquire(ctx context.Context, alloc TempAllocator, opts Options) (*Sandbox, error) {
	if err := ctx.Err(); err != nil {
		return nil, tcerrors.SetupFailed("directory creation", err)
	}
	if alloc == nil {
		return nil, tcerrors.SetupFailed("directory creation", errors.New("no temp allocator"))
	}
	opts = opts.withDefaults()

	dir, err := alloc.MkdirTemp(opts.Prefix)
	if err != nil {
		return nil, tcerrors.SetupFailed("directory creation", err)
	}

	entries, err := opts.FS.ReadDir(dir)
	if err != nil {
		return nil, tcerrors.SetupFailed("directory creation", err)
	}
	if len(entries) != 0 {
		return nil, tcerrors.SetupFailed("directory creation", fmt.Errorf("%s is not empty", dir))
	}

	logging.Debug("sandbox acquired", "dir", dir)

	return &Sandbox{
		Dir:  dir,
		opts: opts,
		git:  workspace.NewGit(opts.Executor, opts.Identity),
	}, nil
}

// Git returns the git runner bound to the sandbox identity.
func (s *Sandbox) Git() *workspace.Git {
	return s.git
}

// InitRepo makes the sandbox directory an isolated git repository.
func (s *Sandbox) InitRepo(ctx context.Context) error {
	if err := s.git.Init(ctx, s.Dir); err != nil {
		return tcerrors.SetupFailed("repository initialization", err)
	}
	s.repoInitialized = true
	return nil
}

// CommitBaseline stages every file and commits it, returning the commit hash.
func (s *Sandbox) CommitBaseline(ctx context.Context, message string) (string, error) {
	if !s.repoInitialized {
		return "", tcerrors.SetupFailed("baseline commit", errors.New("repository not initialized"))
	}
	if message == "" {
		message = DefaultCommitMessage
	}
	if err := s.git.AddAll(ctx, s.Dir); err != nil {
		return "", tcerrors.SetupFailed("baseline commit", err)
	}
	hash, err := s.git.Commit(ctx, s.Dir, message)
	if err != nil {
		return "", tcerrors.SetupFailed("baseline commit", err)
	}
	logging.Debug("baseline committed", "dir", s.Dir, "commit", hash)
	return hash, nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (s *Sandbox) IsClean(ctx context.Context) (bool, error) {
	status, err := s.git.StatusPorcelain(ctx, s.Dir)
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// Scope acquires a sandbox, initializes its repository, runs fn and always
// releases the sandbox afterwards. A release error is returned only when
// fn succeeded.
func Scope(ctx context.Context, alloc TempAllocator, opts Options, fn func(*Sandbox) error) (err error) {
	sb, err := Acquire(ctx, alloc, opts)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := sb.Release(); releaseErr != nil && err == nil {
			err = tcerrors.SetupFailed("teardown", releaseErr)
		}
	}()

	if err := sb.InitRepo(ctx); err != nil {
		return err
	}
	return fn(sb)
}
