package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/firefly-engineering/tmplcheck/internal/logging"
)

// CleanupOptions configures sandbox teardown behavior.
type CleanupOptions struct {
	// RemoveRepository if true, removes the .git directory.
	RemoveRepository bool

	// RemoveDirectory if true, removes the sandbox directory itself.
	RemoveDirectory bool
}

// DefaultCleanupOptions returns options that clean up everything.
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		RemoveRepository: true,
		RemoveDirectory:  true,
	}
}

// KeepCleanupOptions leaves the sandbox in place for inspection.
func KeepCleanupOptions() CleanupOptions {
	return CleanupOptions{}
}

// Release tears the sandbox down according to its CleanupOptions.
// It is idempotent and safe to defer on every exit path.
func (s *Sandbox) Release() error {
	if s == nil || s.released {
		return nil
	}
	s.released = true

	logging.Debug("releasing sandbox", "dir", s.Dir, "options", fmt.Sprintf("%+v", s.opts.Cleanup))

	var errs []error

	if s.opts.Cleanup.RemoveRepository && s.repoInitialized {
		gitDir := filepath.Join(s.Dir, ".git")
		if err := s.opts.FS.RemoveAll(gitDir); err != nil {
			logging.Warn("failed to remove sandbox repository", "path", gitDir, "error", err)
			errs = append(errs, fmt.Errorf("remove repository: %w", err))
		}
	}

	if s.opts.Cleanup.RemoveDirectory {
		if err := s.opts.FS.RemoveAll(s.Dir); err != nil {
			logging.Warn("failed to remove sandbox directory", "path", s.Dir, "error", err)
			errs = append(errs, fmt.Errorf("remove directory: %w", err))
		}
	} else {
		logging.Info("sandbox kept", "dir", s.Dir)
	}

	return errors.Join(errs...)
}
