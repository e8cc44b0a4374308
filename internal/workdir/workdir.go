// Package workdir switches the process working directory for the duration
// of a call and restores it on every exit path.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/firefly-engineering/tmplcheck/internal/logging"
)

// The working directory is process-wide; scopes never overlap.
var mu sync.Mutex

// Scope changes into dir, runs fn, and changes back to the previous
// directory even if fn fails or panics. A restore failure is returned
// joined with fn's error.
func Scope(dir string, fn func() error) (err error) {
	mu.Lock()
	defer mu.Unlock()

	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to read working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	logging.Debug("entered directory", "dir", dir, "previous", prev)

	defer func() {
		if restoreErr := os.Chdir(prev); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restore working directory %s: %w", prev, restoreErr))
		}
	}()

	return fn()
}
