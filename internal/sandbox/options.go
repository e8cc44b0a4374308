package sandbox

import (
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// DefaultPrefix names sandbox directories.
const DefaultPrefix = "copied-template-"

// DefaultCommitMessage is the baseline commit message.
const DefaultCommitMessage = "Initial commit"

// Options configures sandbox acquisition.
type Options struct {
	// Prefix for the sandbox directory name; DefaultPrefix when empty.
	Prefix string

	// Identity used for the baseline commit.
	Identity workspace.Identity

	// Executor runs git; system.DefaultExecutor() when nil.
	Executor system.CommandExecutor

	// FS is used for emptiness checks and teardown; system.DefaultFS() when nil.
	FS system.FileSystem

	// Cleanup selects what Release removes.
	Cleanup CleanupOptions
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Executor == nil {
		o.Executor = system.DefaultExecutor()
	}
	if o.FS == nil {
		o.FS = system.DefaultFS()
	}
	return o
}
