package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/system"
)

// Identity is the author/committer used for commits in an isolated repository.
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity is used when no identity is configured.
var DefaultIdentity = Identity{Name: "tmplcheck", Email: "tmplcheck@localhost"}

// Env returns the environment overlay that isolates git from the user's
// global and system configuration and pins the identity. It is applied per
// command, so nothing leaks into the calling process.
func (id Identity) Env() map[string]string {
	return map[string]string{
		"GIT_AUTHOR_NAME":     id.Name,
		"GIT_AUTHOR_EMAIL":    id.Email,
		"GIT_COMMITTER_NAME":  id.Name,
		"GIT_COMMITTER_EMAIL": id.Email,
		"GIT_CONFIG_GLOBAL":   os.DevNull,
		"GIT_CONFIG_NOSYSTEM": "1",
		"GIT_TERMINAL_PROMPT": "0",
	}
}

// Git runs git commands through a CommandExecutor.
type Git struct {
	exec     system.CommandExecutor
	identity Identity
}

// NewGit returns a Git using exec and identity. A nil exec selects the
// default executor; an empty identity selects DefaultIdentity.
func NewGit(exec system.CommandExecutor, identity Identity) *Git {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	if identity.Name == "" || identity.Email == "" {
		identity = DefaultIdentity
	}
	return &Git{exec: exec, identity: identity}
}

// Identity returns the identity used for commits.
func (g *Git) Identity() Identity {
	return g.identity
}

// run executes git in dir and returns trimmed stdout.
// A non-zero exit is turned into an error carrying git's output.
func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	logging.Debug("git", "dir", dir, "args", args)

	result, err := g.exec.Run(ctx, system.Command{
		Name: "git",
		Args: args,
		Dir:  dir,
		Env:  g.identity.Env(),
	})
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	if !result.Success() {
		return "", fmt.Errorf("git %s exited with status %d: %s",
			args[0], result.ExitCode, strings.TrimSpace(result.Output()))
	}
	return strings.TrimSpace(result.Stdout), nil
}

// IsRepo checks for a .git directory or file at path.
func IsRepo(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	// .git can be a directory (normal repo) or a file (worktree)
	return info.IsDir() || info.Mode().IsRegular()
}

// Init creates an empty repository in dir.
func (g *Git) Init(ctx context.Context, dir string) error {
	if _, err := g.run(ctx, dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// AddAll stages every file in the working tree.
func (g *Git) AddAll(ctx context.Context, dir string) error {
	if _, err := g.run(ctx, dir, "add", "./"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

// Commit records the staged changes and returns the new commit hash.
func (g *Git) Commit(ctx context.Context, dir, message string) (string, error) {
	if _, err := g.run(ctx, dir, "commit", "--quiet", "--message", message); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return g.ResolveRevision(ctx, dir, "HEAD")
}

// StatusPorcelain returns `git status --porcelain` output; empty means clean.
func (g *Git) StatusPorcelain(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("failed to read status: %w", err)
	}
	return out, nil
}

// ResolveRevision resolves ref to a full commit hash in the repository at dir.
func (g *Git) ResolveRevision(ctx context.Context, dir, ref string) (string, error) {
	out, err := g.run(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("revision %q not found: %w", ref, err)
	}
	return out, nil
}

// Clone copies the repository at src into dest without checking out files.
// The source is only read.
func (g *Git) Clone(ctx context.Context, src, dest string) error {
	if _, err := g.run(ctx, "", "clone", "--quiet", "--no-checkout", src, dest); err != nil {
		return fmt.Errorf("failed to clone %s: %w", src, err)
	}
	return nil
}

// Checkout checks out commit in dir as a detached HEAD.
func (g *Git) Checkout(ctx context.Context, dir, commit string) error {
	if _, err := g.run(ctx, dir, "checkout", "--quiet", "--detach", commit); err != nil {
		return fmt.Errorf("failed to check out %s: %w", commit, err)
	}
	return nil
}
