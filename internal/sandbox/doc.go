// Package sandbox provides the disposable working area a template is
// materialized into.
//
// A Sandbox is a fresh, uniquely named directory obtained from a
// TempAllocator plus an isolated git context. Git identity and
// configuration are injected per command (see workspace.Identity), so no
// process-wide state is touched.
//
// # Lifecycle
//
//	sb, err := sandbox.Acquire(ctx, sandbox.OSAllocator{}, sandbox.Options{
//	    Cleanup: sandbox.DefaultCleanupOptions(),
//	})
//	if err != nil {
//	    return err // setup error
//	}
//	defer sb.Release()
//
//	// materialize into sb.Dir ...
//
//	if err := sb.InitRepo(ctx); err != nil {
//	    return err
//	}
//	hash, err := sb.CommitBaseline(ctx, "Initial commit")
//
// Scope bundles Acquire, InitRepo and a guaranteed Release around a
// callback for callers that do not need to control the ordering.
//
// # Teardown
//
// Release is idempotent. CleanupOptions selects whether the .git directory
// and the sandbox directory are removed; KeepCleanupOptions leaves both in
// place for debugging.
//
// All failures are reported as setup errors (errors.ExitSetupError).
package sandbox
