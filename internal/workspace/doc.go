// Package workspace wraps the git plumbing used to sandbox a generated
// project and to pin a template source to a revision.
//
// All commands run through system.CommandExecutor with an Identity
// environment overlay:
//
//	GIT_AUTHOR_NAME / GIT_AUTHOR_EMAIL
//	GIT_COMMITTER_NAME / GIT_COMMITTER_EMAIL
//	GIT_CONFIG_GLOBAL=/dev/null, GIT_CONFIG_NOSYSTEM=1
//
// The overlay is applied to each child process only, so repositories
// created here never depend on, or modify, the user's git configuration.
//
// # Operations
//
//	g := workspace.NewGit(nil, workspace.DefaultIdentity)
//	g.Init(ctx, dir)
//	g.AddAll(ctx, dir)
//	hash, _ := g.Commit(ctx, dir, "Initial commit")
//	status, _ := g.StatusPorcelain(ctx, dir) // "" when clean
//
// Template sources are pinned with ResolveRevision and copied with
// Clone + Checkout, which never write to the source checkout.
package workspace
