// Package verify runs the documentation build of a materialized project.
//
// A Step wraps a task runner invocation in a development environment. The
// default step is
//
//	nix develop ./#docs --command -- task test-docs
//
// run once, with the project as working directory. The exit status is the
// only success signal; output is captured for diagnostics.
package verify
