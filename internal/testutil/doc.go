// Package testutil provides test fixtures and utilities.
//
// The fixture is a small copier template for a database project, embedded
// with go:embed:
//
//	fixtures/template/copier.yml
//	fixtures/template/template/...
//
// # Template Repositories
//
// NewTemplateRepo writes the fixture into a fresh git repository and
// commits it, which is what materialization expects as a source:
//
//	src := testutil.NewTemplateRepo(t)
//	res, err := template.Materialize(ctx, template.Options{
//	    Source: template.Source{Path: src},
//	    Dest:   dest,
//	    Data:   params.Example(),
//	    Quiet:  true,
//	})
//
// # Sandboxes and Builds
//
// Allocator places sandbox directories under t.TempDir(). BuildExecutor
// runs git for real while stubbing the documentation build:
//
//	exec := testutil.NewBuildExecutor(1) // build exits with status 1
//
// ReadTree snapshots a directory for comparison with go-cmp.
package testutil
