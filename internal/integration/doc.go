// Package integration holds the end-to-end tests.
//
// The workflow tests run the whole check against the embedded fixture
// template with a stubbed or direct build and need only git.
//
// The documentation test runs the real build,
//
//	nix develop ./#docs --command -- task test-docs
//
// against a real template checkout. It is skipped unless
// TMPLCHECK_INTEGRATION_TESTS is set and TMPLCHECK_TEMPLATE_SOURCE points
// at the checkout; TMPLCHECK_TEMPLATE_REF selects a revision other than
// HEAD. It requires git and nix with flakes enabled.
//
// # Running Integration Tests
//
//	TMPLCHECK_INTEGRATION_TESTS=1 TMPLCHECK_TEMPLATE_SOURCE=../database-template \
//	    go test -v -run TestDocs ./internal/integration/...
package integration
