// Package template materializes copier-style project templates.
//
// A template is a directory with a questionnaire (copier.yml) and a tree of
// files. Files ending in the templates suffix (".jinja" by default) and all
// path names are rendered with a Jinja-compatible engine; other files are
// copied byte for byte.
//
// # Pinning
//
// Versioned sources are never written. Materialize resolves the requested
// revision, clones the source into a staging directory, checks the revision
// out there and renders from the clone:
//
//	res, err := template.Materialize(ctx, template.Options{
//	    Source: template.Source{Path: "../template", Ref: "HEAD"},
//	    Dest:   dir,
//	    Data:   params.Example(),
//	    Quiet:  true,
//	})
//
// # Answers
//
// Answers come from Options.Data, then rendered questionnaire defaults, then
// the Prompter when not Quiet. Questions whose "when" condition renders
// false are skipped. The answers are recorded in the answers file
// (".copier-answers.yml") together with the template commit.
package template
