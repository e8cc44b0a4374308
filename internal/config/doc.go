// Package config loads the tmplcheck configuration file.
//
// The file is TOML, read from tmplcheck.toml in the working directory or
// from an explicit path:
//
//	[template]
//	source = "."
//	ref = "HEAD"
//
//	[data]
//	accountname = "radio-aktywne"
//	docs = true
//	port = 5432
//
//	[verify]
//	devenv = "nix"            # or "none" to run the task directly
//	shell = "docs"
//	task = "task test-docs"
//	timeout = "30m"           # "0s" disables the timeout
//
//	[sandbox]
//	root = ""                 # parent of sandbox directories; "" = os.TempDir()
//	keep = false
//
//	[git]
//	name = "tmplcheck"
//	email = "tmplcheck@localhost"
//
// Missing keys keep their defaults. Unknown keys are rejected. Load
// validates the result; command-line flags are applied on top by the CLI.
package config
