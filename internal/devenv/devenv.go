// Package devenv provides an abstraction over reproducible development
// environments that commands are run inside. Currently backed by Nix flake
// dev shells, but abstracted so commands can also run unwrapped.
package devenv

// Environment wraps a command so it runs inside a development environment.
type Environment interface {
	// Name identifies the environment in logs and reports.
	Name() string

	// Wrap returns the executable and arguments that run argv inside the
	// environment. argv must not be empty.
	Wrap(argv []string) (name string, args []string)
}

// Direct runs commands as-is, without any environment.
type Direct struct{}

func (Direct) Name() string {
	return "direct"
}

func (Direct) Wrap(argv []string) (string, []string) {
	return argv[0], append([]string(nil), argv[1:]...)
}

// Ensure Direct implements Environment.
var _ Environment = Direct{}
