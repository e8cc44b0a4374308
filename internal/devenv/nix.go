package devenv

import "strings"

// Nix runs commands inside a flake dev shell:
//
//	nix develop <Flake>#<Shell> --command -- <argv...>
type Nix struct {
	// Flake is the flake reference; "./" when empty.
	Flake string

	// Shell is the devShell attribute; the default shell when empty.
	Shell string

	// Binary is the nix executable; "nix" when empty.
	Binary string
}

// NewNix returns a Nix environment for the given dev shell of the flake in
// the working directory.
func NewNix(shell string) *Nix {
	return &Nix{Flake: "./", Shell: shell}
}

func (n *Nix) Name() string {
	return "nix:" + n.Installable()
}

// Installable returns the flake output reference passed to nix develop.
func (n *Nix) Installable() string {
	flake := n.Flake
	if flake == "" {
		flake = "./"
	}
	if n.Shell == "" {
		return flake
	}
	if !strings.HasSuffix(flake, "/") && !strings.Contains(flake, ":") && flake != "." {
		flake += "/"
	}
	return flake + "#" + n.Shell
}

func (n *Nix) Wrap(argv []string) (string, []string) {
	binary := n.Binary
	if binary == "" {
		binary = "nix"
	}
	args := []string{"develop", n.Installable(), "--command", "--"}
	return binary, append(args, argv...)
}

// Ensure Nix implements Environment.
var _ Environment = (*Nix)(nil)
