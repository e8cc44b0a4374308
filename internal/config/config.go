package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/tmplcheck/internal/devenv"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/sandbox"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/verify"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "tmplcheck.toml"

// Development environments.
const (
	DevenvNix  = "nix"
	DevenvNone = "none"
)

// Config is the tmplcheck configuration file.
type Config struct {
	Template TemplateConfig `toml:"template"`

	// Data holds template answers. Non-string TOML values are converted to
	// their literal form ("true", "5432").
	Data map[string]any `toml:"data"`

	Verify  VerifyConfig  `toml:"verify"`
	Sandbox SandboxConfig `toml:"sandbox"`
	Git     GitConfig     `toml:"git"`
}

// TemplateConfig locates the template.
type TemplateConfig struct {
	Source string `toml:"source"`
	Ref    string `toml:"ref"`
}

// VerifyConfig describes the documentation build.
type VerifyConfig struct {
	Devenv  string   `toml:"devenv"`
	Flake   string   `toml:"flake"`
	Shell   string   `toml:"shell"`
	Task    string   `toml:"task"`
	Timeout Duration `toml:"timeout"`
}

// SandboxConfig controls where sandboxes live and whether they are kept.
type SandboxConfig struct {
	Root string `toml:"root"`
	Keep bool   `toml:"keep"`
}

// GitConfig is the identity used for the baseline commit.
type GitConfig struct {
	Name    string `toml:"name"`
	Email   string `toml:"email"`
	Message string `toml:"message"`
}

// Duration is a time.Duration written as a Go duration string ("30m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Template: TemplateConfig{Source: ".", Ref: template.DefaultRef},
		Data:     map[string]any{},
		Verify: VerifyConfig{
			Devenv:  DevenvNix,
			Flake:   "./",
			Shell:   verify.DefaultShell,
			Task:    shellquote.Join(verify.DefaultTask()...),
			Timeout: Duration{verify.DefaultTimeout},
		},
		Git: GitConfig{
			Name:    workspace.DefaultIdentity.Name,
			Email:   workspace.DefaultIdentity.Email,
			Message: sandbox.DefaultCommitMessage,
		},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// reads DefaultFile if it exists and returns the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Template.Source == "" {
		return fmt.Errorf("template.source is required")
	}

	switch c.Verify.Devenv {
	case DevenvNix:
		if c.Verify.Shell == "" {
			return fmt.Errorf("verify.shell is required for the nix environment")
		}
	case DevenvNone:
	default:
		return fmt.Errorf("invalid verify.devenv %q: must be %q or %q", c.Verify.Devenv, DevenvNix, DevenvNone)
	}

	task, err := c.TaskArgv()
	if err != nil {
		return err
	}
	if len(task) == 0 {
		return fmt.Errorf("verify.task is required")
	}

	if c.Verify.Timeout.Duration < 0 {
		return fmt.Errorf("verify.timeout must not be negative")
	}

	if _, err := c.Params(); err != nil {
		return err
	}

	if (c.Git.Name == "") != (c.Git.Email == "") {
		return fmt.Errorf("git.name and git.email must be set together")
	}

	return nil
}

// Params returns the data section as a parameter set.
func (c *Config) Params() (params.Set, error) {
	values := make(map[string]string, len(c.Data))
	keys := make([]string, 0, len(c.Data))
	for k := range c.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := c.Data[k].(type) {
		case string:
			values[k] = v
		case bool:
			values[k] = params.FormatBool(v)
		case int64:
			values[k] = strconv.FormatInt(v, 10)
		case float64:
			values[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return params.Set{}, fmt.Errorf("data.%s: unsupported value of type %T", k, v)
		}
	}
	return params.New(values), nil
}

// TaskArgv splits verify.task into arguments with shell quoting rules.
func (c *Config) TaskArgv() ([]string, error) {
	argv, err := shellquote.Split(c.Verify.Task)
	if err != nil {
		return nil, fmt.Errorf("invalid verify.task %q: %w", c.Verify.Task, err)
	}
	return argv, nil
}

// Environment returns the development environment for the build.
func (c *Config) Environment() devenv.Environment {
	if c.Verify.Devenv == DevenvNone {
		return devenv.Direct{}
	}
	n := devenv.NewNix(c.Verify.Shell)
	if c.Verify.Flake != "" {
		n.Flake = c.Verify.Flake
	}
	return n
}

// Step returns the verification step described by the configuration.
func (c *Config) Step() (verify.Step, error) {
	task, err := c.TaskArgv()
	if err != nil {
		return verify.Step{}, err
	}
	return verify.Step{
		Env:     c.Environment(),
		Task:    task,
		Timeout: c.Verify.Timeout.Duration,
	}, nil
}

// Source returns the template source.
func (c *Config) Source() template.Source {
	return template.Source{Path: c.Template.Source, Ref: c.Template.Ref}
}

// Allocator returns the sandbox directory allocator.
func (c *Config) Allocator() sandbox.OSAllocator {
	return sandbox.OSAllocator{Root: c.Sandbox.Root}
}

// Cleanup returns the sandbox teardown options.
func (c *Config) Cleanup() sandbox.CleanupOptions {
	if c.Sandbox.Keep {
		return sandbox.KeepCleanupOptions()
	}
	return sandbox.DefaultCleanupOptions()
}

// Identity returns the git identity for the baseline commit.
func (c *Config) Identity() workspace.Identity {
	return workspace.Identity{Name: c.Git.Name, Email: c.Git.Email}
}
