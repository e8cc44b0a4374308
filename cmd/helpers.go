package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/config"
	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/system"
)

// templateFlags are shared by commands that read a template.
type templateFlags struct {
	source string
	ref    string
	data   []string
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Template source directory (overrides template.source)")
	cmd.Flags().StringVar(&f.ref, "ref", "", "Template revision (overrides template.ref)")
	cmd.Flags().StringArrayVarP(&f.data, "data", "d", nil, "Template answer as key=value (repeatable)")
}

func (f *templateFlags) reset() {
	*f = templateFlags{}
}

// apply overrides cfg with the flags that were set.
func (f *templateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.Template.Source = f.source
	}
	if cmd.Flags().Changed("ref") {
		cfg.Template.Ref = f.ref
	}
}

// params merges --data over the configuration's data section, or over
// fallback when the configuration has no data.
func (f *templateFlags) params(cfg *config.Config, fallback params.Set) (params.Set, error) {
	data, err := cfg.Params()
	if err != nil {
		return params.Set{}, errors.ConfigError("invalid data section", err)
	}
	if data.Len() == 0 {
		data = fallback
	}
	overrides, err := params.ParseAssignments(f.data)
	if err != nil {
		return params.Set{}, errors.ValidationError(err.Error())
	}
	return data.Merge(overrides), nil
}

// loadConfig reads the configuration selected by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// getExecutor returns the command executor for this invocation.
func getExecutor() system.CommandExecutor {
	if executor != nil {
		return executor
	}
	return system.DefaultExecutor()
}

// writeJSON writes v indented to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
