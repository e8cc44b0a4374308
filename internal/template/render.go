package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
	"gopkg.in/yaml.v3"
)

func init() {
	registerFilter("to_nice_yaml", yamlFilter)
	registerFilter("to_yaml", yamlFilter)
}

func registerFilter(name string, fn exec.FilterFunction) {
	filters := gonja.DefaultEnvironment.Filters
	if !filters.Exists(name) {
		_ = filters.Register(name, fn)
	}
}

// yamlFilter renders its input as a YAML document with sorted keys.
func yamlFilter(_ *exec.Evaluator, in *exec.Value, _ *exec.VarArgs) *exec.Value {
	if in.IsError() {
		return in
	}
	out, err := yaml.Marshal(in.Interface())
	if err != nil {
		return exec.AsValue(fmt.Errorf("to_yaml: %w", err))
	}
	return exec.AsValue(string(out))
}

// renderString renders src as a Jinja template against vars. Output is
// never HTML-escaped and a trailing newline in src is kept.
func renderString(src string, vars map[string]any) (string, error) {
	if !strings.Contains(src, "{{") && !strings.Contains(src, "{%") && !strings.Contains(src, "{#") {
		return src, nil
	}
	tpl, err := gonja.FromString(src)
	if err != nil {
		return "", err
	}
	out, err := tpl.ExecuteToString(exec.NewContext(vars))
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(src, "\n") && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// typedValue converts a string answer into the Go value templates see, so
// that boolean answers behave as booleans in conditionals.
func typedValue(kind, value string) (any, error) {
	switch kind {
	case "bool":
		switch value {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q (expected \"true\" or \"false\")", value)
	case "int":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", value)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", value)
		}
		return f, nil
	case "yaml", "json":
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", kind, err)
		}
		return v, nil
	default:
		return value, nil
	}
}

// truthy reports whether a rendered condition holds.
func truthy(rendered string) bool {
	switch strings.ToLower(strings.TrimSpace(rendered)) {
	case "", "false", "0", "no", "none", "null":
		return false
	}
	return true
}
