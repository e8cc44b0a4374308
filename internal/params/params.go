// Package params holds the immutable parameter set a template is
// materialized with.
package params

import (
	"fmt"
	"sort"
	"strings"
)

// Keys recognized by the database project template.
const (
	AccountName  = "accountname"
	DatabaseName = "databasename"
	Description  = "description"
	RepoName     = "reponame"
	RepoURL      = "repourl"
	EnvPrefix    = "envprefix"
	Port         = "port"
	Docs         = "docs"
	DocsURL      = "docsurl"
	Releases     = "releases"
	Registry     = "registry"
	ImageName    = "imagename"
)

// RecognizedKeys lists every template variable in questionnaire order.
var RecognizedKeys = []string{
	AccountName,
	DatabaseName,
	Description,
	RepoName,
	RepoURL,
	EnvPrefix,
	Port,
	Docs,
	DocsURL,
	Releases,
	Registry,
	ImageName,
}

// Set is an immutable mapping from parameter name to string value.
// The zero value is an empty set.
type Set struct {
	values map[string]string
}

// New returns a Set holding a copy of values.
func New(values map[string]string) Set {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Set{values: copied}
}

// Get returns the value for key and whether it is present.
func (s Set) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of parameters.
func (s Set) Len() int {
	return len(s.values)
}

// Keys returns the parameter names in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying mapping.
func (s Set) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Merge returns a new Set with overrides applied on top of s.
func (s Set) Merge(overrides Set) Set {
	merged := s.Map()
	for k, v := range overrides.values {
		merged[k] = v
	}
	return Set{values: merged}
}

// Missing returns the keys absent from s, sorted.
func (s Set) Missing(keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if !s.Has(k) {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

// Require returns an error naming every key absent from s.
func (s Set) Require(keys ...string) error {
	missing := s.Missing(keys...)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing parameters: %s", strings.Join(missing, ", "))
}

// Bool parses a boolean-like parameter. Only the literals "true" and
// "false" are accepted.
func (s Set) Bool(key string) (bool, error) {
	v, ok := s.values[key]
	if !ok {
		return false, fmt.Errorf("parameter %s is not set", key)
	}
	return ParseBool(v)
}

// ParseBool accepts exactly "true" or "false".
func ParseBool(v string) (bool, error) {
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q (must be \"true\" or \"false\")", v)
	}
}

// FormatBool renders b the way templates expect boolean parameters.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ParseAssignments builds a Set from "key=value" strings.
// Later assignments to the same key win.
func ParseAssignments(assignments []string) (Set, error) {
	values := make(map[string]string, len(assignments))
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Set{}, fmt.Errorf("invalid assignment %q (expected key=value)", a)
		}
		values[key] = value
	}
	return Set{values: values}, nil
}

// Example returns the parameter set for the example database project
// generated by the documentation check.
func Example() Set {
	return New(map[string]string{
		AccountName:  "radio-aktywne",
		DatabaseName: "foo",
		Description:  "Example database",
		RepoName:     "foo",
		RepoURL:      "https://github.com/radio-aktywne/foo",
		EnvPrefix:    "FOO",
		Port:         "5432",
		Docs:         "true",
		DocsURL:      "https://radio-aktywne.github.io/foo",
		Releases:     "false",
		Registry:     "false",
		ImageName:    "databases/foo",
	})
}
