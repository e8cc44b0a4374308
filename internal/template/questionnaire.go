package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Questionnaire file names, in lookup order.
var questionnaireFiles = []string{"copier.yml", "copier.yaml"}

// Defaults applied when the questionnaire leaves a setting unset.
const (
	DefaultTemplatesSuffix = ".jinja"
	DefaultAnswersFile     = ".copier-answers.yml"
)

// defaultExcludes mirrors the files a template never ships.
var defaultExcludes = []string{
	"copier.yaml",
	"copier.yml",
	"~*",
	"*.py[co]",
	"__pycache__",
	".git",
	".DS_Store",
	".svn",
}

// Question is a single templated variable declared by the questionnaire.
type Question struct {
	Name string `json:"name"`
	// Type is one of str, bool, int, float, yaml, json.
	Type    string   `json:"type"`
	Help    string   `json:"help,omitempty"`
	Secret  bool     `json:"secret,omitempty"`
	Choices []string `json:"choices,omitempty"`

	// Default is the raw default, possibly itself a template expression.
	Default    string `json:"default,omitempty"`
	HasDefault bool   `json:"has_default"`

	// When is a raw condition; empty means the question always applies.
	When string `json:"when,omitempty"`
}

// Settings are the underscore-prefixed questionnaire keys.
type Settings struct {
	Subdirectory    string
	Exclude         []string
	TemplatesSuffix string
	AnswersFile     string

	// hasExclude records an explicit _exclude, even an empty one.
	hasExclude bool
}

// Questionnaire is the parsed template configuration.
type Questionnaire struct {
	Questions []Question
	Settings  Settings
}

// Question returns the named question.
func (q *Questionnaire) Question(name string) (Question, bool) {
	for _, question := range q.Questions {
		if question.Name == name {
			return question, true
		}
	}
	return Question{}, false
}

// Names returns the question names in declaration order.
func (q *Questionnaire) Names() []string {
	names := make([]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		names = append(names, question.Name)
	}
	return names
}

// Excludes returns the exclude patterns in effect. An explicit _exclude
// replaces the defaults, and a template kept in a subdirectory has none.
func (q *Questionnaire) Excludes() []string {
	switch {
	case q.Settings.hasExclude:
		return append([]string(nil), q.Settings.Exclude...)
	case q.Settings.Subdirectory != "":
		return nil
	default:
		return append([]string(nil), defaultExcludes...)
	}
}

// questionDTO is the YAML shape of an expanded question.
type questionDTO struct {
	Type    string     `yaml:"type"`
	Help    string     `yaml:"help"`
	Secret  bool       `yaml:"secret"`
	Default *yaml.Node `yaml:"default"`
	Choices *yaml.Node `yaml:"choices"`
	When    *yaml.Node `yaml:"when"`
}

// LoadQuestionnaire reads copier.yml (or copier.yaml) from dir.
func LoadQuestionnaire(dir string) (*Questionnaire, error) {
	for _, name := range questionnaireFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		q, err := ParseQuestionnaire(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return q, nil
	}
	return nil, fmt.Errorf("no questionnaire (%s) in %s", strings.Join(questionnaireFiles, " or "), dir)
}

// ParseQuestionnaire parses questionnaire YAML, keeping question order.
func ParseQuestionnaire(data []byte) (*Questionnaire, error) {
	q := &Questionnaire{
		Settings: Settings{
			TemplatesSuffix: DefaultTemplatesSuffix,
			AnswersFile:     DefaultAnswersFile,
		},
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return q, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("questionnaire must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		if strings.HasPrefix(key, "_") {
			if err := q.Settings.apply(key, value); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			continue
		}
		question, err := parseQuestion(key, value)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", key, err)
		}
		q.Questions = append(q.Questions, question)
	}

	return q, nil
}

func (s *Settings) apply(key string, value *yaml.Node) error {
	switch key {
	case "_subdirectory":
		return value.Decode(&s.Subdirectory)
	case "_exclude":
		s.hasExclude = true
		return value.Decode(&s.Exclude)
	case "_templates_suffix":
		// An explicit empty suffix renders every file.
		return value.Decode(&s.TemplatesSuffix)
	case "_answers_file":
		return value.Decode(&s.AnswersFile)
	default:
		// Migrations, tasks, version constraints and the like do not affect
		// rendering and are ignored.
		return nil
	}
}

func parseQuestion(name string, value *yaml.Node) (Question, error) {
	question := Question{Name: name, Type: "str"}

	if value.Kind != yaml.MappingNode {
		// Shorthand: "name: default".
		def, err := nodeString(value)
		if err != nil {
			return question, err
		}
		question.Default, question.HasDefault = def, true
		if value.Tag == "!!bool" {
			question.Type = "bool"
		}
		return question, nil
	}

	var dto questionDTO
	if err := value.Decode(&dto); err != nil {
		return question, err
	}
	if dto.Type != "" {
		question.Type = dto.Type
	}
	switch question.Type {
	case "str", "bool", "int", "float", "yaml", "json":
	default:
		return question, fmt.Errorf("unsupported type %q", question.Type)
	}
	question.Help = dto.Help
	question.Secret = dto.Secret

	if dto.Default != nil {
		def, err := nodeString(dto.Default)
		if err != nil {
			return question, fmt.Errorf("default: %w", err)
		}
		question.Default, question.HasDefault = def, true
	}
	if dto.When != nil {
		when, err := nodeString(dto.When)
		if err != nil {
			return question, fmt.Errorf("when: %w", err)
		}
		question.When = when
	}
	if dto.Choices != nil {
		choices, err := parseChoices(dto.Choices)
		if err != nil {
			return question, fmt.Errorf("choices: %w", err)
		}
		question.Choices = choices
	}

	return question, nil
}

// parseChoices accepts a list of values or a label -> value mapping.
func parseChoices(node *yaml.Node) ([]string, error) {
	var choices []string
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			v, err := nodeString(item)
			if err != nil {
				return nil, err
			}
			choices = append(choices, v)
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			v, err := nodeString(node.Content[i])
			if err != nil {
				return nil, err
			}
			choices = append(choices, v)
		}
	default:
		return nil, fmt.Errorf("must be a list or a mapping")
	}
	return choices, nil
}

// nodeString renders a scalar as its literal text and anything else as YAML.
func nodeString(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		switch node.Tag {
		case "!!null":
			return "", nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return "", err
			}
			return strconv.FormatBool(b), nil
		}
		return node.Value, nil
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
