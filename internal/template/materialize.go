package template

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"gopkg.in/yaml.v3"

	tcerrors "github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/logging"
	"github.com/firefly-engineering/tmplcheck/internal/params"
	"github.com/firefly-engineering/tmplcheck/internal/system"
	"github.com/firefly-engineering/tmplcheck/internal/workspace"
)

// DefaultRef is the revision materialized when a Source has no Ref.
const DefaultRef = "HEAD"

const answersHeader = "# Changes here will be overwritten by Copier; NEVER EDIT MANUALLY\n"

// Source locates a template: a local checkout and the revision to use.
type Source struct {
	Path string
	Ref  string
}

// ref returns the revision pin, defaulting to HEAD.
func (s Source) ref() string {
	if s.Ref == "" {
		return DefaultRef
	}
	return s.Ref
}

// Prompter asks for the value of a question that has no supplied answer.
// def is the rendered default, empty when the question has none.
type Prompter interface {
	Ask(ctx context.Context, q Question, def string) (string, error)
}

// Options configures a materialization.
type Options struct {
	Source Source

	// Dest receives the rendered project. It must exist.
	Dest string

	// Data supplies answers by question name.
	Data params.Set

	// Require lists keys Data must contain regardless of the questionnaire.
	Require []string

	// Quiet disables prompting and progress output. Questions without data
	// or a default are then an error.
	Quiet bool

	// Prompter is consulted for unanswered questions when not Quiet.
	Prompter Prompter

	// Progress receives one line per created file when not Quiet.
	Progress io.Writer

	// Executor runs git; system.DefaultExecutor() when nil.
	Executor system.CommandExecutor

	// FS receives the rendered files; system.DefaultFS() when nil.
	FS system.FileSystem
}

// Result describes a completed materialization.
type Result struct {
	// Commit is the template revision used, empty for unversioned sources.
	Commit string

	// Answers holds the recorded answers.
	Answers params.Set

	// Files lists created files relative to Dest, sorted.
	Files []string
}

type materializer struct {
	opts    Options
	srcPath string
	commit  string
	q       *Questionnaire
	answers map[string]string
	vars    map[string]any
	files   []string
}

// Materialize renders the template at opts.Source into opts.Dest.
//
// Versioned sources are cloned into a private staging directory and checked
// out at the pinned revision, so the source checkout is only read. The
// output depends only on the revision and the answers.
func Materialize(ctx context.Context, opts Options) (*Result, error) {
	if opts.Executor == nil {
		opts.Executor = system.DefaultExecutor()
	}
	if opts.FS == nil {
		opts.FS = system.DefaultFS()
	}
	if opts.Quiet {
		opts.Progress = nil
	}

	if missing := opts.Data.Missing(opts.Require...); len(missing) > 0 {
		return nil, tcerrors.MissingParameters(missing)
	}

	srcPath, err := filepath.Abs(opts.Source.Path)
	if err != nil {
		return nil, tcerrors.MaterializeFailed("invalid template source", err)
	}
	if _, err := os.Stat(srcPath); err != nil {
		return nil, tcerrors.MaterializeFailed(fmt.Sprintf("template source %s unreachable", srcPath), err)
	}
	if !opts.FS.Exists(opts.Dest) {
		return nil, tcerrors.MaterializeFailed(fmt.Sprintf("destination %s does not exist", opts.Dest), nil)
	}

	m := &materializer{opts: opts, srcPath: srcPath}
	root, cleanup, err := m.checkout(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := m.run(ctx, root); err != nil {
		var checkErr *tcerrors.CheckError
		if tcerrors.As(err, &checkErr) {
			return nil, err
		}
		return nil, tcerrors.MaterializeFailed("failed to render template", err)
	}

	slices.Sort(m.files)
	return &Result{
		Commit:  m.commit,
		Answers: params.New(m.answers),
		Files:   m.files,
	}, nil
}

// checkout returns the directory holding the template at the pinned
// revision and a function that removes any staging state.
func (m *materializer) checkout(ctx context.Context) (string, func(), error) {
	noop := func() {}

	if !workspace.IsRepo(m.srcPath) {
		if m.opts.Source.Ref != "" && m.opts.Source.Ref != DefaultRef {
			return "", noop, tcerrors.MaterializeFailed(
				fmt.Sprintf("cannot pin %s: %s is not a git repository", m.opts.Source.Ref, m.srcPath), nil)
		}
		logging.Debug("using unversioned template source", "path", m.srcPath)
		return m.srcPath, noop, nil
	}

	git := workspace.NewGit(m.opts.Executor, workspace.Identity{})
	commit, err := git.ResolveRevision(ctx, m.srcPath, m.opts.Source.ref())
	if err != nil {
		return "", noop, tcerrors.MaterializeFailed(
			fmt.Sprintf("revision %s not found in %s", m.opts.Source.ref(), m.srcPath), err)
	}
	m.commit = commit

	staging, err := os.MkdirTemp("", "tmplcheck-template-")
	if err != nil {
		return "", noop, tcerrors.MaterializeFailed("failed to create staging directory", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(staging); err != nil {
			logging.Warn("failed to remove staging clone", "dir", staging, "error", err)
		}
	}

	clone := filepath.Join(staging, "template")
	if err := git.Clone(ctx, m.srcPath, clone); err != nil {
		cleanup()
		return "", noop, tcerrors.MaterializeFailed("failed to clone template", err)
	}
	if err := git.Checkout(ctx, clone, commit); err != nil {
		cleanup()
		return "", noop, tcerrors.MaterializeFailed("failed to check out template", err)
	}

	logging.Debug("template staged", "source", m.srcPath, "ref", m.opts.Source.ref(), "commit", commit)
	return clone, cleanup, nil
}

func (m *materializer) run(ctx context.Context, root string) error {
	q, err := LoadQuestionnaire(root)
	if err != nil {
		return tcerrors.MaterializeFailed("failed to load questionnaire", err)
	}
	m.q = q

	if err := m.resolveAnswers(ctx); err != nil {
		return err
	}

	tplRoot := root
	if q.Settings.Subdirectory != "" {
		sub, err := renderString(q.Settings.Subdirectory, m.vars)
		if err != nil {
			return fmt.Errorf("_subdirectory: %w", err)
		}
		if tplRoot, err = securejoin.SecureJoin(root, sub); err != nil {
			return fmt.Errorf("_subdirectory: %w", err)
		}
	}

	if err := m.walk(tplRoot); err != nil {
		return err
	}
	return m.writeAnswers()
}

// resolveAnswers fills answers from data, then defaults, then the prompter.
// Defaults and conditions are rendered against the answers so far.
func (m *materializer) resolveAnswers(ctx context.Context) error {
	m.answers = m.opts.Data.Map()
	m.vars = make(map[string]any, len(m.answers))
	for k, v := range m.answers {
		m.vars[k] = v
	}
	m.vars["_folder_name"] = filepath.Base(m.opts.Dest)

	var missing []string
	for _, question := range m.q.Questions {
		def := ""
		if question.HasDefault {
			rendered, err := renderString(question.Default, m.vars)
			if err != nil {
				return fmt.Errorf("default for %s: %w", question.Name, err)
			}
			def = rendered
		}

		applies := true
		if question.When != "" {
			cond, err := renderString(question.When, m.vars)
			if err != nil {
				return fmt.Errorf("condition for %s: %w", question.Name, err)
			}
			applies = truthy(cond)
		}
		if !applies {
			// Skipped questions are not recorded but keep their default
			// visible to templates.
			delete(m.answers, question.Name)
			if question.HasDefault {
				if v, err := typedValue(question.Type, def); err == nil {
					m.vars[question.Name] = v
				}
			}
			continue
		}

		value, ok := m.answers[question.Name]
		switch {
		case ok:
		case !m.opts.Quiet && m.opts.Prompter != nil:
			answer, err := m.opts.Prompter.Ask(ctx, question, def)
			if err != nil {
				return tcerrors.MaterializeFailed(fmt.Sprintf("prompt for %s failed", question.Name), err)
			}
			value = answer
		case question.HasDefault:
			value = def
		default:
			missing = append(missing, question.Name)
			continue
		}

		if len(question.Choices) > 0 && !slices.Contains(question.Choices, value) {
			return tcerrors.MaterializeFailed(fmt.Sprintf("invalid answer %q for %s (choices: %s)",
				value, question.Name, strings.Join(question.Choices, ", ")), nil)
		}
		typed, err := typedValue(question.Type, value)
		if err != nil {
			return tcerrors.MaterializeFailed(fmt.Sprintf("invalid answer for %s", question.Name), err)
		}
		m.answers[question.Name] = value
		m.vars[question.Name] = typed
	}

	if len(missing) > 0 {
		return tcerrors.MissingParameters(missing)
	}

	m.vars["_copier_answers"] = m.recordedAnswers()
	m.vars["_copier_conf"] = map[string]any{
		"answers_file": m.q.Settings.AnswersFile,
		"src_path":     m.srcPath,
		"vcs_ref":      m.opts.Source.ref(),
		"vcs_ref_hash": m.commit,
	}
	return nil
}

// recordedAnswers is the content of the answers file.
func (m *materializer) recordedAnswers() map[string]any {
	out := map[string]any{"_src_path": m.srcPath}
	if m.commit != "" {
		out["_commit"] = m.commit
	}
	for k, v := range m.answers {
		if question, ok := m.q.Question(k); ok {
			if question.Secret {
				continue
			}
			out[k] = m.vars[k]
			continue
		}
		out[k] = v
	}
	return out
}

func (m *materializer) walk(tplRoot string) error {
	excludes, err := compileExcludes(m.q.Excludes())
	if err != nil {
		return err
	}

	return filepath.WalkDir(tplRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(tplRoot, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		// Repository metadata is never part of the project.
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if excludes.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		render := !d.IsDir() && m.isTemplated(rel)
		target, ok, err := m.renderPath(rel, render)
		if err != nil {
			return fmt.Errorf("path %s: %w", rel, err)
		}
		if !ok {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dst, err := securejoin.SecureJoin(m.opts.Dest, target)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return m.opts.FS.MkdirAll(dst, 0755)
		}
		return m.writeFile(p, dst, target, render)
	})
}

func (m *materializer) isTemplated(rel string) bool {
	suffix := m.q.Settings.TemplatesSuffix
	return suffix == "" || strings.HasSuffix(rel, suffix)
}

// renderPath renders every segment of rel. It reports false when a segment
// renders empty, which drops the entry.
func (m *materializer) renderPath(rel string, templated bool) (string, bool, error) {
	if templated && m.q.Settings.TemplatesSuffix != "" {
		rel = strings.TrimSuffix(rel, m.q.Settings.TemplatesSuffix)
	}
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		rendered, err := renderString(seg, m.vars)
		if err != nil {
			return "", false, err
		}
		if strings.TrimSpace(rendered) == "" {
			return "", false, nil
		}
		segments[i] = rendered
	}
	target := path.Clean(strings.Join(segments, "/"))
	if !filepath.IsLocal(filepath.FromSlash(target)) {
		return "", false, fmt.Errorf("rendered path %q escapes the destination", target)
	}
	return target, true, nil
}

func (m *materializer) writeFile(src, dst, target string, render bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if render {
		out, err := renderString(string(data), m.vars)
		if err != nil {
			return fmt.Errorf("file %s: %w", target, err)
		}
		data = []byte(out)
	}

	if err := m.opts.FS.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := m.opts.FS.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	// WriteFile is subject to the umask.
	if err := m.opts.FS.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	m.files = append(m.files, target)
	if m.opts.Progress != nil {
		fmt.Fprintf(m.opts.Progress, "    create  %s\n", target)
	}
	return nil
}

// writeAnswers records the answers unless the template rendered its own
// answers file.
func (m *materializer) writeAnswers() error {
	name, err := renderString(m.q.Settings.AnswersFile, m.vars)
	if err != nil {
		return fmt.Errorf("_answers_file: %w", err)
	}
	name = path.Clean(name)
	if name == "" || name == "." || slices.Contains(m.files, name) {
		return nil
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("answers file %q escapes the destination", name)
	}

	out, err := yaml.Marshal(m.recordedAnswers())
	if err != nil {
		return err
	}
	dst, err := securejoin.SecureJoin(m.opts.Dest, name)
	if err != nil {
		return err
	}
	if err := m.opts.FS.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := m.opts.FS.WriteFile(dst, append([]byte(answersHeader), out...), 0644); err != nil {
		return err
	}
	m.files = append(m.files, name)
	if m.opts.Progress != nil {
		fmt.Fprintf(m.opts.Progress, "    create  %s\n", name)
	}
	return nil
}
