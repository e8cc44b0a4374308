// Package tui provides terminal user interface components for tmplcheck.
//
// # Questionnaire
//
// Prompter asks template questions one at a time and implements
// template.Prompter, so `tmplcheck copy` can fill in answers that were not
// given with --data:
//
//	res, err := template.Materialize(ctx, template.Options{
//	    ...
//	    Prompter: tui.NewPrompter(),
//	})
//
// Free-text questions use a text input with the rendered default as
// placeholder; boolean and choice questions use a list. Enter confirms,
// Esc or Ctrl+C cancels with ErrCancelled.
//
// QuestionTable renders a questionnaire for `tmplcheck questions`.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
