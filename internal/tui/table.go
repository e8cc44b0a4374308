package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/firefly-engineering/tmplcheck/internal/template"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// QuestionTable renders the questionnaire as a table.
func QuestionTable(q *template.Questionnaire) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("NAME", "TYPE", "DEFAULT", "CHOICES", "WHEN", "HELP")

	for _, question := range q.Questions {
		t.Row(
			question.Name,
			question.Type,
			question.Default,
			strings.Join(question.Choices, ", "),
			question.When,
			question.Help,
		)
	}
	return t.Render()
}
