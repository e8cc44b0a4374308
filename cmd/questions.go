package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/tmplcheck/internal/errors"
	"github.com/firefly-engineering/tmplcheck/internal/template"
	"github.com/firefly-engineering/tmplcheck/internal/tui"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questions the template asks",
	Long: `List the template questionnaire as read from the source working tree.

Every question can be answered with --data name=value.`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

var questionsTemplate templateFlags

func init() {
	questionsCmd.Flags().StringVarP(&questionsTemplate.source, "source", "s", "", "Template source directory (overrides template.source)")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	questionsTemplate.apply(cmd, cfg)

	q, err := template.LoadQuestionnaire(cfg.Template.Source)
	if err != nil {
		return errors.MaterializeFailed("failed to read questionnaire", err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), q.Questions)
	}

	if len(q.Questions) == 0 {
		logInfo("The template asks no questions.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.QuestionTable(q))
	return nil
}
