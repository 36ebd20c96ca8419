package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/app/grade"
	"github.com/slok/wsc/internal/model"
)

// GradeCommand submits the answers of a worksheet to be graded.
type GradeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	worksheetID string
	answersFile string
	noWatch     bool
	format      string
}

// NewGradeCommand returns the grade command.
func NewGradeCommand(rootCmd *RootCommand, app *kingpin.Application) *GradeCommand {
	c := &GradeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("grade", "Submit worksheet answers for grading and follow the result.")
	c.Cmd.Arg("worksheet-id", "Worksheet ID.").Required().StringVar(&c.worksheetID)
	c.Cmd.Arg("answers", "Path to the answer sheet YAML file.").Required().StringVar(&c.answersFile)
	c.Cmd.Flag("no-watch", "Return after submitting without following the task.").BoolVar(&c.noWatch)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c GradeCommand) Name() string { return c.Cmd.FullCommand() }

func (c GradeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	reqRepo, path, err := newRequestFileRepository(c.answersFile)
	if err != nil {
		return err
	}
	answers, err := reqRepo.GetAnswerSheet(ctx, path)
	if err != nil {
		return fmt.Errorf("could not load answer sheet: %w", err)
	}

	client, err := newAPIClient(c.rootCmd)
	if err != nil {
		return err
	}

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := grade.NewService(grade.ServiceConfig{
		Submitter:  client,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	sub, err := svc.Run(ctx, grade.Request{
		WorksheetID: c.worksheetID,
		Answers:     answers,
	})
	if err != nil {
		return fmt.Errorf("could not submit answers: %w", err)
	}

	p := newPrinter(c.rootCmd.Stdout, c.format)
	if err := p.PrintSubmission(*sub); err != nil {
		return fmt.Errorf("could not print submission: %w", err)
	}

	if c.noWatch {
		return nil
	}

	if _, err := watchTask(ctx, c.rootCmd, client, repo, sub.TaskID, model.TaskKindGrade, p); err != nil {
		return err
	}

	return nil
}
