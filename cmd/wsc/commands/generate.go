package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/app/generate"
	"github.com/slok/wsc/internal/model"
)

// GenerateCommand submits a worksheet generation job.
type GenerateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	requestFile string
	noWatch     bool
	format      string
}

// NewGenerateCommand returns the generate command.
func NewGenerateCommand(rootCmd *RootCommand, app *kingpin.Application) *GenerateCommand {
	c := &GenerateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("generate", "Submit a worksheet generation request and follow it.")
	c.Cmd.Arg("request", "Path to the generation request YAML file.").Required().StringVar(&c.requestFile)
	c.Cmd.Flag("no-watch", "Return after submitting without following the task.").BoolVar(&c.noWatch)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c GenerateCommand) Name() string { return c.Cmd.FullCommand() }

func (c GenerateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	reqRepo, path, err := newRequestFileRepository(c.requestFile)
	if err != nil {
		return err
	}
	worksheet, err := reqRepo.GetGenerateRequest(ctx, path)
	if err != nil {
		return fmt.Errorf("could not load generation request: %w", err)
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

	svc, err := generate.NewService(generate.ServiceConfig{
		Submitter:  client,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	sub, err := svc.Run(ctx, generate.Request{Worksheet: worksheet})
	if err != nil {
		return fmt.Errorf("could not submit generation request: %w", err)
	}

	p := newPrinter(c.rootCmd.Stdout, c.format)
	if err := p.PrintSubmission(*sub); err != nil {
		return fmt.Errorf("could not print submission: %w", err)
	}

	if c.noWatch {
		return nil
	}

	if _, err := watchTask(ctx, c.rootCmd, client, repo, sub.TaskID, model.TaskKindGenerate, p); err != nil {
		return err
	}

	return nil
}
