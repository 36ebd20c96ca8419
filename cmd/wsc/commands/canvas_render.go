package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/app/render"
)

// CanvasRenderCommand renders the handwritten answers of an answer sheet to PNG files.
type CanvasRenderCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	answersFile string
	outDir      string
	format      string
}

// NewCanvasRenderCommand returns the canvas render command.
func NewCanvasRenderCommand(rootCmd *RootCommand, canvasCmd *CanvasCommand) *CanvasRenderCommand {
	c := &CanvasRenderCommand{rootCmd: rootCmd}

	c.Cmd = canvasCmd.Cmd.Command("render", "Render the handwritten answers of an answer sheet as PNG images.")
	c.Cmd.Arg("answers", "Path to the answer sheet YAML file.").Required().StringVar(&c.answersFile)
	c.Cmd.Flag("out", "Output directory.").Short('o').Default(".").StringVar(&c.outDir)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c CanvasRenderCommand) Name() string { return c.Cmd.FullCommand() }

func (c CanvasRenderCommand) Run(ctx context.Context) error {
	reqRepo, path, err := newRequestFileRepository(c.answersFile)
	if err != nil {
		return err
	}
	answers, err := reqRepo.GetAnswerSheet(ctx, path)
	if err != nil {
		return fmt.Errorf("could not load answer sheet: %w", err)
	}

	svc, err := render.NewService(render.ServiceConfig{Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	rendered, err := svc.Run(ctx, render.Request{
		Answers: answers,
		OutDir:  c.outDir,
	})
	if err != nil {
		return fmt.Errorf("could not render answers: %w", err)
	}

	if err := newPrinter(c.rootCmd.Stdout, c.format).PrintRendered(rendered); err != nil {
		return fmt.Errorf("could not print rendered answers: %w", err)
	}

	return nil
}
