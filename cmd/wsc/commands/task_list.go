package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/app/list"
	"github.com/slok/wsc/internal/model"
)

// TaskListCommand lists the journaled tasks.
type TaskListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	kind   string
	status string
	limit  int
	format string
}

// NewTaskListCommand returns the task list command.
func NewTaskListCommand(rootCmd *RootCommand, taskCmd *TaskCommand) *TaskListCommand {
	c := &TaskListCommand{rootCmd: rootCmd}

	c.Cmd = taskCmd.Cmd.Command("list", "List the tasks submitted or watched from this machine.")
	c.Cmd.Alias("ls")
	c.Cmd.Flag("kind", "Filter by job kind.").EnumVar(&c.kind, taskKinds...)
	c.Cmd.Flag("status", "Filter by task status.").EnumVar(&c.status, taskStatuses...)
	c.Cmd.Flag("limit", "Maximum number of tasks, 0 lists all.").Default("0").IntVar(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c TaskListCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskListCommand) Run(ctx context.Context) error {
	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	req := list.Request{Limit: c.limit}
	if c.kind != "" {
		kind := model.TaskKind(c.kind)
		req.KindFilter = &kind
	}
	if c.status != "" {
		st := model.TaskStatus(c.status)
		req.StatusFilter = &st
	}

	recs, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	if err := newPrinter(c.rootCmd.Stdout, c.format).PrintTaskList(recs); err != nil {
		return fmt.Errorf("could not print tasks: %w", err)
	}

	return nil
}
