package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/model"
)

// TaskWatchCommand follows a task until it finishes.
type TaskWatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	kind   string
	format string
}

// NewTaskWatchCommand returns the task watch command.
func NewTaskWatchCommand(rootCmd *RootCommand, taskCmd *TaskCommand) *TaskWatchCommand {
	c := &TaskWatchCommand{rootCmd: rootCmd}

	c.Cmd = taskCmd.Cmd.Command("watch", "Follow a task status until it succeeds or fails.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("kind", "Kind of job the task belongs to, journaled with the task.").EnumVar(&c.kind, taskKinds...)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c TaskWatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskWatchCommand) Run(ctx context.Context) error {
	client, err := newAPIClient(c.rootCmd)
	if err != nil {
		return err
	}

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	kind := model.TaskKindUnknown
	if c.kind != "" {
		kind = model.TaskKind(c.kind)
	}

	p := newPrinter(c.rootCmd.Stdout, c.format)
	if _, err := watchTask(ctx, c.rootCmd, client, repo, c.taskID, kind, p); err != nil {
		return err
	}

	return nil
}
