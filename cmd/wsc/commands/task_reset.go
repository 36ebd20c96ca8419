package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/model"
)

// TaskResetCommand removes every task from the local journal.
type TaskResetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	yes bool
}

// NewTaskResetCommand returns the task reset command.
func NewTaskResetCommand(rootCmd *RootCommand, taskCmd *TaskCommand) *TaskResetCommand {
	c := &TaskResetCommand{rootCmd: rootCmd}

	c.Cmd = taskCmd.Cmd.Command("reset", "Remove every task from the local journal, backend tasks are not affected.")
	c.Cmd.Flag("yes", "Confirm the journal removal.").Short('y').BoolVar(&c.yes)

	return c
}

func (c TaskResetCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskResetCommand) Run(ctx context.Context) error {
	if !c.yes {
		return fmt.Errorf("journal reset needs the --yes flag: %w", model.ErrNotValid)
	}

	repo, err := newRepository(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Reset(ctx); err != nil {
		return err
	}

	if err := newPrinter(c.rootCmd.Stdout, formatTable).PrintMessage("Task journal reset"); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
