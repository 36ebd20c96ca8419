package commands

import (
	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/wsc/internal/model"
)

// TaskCommand is the parent command for task subcommands.
type TaskCommand struct {
	Cmd *kingpin.CmdClause
}

// NewTaskCommand returns the task parent command.
func NewTaskCommand(app *kingpin.Application) *TaskCommand {
	return &TaskCommand{
		Cmd: app.Command("task", "Inspect and follow worksheet service tasks."),
	}
}

var taskKinds = []string{
	string(model.TaskKindGenerate),
	string(model.TaskKindGrade),
}

var taskStatuses = []string{
	string(model.TaskStatusPending),
	string(model.TaskStatusInProgress),
	string(model.TaskStatusSucceeded),
	string(model.TaskStatusFailed),
}
