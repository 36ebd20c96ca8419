package commands

import (
	"github.com/alecthomas/kingpin/v2"
)

// CanvasCommand is the parent command for handwritten answer subcommands.
type CanvasCommand struct {
	Cmd *kingpin.CmdClause
}

// NewCanvasCommand returns the canvas parent command.
func NewCanvasCommand(app *kingpin.Application) *CanvasCommand {
	return &CanvasCommand{
		Cmd: app.Command("canvas", "Work with handwritten answers."),
	}
}
