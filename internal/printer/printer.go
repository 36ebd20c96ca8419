package printer

import "github.com/slok/wsc/internal/model"

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintTaskList(recs []model.TaskRecord) error
	PrintStatus(rec model.TaskRecord) error
	// PrintUpdate prints a status update of a watched task.
	PrintUpdate(t model.Task) error
	PrintSubmission(s model.Submission) error
	PrintRendered(surfaces []model.RenderedSurface) error
	PrintMessage(msg string) error
}
