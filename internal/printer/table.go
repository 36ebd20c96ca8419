package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/wsc/internal/model"
)

// TablePrinter prints task information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintTaskList prints task records in a table format.
func (t *TablePrinter) PrintTaskList(recs []model.TaskRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tPROGRESS\tUPDATED")
	for _, r := range recs {
		progress := "-"
		if r.Status == model.TaskStatusInProgress {
			progress = fmt.Sprintf("%d%%", r.Progress)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Kind, r.Status, progress, TimeAgo(r.UpdatedAt))
	}

	return nil
}

// PrintStatus prints the detailed status of a task.
func (t *TablePrinter) PrintStatus(rec model.TaskRecord) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", rec.ID)
	if rec.Kind != "" && rec.Kind != model.TaskKindUnknown {
		fmt.Fprintf(t.writer, "Kind:       %s\n", rec.Kind)
	}
	fmt.Fprintf(t.writer, "Status:     %s\n", rec.Status)

	switch rec.Status {
	case model.TaskStatusInProgress:
		fmt.Fprintf(t.writer, "Progress:   %s\n", FormatProgressBar(rec.Progress))
	case model.TaskStatusSucceeded:
		if len(rec.Result) > 0 {
			fmt.Fprintf(t.writer, "Result:     %s\n", rec.Result)
		}
	case model.TaskStatusFailed:
		fmt.Fprintf(t.writer, "Error:      %s\n", rec.Error)
	}
	if rec.Message != "" {
		fmt.Fprintf(t.writer, "Message:    %s\n", rec.Message)
	}

	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(rec.CreatedAt))
	}
	if !rec.UpdatedAt.IsZero() {
		fmt.Fprintf(t.writer, "Updated:    %s\n", FormatTimestamp(rec.UpdatedAt))
	}

	return nil
}

// PrintUpdate prints a single line per status update.
func (t *TablePrinter) PrintUpdate(task model.Task) error {
	switch task.Status {
	case model.TaskStatusInProgress:
		_, err := fmt.Fprintf(t.writer, "%s %s %s\n", task.ID, FormatProgressBar(task.Progress), task.Message)
		return err
	case model.TaskStatusFailed:
		_, err := fmt.Fprintf(t.writer, "%s %s: %s\n", task.ID, task.Status, task.Error)
		return err
	case model.TaskStatusSucceeded:
		_, err := fmt.Fprintf(t.writer, "%s %s\n", task.ID, task.Status)
		return err
	default:
		_, err := fmt.Fprintf(t.writer, "%s %s %s\n", task.ID, task.Status, task.Message)
		return err
	}
}

// PrintSubmission prints the task a submission created.
func (t *TablePrinter) PrintSubmission(s model.Submission) error {
	fmt.Fprintf(t.writer, "Task:       %s\n", s.TaskID)
	if s.Message != "" {
		fmt.Fprintf(t.writer, "Message:    %s\n", s.Message)
	}

	return nil
}

// PrintRendered prints the rendered answer images in a table format.
func (t *TablePrinter) PrintRendered(surfaces []model.RenderedSurface) error {
	if len(surfaces) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "PROBLEM\tFILE\tSIZE")
	for _, s := range surfaces {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ProblemID, s.Path, FormatBytes(s.SizeBytes))
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

var _ Printer = &TablePrinter{}
