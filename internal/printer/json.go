package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/wsc/internal/model"
)

// JSONPrinter prints task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskOutput represents a task status.
type taskOutput struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind,omitempty"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Message   string          `json:"message,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type submissionOutput struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message,omitempty"`
}

type renderedOutput struct {
	ProblemID string `json:"problem_id"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func newTaskOutput(t model.Task) taskOutput {
	return taskOutput{
		ID:       t.ID,
		Status:   string(t.Status),
		Progress: t.Progress,
		Message:  t.Message,
		Result:   t.Result,
		Error:    t.Error,
	}
}

func newRecordOutput(r model.TaskRecord) taskOutput {
	out := newTaskOutput(r.Task)
	out.Kind = string(r.Kind)
	if !r.CreatedAt.IsZero() {
		c := r.CreatedAt.UTC()
		out.CreatedAt = &c
	}
	if !r.UpdatedAt.IsZero() {
		u := r.UpdatedAt.UTC()
		out.UpdatedAt = &u
	}
	return out
}

// PrintTaskList prints task records in JSON format.
func (j *JSONPrinter) PrintTaskList(recs []model.TaskRecord) error {
	items := make([]taskOutput, len(recs))
	for i, r := range recs {
		items[i] = newRecordOutput(r)
	}

	return j.encode(items)
}

// PrintStatus prints the detailed status of a task in JSON format.
func (j *JSONPrinter) PrintStatus(rec model.TaskRecord) error {
	return j.encode(newRecordOutput(rec))
}

// PrintUpdate prints a status update as a single JSON line.
func (j *JSONPrinter) PrintUpdate(t model.Task) error {
	return json.NewEncoder(j.writer).Encode(newTaskOutput(t))
}

// PrintSubmission prints a submission in JSON format.
func (j *JSONPrinter) PrintSubmission(s model.Submission) error {
	return j.encode(submissionOutput{TaskID: s.TaskID, Message: s.Message})
}

// PrintRendered prints the rendered answer images in JSON format.
func (j *JSONPrinter) PrintRendered(surfaces []model.RenderedSurface) error {
	items := make([]renderedOutput, len(surfaces))
	for i, s := range surfaces {
		items[i] = renderedOutput{ProblemID: s.ProblemID, Path: s.Path, SizeBytes: s.SizeBytes}
	}

	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var _ Printer = &JSONPrinter{}
