package lib

import (
	"encoding/json"
	"time"

	"github.com/slok/wsc/internal/app/watch"
	"github.com/slok/wsc/internal/model"
)

// Errors returned by the SDK, check them with [errors.Is].
var (
	ErrNotFound      = model.ErrNotFound
	ErrAlreadyExists = model.ErrAlreadyExists
	ErrNotValid      = model.ErrNotValid
	ErrTaskFailed    = watch.ErrTaskFailed
)

// TaskStatus is the normalized state of a backend task.
//
//	pending -> in_progress -> succeeded | failed
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = TaskStatus(model.TaskStatusPending)
	TaskStatusInProgress TaskStatus = TaskStatus(model.TaskStatusInProgress)
	TaskStatusSucceeded  TaskStatus = TaskStatus(model.TaskStatusSucceeded)
	TaskStatusFailed     TaskStatus = TaskStatus(model.TaskStatusFailed)
)

// IsTerminal returns true when the task will not change anymore.
func (s TaskStatus) IsTerminal() bool { return model.TaskStatus(s).IsTerminal() }

// TaskKind is the kind of job a task belongs to.
type TaskKind string

const (
	TaskKindUnknown  TaskKind = TaskKind(model.TaskKindUnknown)
	TaskKindGenerate TaskKind = TaskKind(model.TaskKindGenerate)
	TaskKindGrade    TaskKind = TaskKind(model.TaskKindGrade)
)

// Task is a task status update.
type Task struct {
	ID     string
	Status TaskStatus
	// Progress is 0-100, only meaningful while in progress.
	Progress int
	Message  string
	// Result is the raw JSON result of a succeeded task.
	Result json.RawMessage
	// Error is the failure reason of a failed task.
	Error string
}

// TaskRecord is a task as journaled locally.
type TaskRecord struct {
	Task
	Kind      TaskKind
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Submission is the backend answer to a submitted job.
type Submission struct {
	TaskID  string
	Message string
}

// Request and answer types are shared with the CLI.
type (
	GenerateRequest  = model.GenerateRequest
	Chapter          = model.Chapter
	DifficultyRatio  = model.DifficultyRatio
	ProblemTypeRatio = model.ProblemTypeRatio
	SchoolLevel      = model.SchoolLevel
	Semester         = model.Semester
	ProblemCount     = model.ProblemCount
	AnswerSheet      = model.AnswerSheet
	CanvasAnswer     = model.CanvasAnswer
	Stroke           = model.Stroke
	Point            = model.Point
	RenderedSurface  = model.RenderedSurface
)

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:       t.ID,
		Status:   TaskStatus(t.Status),
		Progress: t.Progress,
		Message:  t.Message,
		Result:   t.Result,
		Error:    t.Error,
	}
}

func fromInternalTaskRecord(r model.TaskRecord) TaskRecord {
	return TaskRecord{
		Task:      fromInternalTask(r.Task),
		Kind:      TaskKind(r.Kind),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromInternalTaskRecordList(rs []model.TaskRecord) []TaskRecord {
	out := make([]TaskRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, fromInternalTaskRecord(r))
	}
	return out
}

func fromInternalSubmission(s model.Submission) Submission {
	return Submission{TaskID: s.TaskID, Message: s.Message}
}
