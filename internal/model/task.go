package model

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the state of a backend task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal returns true when no further transitions can follow the status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

// Rank orders the statuses so monotonic transitions can be checked.
func (s TaskStatus) Rank() int {
	switch s {
	case TaskStatusPending:
		return 1
	case TaskStatusInProgress:
		return 2
	case TaskStatusSucceeded, TaskStatusFailed:
		return 3
	default:
		return 0
	}
}

// Task is the normalized state of a backend asynchronous job (generation or grading).
type Task struct {
	ID     string
	Status TaskStatus
	// Progress is 0-100, only meaningful while the task is in progress.
	Progress int
	// Message is the human readable status of non terminal tasks.
	Message string
	// Result is the opaque payload of a succeeded task.
	Result json.RawMessage
	// Error is the failure reason of a failed task.
	Error string
}

// TaskKind is the kind of job a task is tracking.
type TaskKind string

const (
	TaskKindUnknown  TaskKind = "unknown"
	TaskKindGenerate TaskKind = "generate"
	TaskKindGrade    TaskKind = "grade"
)

// TaskRecord is the local journal entry of a task tracked by the client.
type TaskRecord struct {
	Task
	Kind      TaskKind
	CreatedAt time.Time
	UpdatedAt time.Time
}
