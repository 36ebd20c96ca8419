package storage

import (
	"context"

	"github.com/slok/wsc/internal/model"
)

// ListTasksOpts filters the task journal listing, zero values don't filter.
type ListTasksOpts struct {
	Kind   model.TaskKind
	Status model.TaskStatus
	Limit  int
}

// TaskRepository is the local journal of the tracked backend tasks.
type TaskRepository interface {
	// UpsertTask stores the last known status of a task. A record in a terminal
	// status is never overwritten.
	UpsertTask(ctx context.Context, r model.TaskRecord) error
	GetTask(ctx context.Context, id string) (*model.TaskRecord, error)
	// ListTasks returns the records, most recently updated first.
	ListTasks(ctx context.Context, opts ListTasksOpts) ([]model.TaskRecord, error)
}
