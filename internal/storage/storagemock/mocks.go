// Package storagemock has testify mocks of the storage repositories.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// MockTaskRepository is a mock of storage.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// UpsertTask provides a mock function.
func (m *MockTaskRepository) UpsertTask(ctx context.Context, r model.TaskRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// GetTask provides a mock function.
func (m *MockTaskRepository) GetTask(ctx context.Context, id string) (*model.TaskRecord, error) {
	args := m.Called(ctx, id)

	var rec *model.TaskRecord
	if v := args.Get(0); v != nil {
		rec = v.(*model.TaskRecord)
	}
	return rec, args.Error(1)
}

// ListTasks provides a mock function.
func (m *MockTaskRepository) ListTasks(ctx context.Context, opts storage.ListTasksOpts) ([]model.TaskRecord, error) {
	args := m.Called(ctx, opts)

	var recs []model.TaskRecord
	if v := args.Get(0); v != nil {
		recs = v.([]model.TaskRecord)
	}
	return recs, args.Error(1)
}

var _ storage.TaskRepository = &MockTaskRepository{}
