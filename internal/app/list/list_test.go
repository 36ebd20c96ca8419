package list_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/app/list"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
	"github.com/slok/wsc/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config list.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: list.ServiceConfig{
				Repository: &storagemock.MockTaskRepository{},
				Logger:     log.Noop,
			},
			expErr: false,
		},
		"missing repository should fail": {
			config: list.ServiceConfig{
				Logger: log.Noop,
			},
			expErr: true,
		},
		"nil logger should default to noop": {
			config: list.ServiceConfig{
				Repository: &storagemock.MockTaskRepository{},
			},
			expErr: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := list.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	at := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	recs := []model.TaskRecord{
		{Task: model.Task{ID: "t2", Status: model.TaskStatusSucceeded}, Kind: model.TaskKindGrade, UpdatedAt: at.Add(time.Minute)},
		{Task: model.Task{ID: "t1", Status: model.TaskStatusSucceeded}, Kind: model.TaskKindGenerate, UpdatedAt: at},
	}
	kind := model.TaskKindGrade
	status := model.TaskStatusSucceeded

	tests := map[string]struct {
		mock      func(m *storagemock.MockTaskRepository)
		req       list.Request
		expResult []model.TaskRecord
		expErr    bool
	}{
		"list all tasks": {
			mock: func(m *storagemock.MockTaskRepository) {
				m.On("ListTasks", mock.Anything, storage.ListTasksOpts{}).Once().Return(recs, nil)
			},
			req:       list.Request{},
			expResult: recs,
		},
		"filters should be passed to the repository": {
			mock: func(m *storagemock.MockTaskRepository) {
				exp := storage.ListTasksOpts{Kind: model.TaskKindGrade, Status: model.TaskStatusSucceeded, Limit: 1}
				m.On("ListTasks", mock.Anything, exp).Once().Return(recs[:1], nil)
			},
			req:       list.Request{KindFilter: &kind, StatusFilter: &status, Limit: 1},
			expResult: recs[:1],
		},
		"negative limit should fail": {
			mock:   func(m *storagemock.MockTaskRepository) {},
			req:    list.Request{Limit: -1},
			expErr: true,
		},
		"repository error should propagate": {
			mock: func(m *storagemock.MockTaskRepository) {
				m.On("ListTasks", mock.Anything, mock.Anything).Once().Return(nil, fmt.Errorf("database error"))
			},
			req:    list.Request{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := &storagemock.MockTaskRepository{}
			test.mock(mRepo)

			svc, err := list.NewService(list.ServiceConfig{Repository: mRepo, Logger: log.Noop})
			require.NoError(err)

			result, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expResult, result)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
