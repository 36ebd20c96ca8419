package generate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/app/generate"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage/storagemock"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Generate(ctx context.Context, req model.GenerateRequest) (*model.Submission, error) {
	args := m.Called(ctx, req)
	var sub *model.Submission
	if v := args.Get(0); v != nil {
		sub = v.(*model.Submission)
	}
	return sub, args.Error(1)
}

func validRequest() model.GenerateRequest {
	return model.GenerateRequest{
		SchoolLevel:      model.SchoolLevelElementary,
		Grade:            3,
		Semester:         model.SemesterSecond,
		UnitNumber:       "2",
		Chapter:          model.Chapter{UnitName: "도형", ChapterNumber: "1", ChapterName: "원"},
		ProblemCount:     model.ProblemCountTwenty,
		DifficultyRatio:  model.DifficultyRatio{A: 20, B: 50, C: 30},
		ProblemTypeRatio: model.ProblemTypeRatio{MultipleChoice: 100},
	}
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config generate.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: generate.ServiceConfig{
				Submitter:  &mockSubmitter{},
				Repository: &storagemock.MockTaskRepository{},
				Logger:     log.Noop,
			},
		},
		"missing submitter should fail": {
			config: generate.ServiceConfig{
				Repository: &storagemock.MockTaskRepository{},
			},
			expErr: true,
		},
		"missing repository should fail": {
			config: generate.ServiceConfig{
				Submitter: &mockSubmitter{},
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := generate.NewService(test.config)

			if test.expErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		mock   func(s *mockSubmitter, r *storagemock.MockTaskRepository)
		req    func() generate.Request
		expSub *model.Submission
		expErr bool
	}{
		"a valid request should be submitted and journaled": {
			mock: func(s *mockSubmitter, r *storagemock.MockTaskRepository) {
				s.On("Generate", mock.Anything, validRequest()).Once().Return(&model.Submission{TaskID: "42", Message: "started"}, nil)
				r.On("UpsertTask", mock.Anything, mock.MatchedBy(func(rec model.TaskRecord) bool {
					return rec.ID == "42" && rec.Kind == model.TaskKindGenerate && rec.Status == model.TaskStatusPending
				})).Once().Return(nil)
			},
			req:    func() generate.Request { return generate.Request{Worksheet: validRequest()} },
			expSub: &model.Submission{TaskID: "42", Message: "started"},
		},
		"an invalid request should not be submitted": {
			mock: func(s *mockSubmitter, r *storagemock.MockTaskRepository) {},
			req: func() generate.Request {
				w := validRequest()
				w.DifficultyRatio.A = 0
				return generate.Request{Worksheet: w}
			},
			expErr: true,
		},
		"a submission error should propagate": {
			mock: func(s *mockSubmitter, r *storagemock.MockTaskRepository) {
				s.On("Generate", mock.Anything, mock.Anything).Once().Return(nil, fmt.Errorf("HTTP 500"))
			},
			req:    func() generate.Request { return generate.Request{Worksheet: validRequest()} },
			expErr: true,
		},
		"a journal error should propagate": {
			mock: func(s *mockSubmitter, r *storagemock.MockTaskRepository) {
				s.On("Generate", mock.Anything, mock.Anything).Once().Return(&model.Submission{TaskID: "42"}, nil)
				r.On("UpsertTask", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("database error"))
			},
			req:    func() generate.Request { return generate.Request{Worksheet: validRequest()} },
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mSub := &mockSubmitter{}
			mRepo := &storagemock.MockTaskRepository{}
			test.mock(mSub, mRepo)

			svc, err := generate.NewService(generate.ServiceConfig{Submitter: mSub, Repository: mRepo})
			require.NoError(err)

			sub, err := svc.Run(context.Background(), test.req())

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expSub, sub)
			}
			mSub.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
