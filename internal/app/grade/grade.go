package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/wsc/internal/canvas"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// Submitter submits grading jobs.
type Submitter interface {
	Grade(ctx context.Context, worksheetID string, answers map[string]string) (*model.Submission, error)
	GradeCanvas(ctx context.Context, worksheetID string, req model.CanvasGradeRequest) (*model.Submission, error)
}

// ServiceConfig is the configuration for the grade service.
type ServiceConfig struct {
	Submitter  Submitter
	Repository storage.TaskRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Submitter == nil {
		return fmt.Errorf("submitter is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Grade"})

	return nil
}

// Service submits answer sheets for grading.
type Service struct {
	submitter Submitter
	repo      storage.TaskRepository
	logger    log.Logger
}

// NewService creates a new grade service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		submitter: cfg.Submitter,
		repo:      cfg.Repository,
		logger:    cfg.Logger,
	}, nil
}

// Request represents the grade request parameters.
type Request struct {
	WorksheetID string
	Answers     model.AnswerSheet
}

// Run submits the answers. Handwritten answers are drawn on canvas surfaces and sent as
// PNG images, sheets with only multiple choice answers use the plain grading endpoint.
func (s *Service) Run(ctx context.Context, req Request) (*model.Submission, error) {
	if req.WorksheetID == "" {
		return nil, fmt.Errorf("worksheet id is required: %w", model.ErrNotValid)
	}
	if err := req.Answers.Validate(); err != nil {
		return nil, fmt.Errorf("invalid answers: %w", err)
	}

	var (
		sub *model.Submission
		err error
	)
	if len(req.Answers.Canvas) == 0 {
		sub, err = s.submitter.Grade(ctx, req.WorksheetID, req.Answers.MultipleChoice)
	} else {
		sub, err = s.gradeCanvas(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("could not submit grading: %w", err)
	}
	s.logger.Infof("Worksheet %s grading submitted as task %s", req.WorksheetID, sub.TaskID)

	now := time.Now().UTC()
	rec := model.TaskRecord{
		Task:      model.Task{ID: sub.TaskID, Status: model.TaskStatusPending, Message: sub.Message},
		Kind:      model.TaskKindGrade,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertTask(ctx, rec); err != nil {
		return nil, fmt.Errorf("could not journal task: %w", err)
	}

	return sub, nil
}

func (s *Service) gradeCanvas(ctx context.Context, req Request) (*model.Submission, error) {
	m, err := canvas.NewManager(canvas.ManagerConfig{Logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create canvas manager: %w", err)
	}

	if err := m.LoadAnswers(req.Answers.Canvas); err != nil {
		return nil, err
	}

	images, err := m.ExportAll()
	if err != nil {
		return nil, err
	}

	mc := req.Answers.MultipleChoice
	if mc == nil {
		mc = map[string]string{}
	}

	return s.submitter.GradeCanvas(ctx, req.WorksheetID, model.CanvasGradeRequest{
		MultipleChoiceAnswers: mc,
		CanvasAnswers:         images,
	})
}
