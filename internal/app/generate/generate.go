package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
	"github.com/slok/wsc/internal/storage"
)

// Submitter submits worksheet generation jobs.
type Submitter interface {
	Generate(ctx context.Context, req model.GenerateRequest) (*model.Submission, error)
}

// ServiceConfig is the configuration for the generate service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Generate"})

	return nil
}

// Service submits worksheet generation requests.
type Service struct {
	submitter Submitter
	repo      storage.TaskRepository
	logger    log.Logger
}

// NewService creates a new generate service.
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

// Request represents the generate request parameters.
type Request struct {
	Worksheet model.GenerateRequest
}

// Run validates and submits the generation request and journals the created task as pending.
func (s *Service) Run(ctx context.Context, req Request) (*model.Submission, error) {
	if err := req.Worksheet.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}

	sub, err := s.submitter.Generate(ctx, req.Worksheet)
	if err != nil {
		return nil, fmt.Errorf("could not submit generation: %w", err)
	}
	s.logger.Infof("Worksheet generation submitted as task %s", sub.TaskID)

	now := time.Now().UTC()
	rec := model.TaskRecord{
		Task:      model.Task{ID: sub.TaskID, Status: model.TaskStatusPending, Message: sub.Message},
		Kind:      model.TaskKindGenerate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertTask(ctx, rec); err != nil {
		return nil, fmt.Errorf("could not journal task: %w", err)
	}

	return sub, nil
}
