package render

import (
	"context"
	"fmt"
	"os"

	"github.com/slok/wsc/internal/canvas"
	"github.com/slok/wsc/internal/conventions"
	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
)

// ServiceConfig is the configuration for the render service.
type ServiceConfig struct {
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Render"})

	return nil
}

// Service renders handwritten answers to PNG files.
type Service struct {
	logger log.Logger
}

// NewService creates a new render service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{logger: cfg.Logger}, nil
}

// Request represents the render request parameters.
type Request struct {
	Answers model.AnswerSheet
	// OutDir is where `<problem-id>.png` files are written, created if missing.
	OutDir string
}

// Run draws every handwritten answer and writes it as a PNG file.
func (s *Service) Run(ctx context.Context, req Request) ([]model.RenderedSurface, error) {
	if req.OutDir == "" {
		return nil, fmt.Errorf("output directory is required: %w", model.ErrNotValid)
	}
	if len(req.Answers.Canvas) == 0 {
		return nil, fmt.Errorf("no handwritten answers to render: %w", model.ErrNotValid)
	}

	m, err := canvas.NewManager(canvas.ManagerConfig{Logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create canvas manager: %w", err)
	}
	if err := m.LoadAnswers(req.Answers.Canvas); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	var rendered []model.RenderedSurface
	for _, id := range m.Surfaces() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := m.ExportPNG(id)
		if err != nil {
			return nil, err
		}

		path := conventions.AnswerImagePath(req.OutDir, id)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("could not write %q answer image: %w", id, err)
		}
		s.logger.Debugf("Answer %s rendered to %s", id, path)

		rendered = append(rendered, model.RenderedSurface{ProblemID: id, Path: path, SizeBytes: int64(len(data))})
	}

	return rendered, nil
}
