package lib

import (
	"context"
	"fmt"

	"github.com/slok/wsc/internal/app/generate"
	"github.com/slok/wsc/internal/app/grade"
)

// Generate submits a worksheet generation request. The request is validated before
// being sent, use [Client.Watch] with the returned task ID to follow it.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Submission, error) {
	svc, err := generate.NewService(generate.ServiceConfig{
		Submitter:  c.api,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create generate service: %w", err)
	}

	sub, err := svc.Run(ctx, generate.Request{Worksheet: req})
	if err != nil {
		return nil, err
	}
	s := fromInternalSubmission(*sub)
	return &s, nil
}

// Grade submits the answers of a worksheet. Handwritten answers are rendered and
// sent as PNG images.
func (c *Client) Grade(ctx context.Context, worksheetID string, answers AnswerSheet) (*Submission, error) {
	svc, err := grade.NewService(grade.ServiceConfig{
		Submitter:  c.api,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create grade service: %w", err)
	}

	sub, err := svc.Run(ctx, grade.Request{
		WorksheetID: worksheetID,
		Answers:     answers,
	})
	if err != nil {
		return nil, err
	}
	s := fromInternalSubmission(*sub)
	return &s, nil
}
