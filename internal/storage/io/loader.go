package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/wsc/internal/model"
)

// RequestYAMLRepository loads generation requests and answer sheets from YAML files.
type RequestYAMLRepository struct {
	fs fs.FS
}

// NewRequestYAMLRepository creates a new YAML request repository.
func NewRequestYAMLRepository(filesystem fs.FS) *RequestYAMLRepository {
	return &RequestYAMLRepository{fs: filesystem}
}

// GetGenerateRequest loads a worksheet generation request and returns a validated domain model.
func (r *RequestYAMLRepository) GetGenerateRequest(ctx context.Context, path string) (model.GenerateRequest, error) {
	var req GenerateRequest
	if err := r.load(ctx, path, &req); err != nil {
		return model.GenerateRequest{}, err
	}

	m := req.toModel()
	if err := m.Validate(); err != nil {
		return model.GenerateRequest{}, fmt.Errorf("invalid generate request: %w", err)
	}

	return m, nil
}

// GetAnswerSheet loads an answer sheet and returns a validated domain model.
func (r *RequestYAMLRepository) GetAnswerSheet(ctx context.Context, path string) (model.AnswerSheet, error) {
	var sheet AnswerSheet
	if err := r.load(ctx, path, &sheet); err != nil {
		return model.AnswerSheet{}, err
	}

	if err := sheet.validate(); err != nil {
		return model.AnswerSheet{}, fmt.Errorf("invalid answer sheet: %w", err)
	}

	m := sheet.toModel()
	if err := m.Validate(); err != nil {
		return model.AnswerSheet{}, fmt.Errorf("invalid answer sheet: %w", err)
	}

	return m, nil
}

func (r *RequestYAMLRepository) load(ctx context.Context, path string, out any) error {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	return nil
}

// GenerateRequest represents the YAML structure of a worksheet generation request.
type GenerateRequest struct {
	SchoolLevel      string           `yaml:"school_level"`
	Grade            int              `yaml:"grade"`
	Semester         string           `yaml:"semester"`
	UnitNumber       string           `yaml:"unit_number"`
	Chapter          Chapter          `yaml:"chapter"`
	ProblemCount     string           `yaml:"problem_count"`
	DifficultyRatio  DifficultyRatio  `yaml:"difficulty_ratio"`
	ProblemTypeRatio ProblemTypeRatio `yaml:"problem_type_ratio"`
	UserText         string           `yaml:"user_text"`
}

// Chapter represents the YAML structure of a curriculum chapter.
type Chapter struct {
	UnitName      string `yaml:"unit_name"`
	ChapterNumber string `yaml:"chapter_number"`
	ChapterName   string `yaml:"chapter_name"`
}

// DifficultyRatio represents the YAML structure of the A/B/C difficulty split.
type DifficultyRatio struct {
	A int `yaml:"A"`
	B int `yaml:"B"`
	C int `yaml:"C"`
}

// ProblemTypeRatio represents the YAML structure of the problem type split.
type ProblemTypeRatio struct {
	MultipleChoice int `yaml:"multiple_choice"`
	Essay          int `yaml:"essay"`
	ShortAnswer    int `yaml:"short_answer"`
}

func (g GenerateRequest) toModel() model.GenerateRequest {
	return model.GenerateRequest{
		SchoolLevel: model.SchoolLevel(g.SchoolLevel),
		Grade:       g.Grade,
		Semester:    model.Semester(g.Semester),
		UnitNumber:  g.UnitNumber,
		Chapter: model.Chapter{
			UnitName:      g.Chapter.UnitName,
			ChapterNumber: g.Chapter.ChapterNumber,
			ChapterName:   g.Chapter.ChapterName,
		},
		ProblemCount: model.ProblemCount(g.ProblemCount),
		DifficultyRatio: model.DifficultyRatio{
			A: g.DifficultyRatio.A,
			B: g.DifficultyRatio.B,
			C: g.DifficultyRatio.C,
		},
		ProblemTypeRatio: model.ProblemTypeRatio{
			MultipleChoice: g.ProblemTypeRatio.MultipleChoice,
			Essay:          g.ProblemTypeRatio.Essay,
			ShortAnswer:    g.ProblemTypeRatio.ShortAnswer,
		},
		UserText: g.UserText,
	}
}

// AnswerSheet represents the YAML structure of an answer sheet.
type AnswerSheet struct {
	MultipleChoice map[string]string       `yaml:"multiple_choice"`
	Canvas         map[string]CanvasAnswer `yaml:"canvas"`
}

// CanvasAnswer represents the YAML structure of a handwritten answer.
type CanvasAnswer struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Strokes []Stroke `yaml:"strokes"`
}

// Stroke represents the YAML structure of a stroke, points are `[x, y]` pairs.
type Stroke struct {
	Color  string      `yaml:"color"`
	Width  float64     `yaml:"width"`
	Points [][]float64 `yaml:"points"`
}

func (a AnswerSheet) validate() error {
	for id, c := range a.Canvas {
		for i, st := range c.Strokes {
			for j, p := range st.Points {
				if len(p) != 2 {
					return fmt.Errorf("problem %s: stroke %d: point %d must be an [x, y] pair, got %d values", id, i, j, len(p))
				}
			}
		}
	}

	return nil
}

func (a AnswerSheet) toModel() model.AnswerSheet {
	sheet := model.AnswerSheet{
		MultipleChoice: a.MultipleChoice,
	}

	if len(a.Canvas) > 0 {
		sheet.Canvas = make(map[string]model.CanvasAnswer, len(a.Canvas))
	}
	for id, c := range a.Canvas {
		ca := model.CanvasAnswer{Width: c.Width, Height: c.Height}
		for _, st := range c.Strokes {
			s := model.Stroke{Color: st.Color, Width: st.Width}
			for _, p := range st.Points {
				s.Points = append(s.Points, model.Point{X: p[0], Y: p[1]})
			}
			ca.Strokes = append(ca.Strokes, s)
		}
		sheet.Canvas[id] = ca
	}

	return sheet
}
