package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Submission is the backend answer to a job submission, the task ID is what gets monitored.
type Submission struct {
	TaskID  string
	Message string
}

// SchoolLevel is the school level of a worksheet.
type SchoolLevel string

const (
	SchoolLevelElementary SchoolLevel = "초등학교"
	SchoolLevelMiddle     SchoolLevel = "중학교"
	SchoolLevelHigh       SchoolLevel = "고등학교"
)

// Semester of the curriculum.
type Semester string

const (
	SemesterFirst  Semester = "1학기"
	SemesterSecond Semester = "2학기"
)

// ProblemCount is the number of problems of a worksheet, the backend only accepts 10 or 20.
type ProblemCount string

const (
	ProblemCountTen    ProblemCount = "10문제"
	ProblemCountTwenty ProblemCount = "20문제"
)

// Chapter identifies a curriculum chapter.
type Chapter struct {
	UnitName      string `json:"unit_name" validate:"required"`
	ChapterNumber string `json:"chapter_number" validate:"required"`
	ChapterName   string `json:"chapter_name" validate:"required"`
}

// DifficultyRatio is the A:B:C difficulty split, it must add up to 100.
type DifficultyRatio struct {
	A int `json:"A" validate:"min=0,max=100"`
	B int `json:"B" validate:"min=0,max=100"`
	C int `json:"C" validate:"min=0,max=100"`
}

// Total returns the sum of the ratio parts.
func (d DifficultyRatio) Total() int { return d.A + d.B + d.C }

// ProblemTypeRatio is the problem type split, it must add up to 100.
type ProblemTypeRatio struct {
	MultipleChoice int `json:"multiple_choice" validate:"min=0,max=100"`
	Essay          int `json:"essay" validate:"min=0,max=100"`
	ShortAnswer    int `json:"short_answer" validate:"min=0,max=100"`
}

// Total returns the sum of the ratio parts.
func (p ProblemTypeRatio) Total() int { return p.MultipleChoice + p.Essay + p.ShortAnswer }

// GenerateRequest is a worksheet generation request.
type GenerateRequest struct {
	SchoolLevel      SchoolLevel      `json:"school_level" validate:"required,oneof=초등학교 중학교 고등학교"`
	Grade            int              `json:"grade" validate:"min=1,max=6"`
	Semester         Semester         `json:"semester" validate:"required,oneof=1학기 2학기"`
	UnitNumber       string           `json:"unit_number" validate:"required"`
	Chapter          Chapter          `json:"chapter"`
	ProblemCount     ProblemCount     `json:"problem_count" validate:"required,oneof=10문제 20문제"`
	DifficultyRatio  DifficultyRatio  `json:"difficulty_ratio"`
	ProblemTypeRatio ProblemTypeRatio `json:"problem_type_ratio"`
	UserText         string           `json:"user_text"`
}

// Validate checks the request fields and that both ratios add up to 100.
func (r GenerateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrNotValid, err)
	}
	if t := r.DifficultyRatio.Total(); t != 100 {
		return fmt.Errorf("difficulty ratio must add up to 100, got %d: %w", t, ErrNotValid)
	}
	if t := r.ProblemTypeRatio.Total(); t != 100 {
		return fmt.Errorf("problem type ratio must add up to 100, got %d: %w", t, ErrNotValid)
	}

	return nil
}

// CanvasGradeRequest is a grading request carrying handwritten answers as image data URLs.
type CanvasGradeRequest struct {
	// MultipleChoiceAnswers maps problem IDs to the selected choice.
	MultipleChoiceAnswers map[string]string `json:"multiple_choice_answers"`
	// CanvasAnswers maps problem IDs to `data:image/png;base64,...` URLs.
	CanvasAnswers map[string]string `json:"canvas_answers"`
}
