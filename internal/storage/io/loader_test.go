package io

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/wsc/internal/model"
)

const validGenerateYAML = `school_level: 중학교
grade: 1
semester: 1학기
unit_number: "1"
chapter:
  unit_name: 수와 연산
  chapter_number: "1"
  chapter_name: 소인수분해
problem_count: 10문제
difficulty_ratio:
  A: 30
  B: 40
  C: 30
problem_type_ratio:
  multiple_choice: 50
  essay: 30
  short_answer: 20
user_text: 계산 문제 위주로
`

func TestRequestYAMLRepository_GetGenerateRequest(t *testing.T) {
	tests := map[string]struct {
		fs     fstest.MapFS
		path   string
		expReq model.GenerateRequest
		expErr bool
		errMsg string
	}{
		"Valid generate request should load successfully": {
			fs: fstest.MapFS{
				"req.yaml": &fstest.MapFile{Data: []byte(validGenerateYAML)},
			},
			path: "req.yaml",
			expReq: model.GenerateRequest{
				SchoolLevel: model.SchoolLevelMiddle,
				Grade:       1,
				Semester:    model.SemesterFirst,
				UnitNumber:  "1",
				Chapter: model.Chapter{
					UnitName:      "수와 연산",
					ChapterNumber: "1",
					ChapterName:   "소인수분해",
				},
				ProblemCount:     model.ProblemCountTen,
				DifficultyRatio:  model.DifficultyRatio{A: 30, B: 40, C: 30},
				ProblemTypeRatio: model.ProblemTypeRatio{MultipleChoice: 50, Essay: 30, ShortAnswer: 20},
				UserText:         "계산 문제 위주로",
			},
		},
		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading file",
		},
		"Invalid YAML should return error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{Data: []byte(`invalid: yaml: content: {}`)},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
		"Ratios not adding up to 100 should return error": {
			fs: fstest.MapFS{
				"req.yaml": &fstest.MapFile{Data: []byte(`school_level: 중학교
grade: 1
semester: 1학기
unit_number: "1"
chapter: {unit_name: a, chapter_number: "1", chapter_name: b}
problem_count: 20문제
difficulty_ratio: {A: 50, B: 50, C: 50}
problem_type_ratio: {multiple_choice: 100}
`)},
			},
			path:   "req.yaml",
			expErr: true,
			errMsg: "difficulty ratio must add up to 100",
		},
		"Empty request should return error": {
			fs: fstest.MapFS{
				"empty.yaml": &fstest.MapFile{Data: []byte("---\n")},
			},
			path:   "empty.yaml",
			expErr: true,
			errMsg: "invalid generate request",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewRequestYAMLRepository(test.fs)
			gotReq, err := repo.GetGenerateRequest(context.Background(), test.path)

			if test.expErr {
				require.Error(err)
				assert.Contains(err.Error(), test.errMsg)
				return
			}
			require.NoError(err)
			assert.Equal(test.expReq, gotReq)
		})
	}
}

func TestRequestYAMLRepository_GetAnswerSheet(t *testing.T) {
	tests := map[string]struct {
		fs       fstest.MapFS
		path     string
		expSheet model.AnswerSheet
		expErr   bool
		errMsg   string
	}{
		"Valid answer sheet should load successfully": {
			fs: fstest.MapFS{
				"answers.yaml": &fstest.MapFile{Data: []byte(`multiple_choice:
  "1": "③"
canvas:
  "2":
    width: 400
    strokes:
      - color: red
        width: 3
        points: [[10, 20], [30, 40.5]]
      - points: [[1, 1]]
`)},
			},
			path: "answers.yaml",
			expSheet: model.AnswerSheet{
				MultipleChoice: map[string]string{"1": "③"},
				Canvas: map[string]model.CanvasAnswer{
					"2": {
						Width: 400,
						Strokes: []model.Stroke{
							{Color: "red", Width: 3, Points: []model.Point{{X: 10, Y: 20}, {X: 30, Y: 40.5}}},
							{Points: []model.Point{{X: 1, Y: 1}}},
						},
					},
				},
			},
		},
		"Only multiple choice answers should load successfully": {
			fs: fstest.MapFS{
				"answers.yaml": &fstest.MapFile{Data: []byte(`multiple_choice: {"1": "2", "3": "4"}`)},
			},
			path: "answers.yaml",
			expSheet: model.AnswerSheet{
				MultipleChoice: map[string]string{"1": "2", "3": "4"},
			},
		},
		"A point that is not a pair should return error": {
			fs: fstest.MapFS{
				"answers.yaml": &fstest.MapFile{Data: []byte(`canvas:
  "2":
    strokes:
      - points: [[10, 20, 30]]
`)},
			},
			path:   "answers.yaml",
			expErr: true,
			errMsg: "must be an [x, y] pair",
		},
		"An empty answer sheet should return error": {
			fs: fstest.MapFS{
				"answers.yaml": &fstest.MapFile{Data: []byte("---\n")},
			},
			path:   "answers.yaml",
			expErr: true,
			errMsg: "no answers",
		},
		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "answers.yaml",
			expErr: true,
			errMsg: "reading file",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			repo := NewRequestYAMLRepository(test.fs)
			gotSheet, err := repo.GetAnswerSheet(context.Background(), test.path)

			if test.expErr {
				require.Error(err)
				assert.Contains(err.Error(), test.errMsg)
				return
			}
			require.NoError(err)
			assert.Equal(test.expSheet, gotSheet)
		})
	}
}
