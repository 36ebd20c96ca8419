package model

import "fmt"

// Point is a 2D coordinate, in surface local space unless stated otherwise.
type Point struct {
	X float64
	Y float64
}

// Stroke is a freehand line drawn with a single pen setting.
type Stroke struct {
	// Color is the pen color, empty keeps the current one.
	Color string
	// Width is the pen width, zero keeps the current one.
	Width  float64
	Points []Point
}

// CanvasAnswer is a handwritten answer for a single problem.
type CanvasAnswer struct {
	// Width and Height of the drawing surface, zero uses the defaults.
	Width   int
	Height  int
	Strokes []Stroke
}

// AnswerSheet holds the answers of an exam paper.
type AnswerSheet struct {
	// MultipleChoice maps problem IDs to the selected choice.
	MultipleChoice map[string]string
	// Canvas maps problem IDs to handwritten answers.
	Canvas map[string]CanvasAnswer
}

// Validate checks the answer sheet has answers and its strokes are well formed.
func (a AnswerSheet) Validate() error {
	if len(a.MultipleChoice) == 0 && len(a.Canvas) == 0 {
		return fmt.Errorf("answer sheet has no answers: %w", ErrNotValid)
	}
	for id, c := range a.Canvas {
		if c.Width < 0 || c.Height < 0 {
			return fmt.Errorf("problem %s: invalid canvas size %dx%d: %w", id, c.Width, c.Height, ErrNotValid)
		}
		for i, st := range c.Strokes {
			if st.Width < 0 {
				return fmt.Errorf("problem %s: stroke %d: negative width: %w", id, i, ErrNotValid)
			}
		}
	}

	return nil
}

// RenderedSurface is a handwritten answer rendered to an image file.
type RenderedSurface struct {
	ProblemID string
	Path      string
	SizeBytes int64
}
