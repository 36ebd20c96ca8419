package lib

import (
	"context"
	"fmt"

	"github.com/slok/wsc/internal/app/render"
	"github.com/slok/wsc/internal/canvas"
	"github.com/slok/wsc/internal/log"
)

// Pen colors offered to students, any hex color is accepted.
const (
	ColorBlack = canvas.ColorBlack
	ColorBlue  = canvas.ColorBlue
	ColorRed   = canvas.ColorRed
)

// Input events of a surface, in client coordinates.
type (
	InputKind  = canvas.InputKind
	InputEvent = canvas.InputEvent
)

const (
	InputMouseDown   = canvas.InputMouseDown
	InputMouseMove   = canvas.InputMouseMove
	InputMouseUp     = canvas.InputMouseUp
	InputMouseLeave  = canvas.InputMouseLeave
	InputTouchStart  = canvas.InputTouchStart
	InputTouchMove   = canvas.InputTouchMove
	InputTouchEnd    = canvas.InputTouchEnd
	InputTouchCancel = canvas.InputTouchCancel
)

// CanvasOpts configures a [Canvas].
type CanvasOpts struct {
	// Width and Height are the default surface size. Default: 500x150.
	Width  int
	Height int
	Logger log.Logger
}

// SurfaceOpts customizes a single surface.
type SurfaceOpts struct {
	// Width and Height override the canvas default size, a zero one keeps the default.
	Width  int
	Height int
	// Offset is the surface position in client coordinates, used by [Canvas.Dispatch].
	Offset Point
}

// Canvas holds the drawing surfaces of an exam paper, one per handwritten problem.
type Canvas struct {
	m      *canvas.Manager
	width  int
	height int
}

// NewCanvas returns an empty canvas.
func NewCanvas(opts CanvasOpts) (*Canvas, error) {
	m, err := canvas.NewManager(canvas.ManagerConfig{
		Width:  opts.Width,
		Height: opts.Height,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create canvas: %w", err)
	}
	cv := &Canvas{m: m, width: opts.Width, height: opts.Height}
	if cv.width == 0 {
		cv.width = canvas.DefaultWidth
	}
	if cv.height == 0 {
		cv.height = canvas.DefaultHeight
	}
	return cv, nil
}

// InitSurface creates a white surface with the default pen (black, 2px).
func (c *Canvas) InitSurface(problemID string, opts *SurfaceOpts) error {
	var sOpts []canvas.SurfaceOption
	if opts != nil {
		if opts.Width != 0 || opts.Height != 0 {
			w, h := opts.Width, opts.Height
			if w == 0 {
				w = c.width
			}
			if h == 0 {
				h = c.height
			}
			sOpts = append(sOpts, canvas.WithSize(w, h))
		}
		sOpts = append(sOpts, canvas.WithOffset(opts.Offset.X, opts.Offset.Y))
	}
	return c.m.InitSurface(problemID, sOpts...)
}

// Surfaces returns the initialized problem IDs, sorted.
func (c *Canvas) Surfaces() []string { return c.m.Surfaces() }

// Reset removes every surface.
func (c *Canvas) Reset() { c.m.Reset() }

// BeginStroke starts a stroke at a surface local point.
func (c *Canvas) BeginStroke(problemID string, p Point) error { return c.m.BeginStroke(problemID, p) }

// ExtendStroke draws a segment to p if a stroke is active, otherwise it does nothing.
func (c *Canvas) ExtendStroke(problemID string, p Point) error {
	return c.m.ExtendStroke(problemID, p)
}

// EndStroke ends the active stroke of a surface.
func (c *Canvas) EndStroke(problemID string) error { return c.m.EndStroke(problemID) }

// Clear wipes a surface back to white.
func (c *Canvas) Clear(problemID string) error { return c.m.Clear(problemID) }

// SetColor sets the pen color of a surface, as a hex color or a palette name.
func (c *Canvas) SetColor(problemID, color string) error { return c.m.SetColor(problemID, color) }

// SetWidth sets the pen width of a surface, clamped to 1-10.
func (c *Canvas) SetWidth(problemID string, width float64) error {
	return c.m.SetWidth(problemID, width)
}

// DrawStrokes replays recorded strokes on a surface.
func (c *Canvas) DrawStrokes(problemID string, strokes []Stroke) error {
	return c.m.ApplyStrokes(problemID, strokes)
}

// Dispatch feeds a mouse or touch event to its surface.
func (c *Canvas) Dispatch(ev InputEvent) error { return c.m.Dispatch(ev) }

// ExportPNG encodes a surface as a PNG image.
func (c *Canvas) ExportPNG(problemID string) ([]byte, error) { return c.m.ExportPNG(problemID) }

// ExportDataURL encodes a surface as a `data:image/png;base64,` URL.
func (c *Canvas) ExportDataURL(problemID string) (string, error) {
	return c.m.ExportDataURL(problemID)
}

// RenderAnswers writes the handwritten answers of an answer sheet as `<problem-id>.png`
// files in outDir.
func RenderAnswers(ctx context.Context, answers AnswerSheet, outDir string) ([]RenderedSurface, error) {
	svc, err := render.NewService(render.ServiceConfig{})
	if err != nil {
		return nil, fmt.Errorf("could not create render service: %w", err)
	}

	return svc.Run(ctx, render.Request{Answers: answers, OutDir: outDir})
}
