package canvas

import (
	"fmt"

	"github.com/slok/wsc/internal/model"
)

// InputKind is the kind of a pointer or touch event.
type InputKind int

const (
	InputUnknown InputKind = iota
	InputMouseDown
	InputMouseMove
	InputMouseUp
	InputMouseLeave
	InputTouchStart
	InputTouchMove
	InputTouchEnd
	InputTouchCancel
)

// InputEvent is a pointer or touch event targeting a surface, in client coordinates.
type InputEvent struct {
	ProblemID string
	Kind      InputKind
	// Client is the mouse position.
	Client model.Point
	// Touches are the active touch points, only the first one draws.
	Touches []model.Point
}

// Dispatch translates an input event into stroke operations on its surface.
func (m *Manager) Dispatch(ev InputEvent) error {
	return m.withSurface(ev.ProblemID, func(s *surface) error {
		switch ev.Kind {
		case InputMouseDown:
			s.begin(s.local(ev.Client))
		case InputMouseMove:
			s.extend(s.local(ev.Client))
		case InputTouchStart, InputTouchMove:
			if len(ev.Touches) == 0 {
				return fmt.Errorf("touch event without touches: %w", model.ErrNotValid)
			}
			p := s.local(ev.Touches[0])
			if ev.Kind == InputTouchStart {
				s.begin(p)
			} else {
				s.extend(p)
			}
		case InputMouseUp, InputMouseLeave, InputTouchEnd, InputTouchCancel:
			s.end()
		default:
			return fmt.Errorf("unknown input kind %d: %w", ev.Kind, model.ErrNotValid)
		}

		return nil
	})
}

func (s *surface) local(p model.Point) model.Point {
	return model.Point{X: p.X - s.offset.X, Y: p.Y - s.offset.Y}
}
