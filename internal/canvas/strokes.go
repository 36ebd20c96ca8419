package canvas

import (
	"fmt"
	"sort"

	"github.com/slok/wsc/internal/model"
)

// ApplyStrokes replays recorded strokes on a surface. A stroke color or width sets the
// pen before drawing it, empty values keep the current pen.
func (m *Manager) ApplyStrokes(problemID string, strokes []model.Stroke) error {
	for i, st := range strokes {
		if st.Color != "" {
			if err := m.SetColor(problemID, st.Color); err != nil {
				return fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if st.Width != 0 {
			if err := m.SetWidth(problemID, st.Width); err != nil {
				return fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if len(st.Points) == 0 {
			continue
		}

		if err := m.BeginStroke(problemID, st.Points[0]); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		for _, p := range st.Points[1:] {
			if err := m.ExtendStroke(problemID, p); err != nil {
				return fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if err := m.EndStroke(problemID); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}

	return nil
}

// LoadAnswers initializes one surface per handwritten answer and replays its strokes.
func (m *Manager) LoadAnswers(answers map[string]model.CanvasAnswer) error {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		a := answers[id]

		var opts []SurfaceOption
		if a.Width > 0 || a.Height > 0 {
			w, h := a.Width, a.Height
			if w == 0 {
				w = m.width
			}
			if h == 0 {
				h = m.height
			}
			opts = append(opts, WithSize(w, h))
		}

		if err := m.InitSurface(id, opts...); err != nil {
			return fmt.Errorf("could not init %q surface: %w", id, err)
		}
		if err := m.ApplyStrokes(id, a.Strokes); err != nil {
			return fmt.Errorf("could not draw %q answer: %w", id, err)
		}
	}

	m.logger.Debugf("Loaded %d handwritten answers", len(ids))

	return nil
}
