// Package canvas manages the freehand drawing surfaces of an exam paper, one per
// handwritten answer problem. Every surface owns its pen, its active stroke flag and
// its pixels, so input on one surface never affects another.
package canvas

import (
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/slok/wsc/internal/log"
	"github.com/slok/wsc/internal/model"
)

// ErrUnknownSurface is returned when operating on a surface that has not been initialized.
var ErrUnknownSurface = fmt.Errorf("unknown surface: %w", model.ErrNotFound)

// ManagerConfig is the configuration for the canvas manager.
type ManagerConfig struct {
	// Width and Height are the default size of new surfaces.
	Width  int
	Height int
	Logger log.Logger
}

func (c *ManagerConfig) defaults() error {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid surface size %dx%d", c.Width, c.Height)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "canvas.Manager"})
	return nil
}

// Manager owns the drawing surfaces.
type Manager struct {
	width  int
	height int
	logger log.Logger

	mu       sync.RWMutex
	surfaces map[string]*surface
}

// NewManager creates a new canvas manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Manager{
		width:    cfg.Width,
		height:   cfg.Height,
		logger:   cfg.Logger,
		surfaces: map[string]*surface{},
	}, nil
}

type surfaceOptions struct {
	width  int
	height int
	offset model.Point
}

// SurfaceOption customizes a surface on initialization.
type SurfaceOption func(o *surfaceOptions)

// WithSize sets the surface size in pixels.
func WithSize(width, height int) SurfaceOption {
	return func(o *surfaceOptions) {
		o.width = width
		o.height = height
	}
}

// WithOffset sets the on screen origin of the surface, input coordinates are
// translated by it.
func WithOffset(x, y float64) SurfaceOption {
	return func(o *surfaceOptions) {
		o.offset = model.Point{X: x, Y: y}
	}
}

// InitSurface creates a blank surface for a problem with the default pen.
func (m *Manager) InitSurface(problemID string, opts ...SurfaceOption) error {
	if problemID == "" {
		return fmt.Errorf("problem id is required: %w", model.ErrNotValid)
	}

	o := surfaceOptions{width: m.width, height: m.height}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d: %w", o.width, o.height, model.ErrNotValid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.surfaces[problemID]; ok {
		return fmt.Errorf("surface %q: %w", problemID, model.ErrAlreadyExists)
	}
	m.surfaces[problemID] = newSurface(problemID, o.width, o.height, o.offset)
	m.logger.Debugf("Surface %s initialized (%dx%d)", problemID, o.width, o.height)

	return nil
}

// Reset removes all the surfaces.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.surfaces = map[string]*surface{}
}

// Surfaces returns the sorted IDs of the initialized surfaces.
func (m *Manager) Surfaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.surfaces))
	for id := range m.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// withSurface runs f holding the lock of the surface.
func (m *Manager) withSurface(problemID string, f func(s *surface) error) error {
	m.mu.RLock()
	s, ok := m.surfaces[problemID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("surface %q: %w", problemID, ErrUnknownSurface)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return f(s)
}

// BeginStroke starts a stroke on the surface at p, in surface local coordinates.
func (m *Manager) BeginStroke(problemID string, p model.Point) error {
	return m.withSurface(problemID, func(s *surface) error {
		s.begin(p)
		return nil
	})
}

// ExtendStroke draws a segment from the last point to p. It is a no-op if the
// surface has no stroke in progress.
func (m *Manager) ExtendStroke(problemID string, p model.Point) error {
	return m.withSurface(problemID, func(s *surface) error {
		s.extend(p)
		return nil
	})
}

// EndStroke ends the stroke in progress of the surface, if any.
func (m *Manager) EndStroke(problemID string) error {
	return m.withSurface(problemID, func(s *surface) error {
		s.end()
		return nil
	})
}

// Clear blanks the surface keeping its pen.
func (m *Manager) Clear(problemID string) error {
	return m.withSurface(problemID, func(s *surface) error {
		s.clear()
		return nil
	})
}

// SetColor sets the pen color for the next segments.
func (m *Manager) SetColor(problemID string, color string) error {
	c, hex, err := parseColor(color)
	if err != nil {
		return err
	}

	return m.withSurface(problemID, func(s *surface) error {
		s.penColor = c
		s.pen.Color = hex
		return nil
	})
}

// SetWidth sets the pen width for the next segments, clamped to the pen limits.
func (m *Manager) SetWidth(problemID string, width float64) error {
	if math.IsNaN(width) {
		return fmt.Errorf("invalid pen width: %w", model.ErrNotValid)
	}
	width = math.Min(math.Max(width, MinPenWidth), MaxPenWidth)

	return m.withSurface(problemID, func(s *surface) error {
		s.pen.Width = width
		return nil
	})
}

// Pen returns the current pen of the surface.
func (m *Manager) Pen(problemID string) (Pen, error) {
	var pen Pen
	err := m.withSurface(problemID, func(s *surface) error {
		pen = s.pen
		return nil
	})

	return pen, err
}

// Active returns true if the surface has a stroke in progress.
func (m *Manager) Active(problemID string) (bool, error) {
	var active bool
	err := m.withSurface(problemID, func(s *surface) error {
		active = s.active
		return nil
	})

	return active, err
}

// Snapshot returns a copy of the surface pixels.
func (m *Manager) Snapshot(problemID string) (*image.RGBA, error) {
	var img *image.RGBA
	err := m.withSurface(problemID, func(s *surface) error {
		img = s.snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return img, nil
}
