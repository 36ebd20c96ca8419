package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"github.com/slok/wsc/internal/model"
)

const (
	// DefaultWidth and DefaultHeight are the default surface size in pixels.
	DefaultWidth  = 500
	DefaultHeight = 150

	// DefaultPenWidth is the pen width of a new surface.
	DefaultPenWidth = 2.0
	MinPenWidth     = 1.0
	MaxPenWidth     = 10.0

	// capSegments is the number of segments used to approximate each round cap.
	capSegments = 16
)

var background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Pen is the drawing setting of a surface.
type Pen struct {
	Color string
	Width float64
}

// surface is a single drawing area. Pen, active flag and pixels are private to it.
type surface struct {
	mu sync.Mutex

	problemID string
	offset    model.Point
	pen       Pen
	penColor  color.RGBA
	active    bool
	last      model.Point
	buf       *image.RGBA
	raster    *vector.Rasterizer
}

func newSurface(problemID string, width, height int, offset model.Point) *surface {
	s := &surface{
		problemID: problemID,
		offset:    offset,
		pen:       Pen{Color: ColorBlack, Width: DefaultPenWidth},
		penColor:  color.RGBA{A: 0xff},
		buf:       image.NewRGBA(image.Rect(0, 0, width, height)),
		raster:    vector.NewRasterizer(width, height),
	}
	s.clear()

	return s
}

func (s *surface) clear() {
	draw.Draw(s.buf, s.buf.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
}

func (s *surface) begin(p model.Point) {
	s.active = true
	s.last = p
}

func (s *surface) extend(p model.Point) {
	if !s.active {
		return
	}
	s.drawSegment(s.last, p)
	s.last = p
}

func (s *surface) end() {
	s.active = false
}

// drawSegment paints a straight line with round caps using the current pen. Consecutive
// segments share their end points so the caps also render round joins.
func (s *surface) drawSegment(from, to model.Point) {
	r := s.pen.Width / 2
	b := s.buf.Bounds()
	if math.Max(from.X, to.X)+r < 0 || math.Min(from.X, to.X)-r > float64(b.Dx()) ||
		math.Max(from.Y, to.Y)+r < 0 || math.Min(from.Y, to.Y)-r > float64(b.Dy()) {
		return
	}

	s.raster.Reset(b.Dx(), b.Dy())
	s.raster.DrawOp = draw.Over

	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		s.arc(from, r, 0, 2*math.Pi, true)
	} else {
		// Normal of the segment direction, the capsule is walked clockwise from it.
		a := math.Atan2(dx/length, -dy/length)
		s.arc(to, r, a, math.Pi, true)
		s.arc(from, r, a-math.Pi, math.Pi, false)
	}
	s.raster.ClosePath()

	s.raster.Draw(s.buf, b, image.NewUniform(s.penColor), image.Point{})
}

// arc adds an arc of radius r around c starting at angle start and sweeping sweep
// radians clockwise.
func (s *surface) arc(c model.Point, r, start, sweep float64, move bool) {
	for i := 0; i <= capSegments; i++ {
		a := start - sweep*float64(i)/capSegments
		x := float32(c.X + r*math.Cos(a))
		y := float32(c.Y + r*math.Sin(a))
		if i == 0 && move {
			s.raster.MoveTo(x, y)
			continue
		}
		s.raster.LineTo(x, y)
	}
}

func (s *surface) snapshot() *image.RGBA {
	img := image.NewRGBA(s.buf.Bounds())
	copy(img.Pix, s.buf.Pix)
	return img
}
