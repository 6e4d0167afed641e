// Package court describes the half-court diagram in shot-chart units:
// tenths of a foot with the center of the hoop at the origin and the
// baseline at y = -47.5.
package court

import "math"

// Point is a position in court units.
type Point struct {
	X, Y float64
}

// Path is an element outline ready to be stroked.
type Path struct {
	Points []Point
	Closed bool
	Filled bool
	Dashed bool
}

// Element is one primitive of the court drawing.
type Element interface {
	Name() string
	Outline() Path
}

// arcSegments is the polyline resolution of a full circle.
const arcSegments = 120

// Circle is an unfilled circle.
type Circle struct {
	Label  string
	Center Point
	Radius float64
}

func (c Circle) Name() string { return c.Label }

func (c Circle) Outline() Path {
	pts := sweep(c.Center, c.Radius, c.Radius, 0, 360)
	return Path{Points: pts[:len(pts)-1], Closed: true}
}

// Rect is an axis-aligned rectangle anchored at Origin. Width or Height may be
// negative (growing left/down) or zero (a straight line).
type Rect struct {
	Label  string
	Origin Point
	Width  float64
	Height float64
	Filled bool
}

func (r Rect) Name() string { return r.Label }

func (r Rect) Outline() Path {
	o := r.Origin
	if r.Width == 0 || r.Height == 0 {
		return Path{Points: []Point{o, {o.X + r.Width, o.Y + r.Height}}}
	}
	return Path{
		Points: []Point{
			o,
			{o.X + r.Width, o.Y},
			{o.X + r.Width, o.Y + r.Height},
			{o.X, o.Y + r.Height},
		},
		Closed: true,
		Filled: r.Filled,
	}
}

// Arc is an elliptical arc. Width and Height are the full diameters; the arc
// runs counter-clockwise from Theta1 to Theta2 degrees.
type Arc struct {
	Label  string
	Center Point
	Width  float64
	Height float64
	Theta1 float64
	Theta2 float64
	Dashed bool
}

func (a Arc) Name() string { return a.Label }

func (a Arc) Outline() Path {
	return Path{
		Points: sweep(a.Center, a.Width/2, a.Height/2, a.Theta1, a.Theta2),
		Dashed: a.Dashed,
	}
}

// Span returns the counter-clockwise sweep of the arc in degrees.
func (a Arc) Span() float64 {
	return normalizedSpan(a.Theta1, a.Theta2)
}

func normalizedSpan(theta1, theta2 float64) float64 {
	span := math.Mod(theta2-theta1, 360)
	if span <= 0 {
		span += 360
	}
	return span
}

func sweep(center Point, rx, ry, theta1, theta2 float64) []Point {
	span := normalizedSpan(theta1, theta2)
	steps := int(math.Ceil(span / 360 * arcSegments))
	if steps < 2 {
		steps = 2
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := (theta1 + span*float64(i)/float64(steps)) * math.Pi / 180
		pts = append(pts, Point{
			X: center.X + rx*math.Cos(theta),
			Y: center.Y + ry*math.Sin(theta),
		})
	}
	return pts
}
