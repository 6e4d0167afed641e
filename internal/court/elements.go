package court

import "github.com/preston-bernstein/nba-shot-charts/internal/domain/shots"

// View bounds of a shot chart in court units.
const (
	ViewMinX = shots.MinX
	ViewMaxX = shots.MaxX
	ViewMinY = shots.MinY
	ViewMaxY = shots.MaxY
)

// Elements returns the court primitives in drawing order. outerLines adds the
// baseline, sidelines and half-court line.
func Elements(outerLines bool) []Element {
	els := []Element{
		Circle{Label: "hoop", Center: Point{0, 0}, Radius: 7.5},
		Rect{Label: "backboard", Origin: Point{-30, -7.5}, Width: 60, Height: -1, Filled: true},
		// Paint: outer box 16ft wide, inner box 12ft, both 19ft deep.
		Rect{Label: "outer_box", Origin: Point{-80, -47.5}, Width: 160, Height: 190},
		Rect{Label: "inner_box", Origin: Point{-60, -47.5}, Width: 120, Height: 190},
		Arc{Label: "top_free_throw", Center: Point{0, 142.5}, Width: 120, Height: 120, Theta1: 0, Theta2: 180},
		Arc{Label: "bottom_free_throw", Center: Point{0, 142.5}, Width: 120, Height: 120, Theta1: 180, Theta2: 0, Dashed: true},
		// Restricted area: 4ft radius from the center of the hoop.
		Arc{Label: "restricted", Center: Point{0, 0}, Width: 80, Height: 80, Theta1: 0, Theta2: 180},
		// Corner threes run 14ft before the arc starts.
		Rect{Label: "corner_three_a", Origin: Point{-220, -47.5}, Width: 0, Height: 140},
		Rect{Label: "corner_three_b", Origin: Point{220, -47.5}, Width: 0, Height: 140},
		// 23'9" from the hoop; the angles meet the corner lines.
		Arc{Label: "three_arc", Center: Point{0, 0}, Width: 475, Height: 475, Theta1: 22, Theta2: 158},
		Arc{Label: "center_outer_arc", Center: Point{0, 422.5}, Width: 120, Height: 120, Theta1: 180, Theta2: 0},
		Arc{Label: "center_inner_arc", Center: Point{0, 422.5}, Width: 40, Height: 40, Theta1: 180, Theta2: 0},
	}
	if outerLines {
		els = append(els, Rect{Label: "outer_lines", Origin: Point{-250, -47.5}, Width: 500, Height: 470})
	}
	return els
}
