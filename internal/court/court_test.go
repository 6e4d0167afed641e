package court

import (
	"math"
	"testing"
)

func byName(els []Element) map[string]Element {
	out := make(map[string]Element, len(els))
	for _, el := range els {
		out[el.Name()] = el
	}
	return out
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestElementsCount(t *testing.T) {
	if got := len(Elements(false)); got != 12 {
		t.Fatalf("expected 12 elements without outer lines, got %d", got)
	}
	withOuter := Elements(true)
	if got := len(withOuter); got != 13 {
		t.Fatalf("expected 13 elements with outer lines, got %d", got)
	}
	if withOuter[len(withOuter)-1].Name() != "outer_lines" {
		t.Fatalf("expected outer lines drawn last")
	}
}

func TestElementConstants(t *testing.T) {
	els := byName(Elements(true))

	hoop := els["hoop"].(Circle)
	if hoop.Radius != 7.5 || hoop.Center != (Point{0, 0}) {
		t.Fatalf("unexpected hoop %+v", hoop)
	}
	three := els["three_arc"].(Arc)
	if three.Width != 475 || three.Theta1 != 22 || three.Theta2 != 158 {
		t.Fatalf("unexpected three point arc %+v", three)
	}
	outer := els["outer_lines"].(Rect)
	if outer.Origin != (Point{-250, -47.5}) || outer.Width != 500 || outer.Height != 470 {
		t.Fatalf("unexpected outer lines %+v", outer)
	}
	if !els["bottom_free_throw"].(Arc).Dashed || els["top_free_throw"].(Arc).Dashed {
		t.Fatalf("expected only the bottom free throw arc dashed")
	}
	if !els["backboard"].(Rect).Filled {
		t.Fatalf("expected filled backboard")
	}
}

func TestArcSpans(t *testing.T) {
	els := byName(Elements(false))
	cases := map[string]float64{
		"top_free_throw":    180,
		"bottom_free_throw": 180,
		"restricted":        180,
		"three_arc":         136,
		"center_outer_arc":  180,
	}
	for name, want := range cases {
		if got := els[name].(Arc).Span(); !near(got, want) {
			t.Fatalf("%s span = %v, want %v", name, got, want)
		}
	}
}

func TestArcOutlineQuadrants(t *testing.T) {
	els := byName(Elements(false))

	for _, p := range els["top_free_throw"].Outline().Points {
		if p.Y < 142.5-1e-6 {
			t.Fatalf("top free throw arc dips below its center: %+v", p)
		}
	}
	bottom := els["bottom_free_throw"].Outline()
	if !bottom.Dashed {
		t.Fatalf("expected dashed outline")
	}
	for _, p := range bottom.Points {
		if p.Y > 142.5+1e-6 {
			t.Fatalf("bottom free throw arc rises above its center: %+v", p)
		}
	}
	for _, p := range els["center_outer_arc"].Outline().Points {
		if p.Y > 422.5+1e-6 {
			t.Fatalf("center arc should bulge toward the hoop: %+v", p)
		}
	}
}

func TestThreeArcMeetsCornerLines(t *testing.T) {
	pts := byName(Elements(false))["three_arc"].Outline().Points
	first, last := pts[0], pts[len(pts)-1]

	if math.Abs(first.X-220) > 1 || math.Abs(last.X+220) > 1 {
		t.Fatalf("expected arc ends near x=+/-220, got %+v and %+v", first, last)
	}
	if math.Abs(first.Y-89) > 2 {
		t.Fatalf("expected arc to start near the top of the corner line, got %+v", first)
	}
	for _, p := range pts {
		if r := math.Hypot(p.X, p.Y); !near(r, 237.5) {
			t.Fatalf("point off the 23'9\" radius: %v", r)
		}
	}
}

func TestCircleOutlineClosed(t *testing.T) {
	path := Circle{Center: Point{1, 2}, Radius: 3}.Outline()
	if !path.Closed || len(path.Points) != arcSegments {
		t.Fatalf("expected closed circle with %d points, got closed=%v n=%d", arcSegments, path.Closed, len(path.Points))
	}
	for _, p := range path.Points {
		if r := math.Hypot(p.X-1, p.Y-2); !near(r, 3) {
			t.Fatalf("point off radius: %v", r)
		}
	}
}

func TestRectOutlines(t *testing.T) {
	line := Rect{Origin: Point{220, -47.5}, Height: 140}.Outline()
	if line.Closed || len(line.Points) != 2 || line.Points[1] != (Point{220, 92.5}) {
		t.Fatalf("expected open two-point line, got %+v", line)
	}

	board := Rect{Origin: Point{-30, -7.5}, Width: 60, Height: -1, Filled: true}.Outline()
	if !board.Closed || !board.Filled || len(board.Points) != 4 {
		t.Fatalf("expected closed filled box, got %+v", board)
	}
	if board.Points[2] != (Point{30, -8.5}) {
		t.Fatalf("expected negative height to grow downward, got %+v", board.Points[2])
	}
}

func TestElementsFitView(t *testing.T) {
	for _, el := range Elements(true) {
		for _, p := range el.Outline().Points {
			if p.X < ViewMinX || p.X > ViewMaxX || p.Y < ViewMinY || p.Y > ViewMaxY {
				t.Fatalf("%s point %+v outside view", el.Name(), p)
			}
		}
	}
}
