package qrcode

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// signedArea approximates the area of each contour from its end points.
// Positive values are clockwise on screen.
func signedArea(p Path) []float64 {
	var areas []float64
	var pts []Point
	flush := func() {
		if len(pts) < 3 {
			pts = nil
			return
		}
		sum := 0.0
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			sum += a.X*b.Y - b.X*a.Y
		}
		areas = append(areas, sum/2)
		pts = nil
	}
	for _, op := range p.Ops {
		switch op.Kind {
		case OpMove:
			flush()
			pts = append(pts, op.End())
		case OpClose:
			flush()
		default:
			pts = append(pts, op.End())
		}
	}
	flush()
	return areas
}

func TestRotatedPen_RotatesClockwise(t *testing.T) {
	var path Path
	p := rotatedPen(&path, 0, 0, 10, math.Pi/2)
	got := p.pt(10, 0)
	if !near(got.X, 10) || !near(got.Y, 10) {
		t.Fatalf("expected top right corner to map to bottom right, got %+v", got)
	}
}

func TestCircle_BoundsAndWinding(t *testing.T) {
	var path Path
	newPen(&path, 10, 20).circle(5, 5, 5, false)
	newPen(&path, 10, 20).circle(5, 5, 2, true)

	minPt, maxPt := path.Bounds()
	if !near(minPt.X, 10) || !near(minPt.Y, 20) {
		t.Fatalf("unexpected min %+v", minPt)
	}
	if maxPt.X > 20+1e-6 || maxPt.Y > 30+1e-6 {
		t.Fatalf("unexpected max %+v", maxPt)
	}

	areas := signedArea(path)
	if len(areas) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(areas))
	}
	if areas[0] <= 0 || areas[1] >= 0 {
		t.Fatalf("expected outer clockwise and hole reversed, got %v", areas)
	}
}

func TestRoundedRect_HoleReversed(t *testing.T) {
	var path Path
	p := newPen(&path, 0, 0)
	p.roundedRect(0, 0, 70, 70, 25, false)
	p.roundedRect(10, 10, 50, 50, 15, true)

	areas := signedArea(path)
	if len(areas) != 2 || areas[0] <= 0 || areas[1] >= 0 {
		t.Fatalf("unexpected windings %v", areas)
	}
}

func TestArc_QuarterEndsOnCircle(t *testing.T) {
	var path Path
	p := newPen(&path, 0, 0)
	p.moveTo(10, 0)
	p.arc(0, 0, 10, 0, math.Pi/2)
	if len(path.Ops) != 2 || path.Ops[1].Kind != OpCube {
		t.Fatalf("expected a single cubic segment, got %+v", path.Ops)
	}
	end := path.Ops[1].End()
	if !near(end.X, 0) || !near(end.Y, 10) {
		t.Fatalf("unexpected arc end %+v", end)
	}
	c1 := path.Ops[1].Pts[0]
	if !near(c1.X, 10) || !near(c1.Y, 10*0.5522847498) {
		t.Fatalf("unexpected first control point %+v", c1)
	}
}
