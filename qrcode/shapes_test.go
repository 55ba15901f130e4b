package qrcode

import "testing"

func countOps(p Path, kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func neighborsAt(left, right, top, bottom bool) neighborFunc {
	return func(dx, dy int) bool {
		switch {
		case dx == -1 && dy == 0:
			return left
		case dx == 1 && dy == 0:
			return right
		case dx == 0 && dy == -1:
			return top
		case dx == 0 && dy == 1:
			return bottom
		}
		return false
	}
}

func TestDrawDot_RoundedByNeighbors(t *testing.T) {
	cases := []struct {
		name   string
		fn     neighborFunc
		cubes  int
		lines  int
		isRect bool
	}{
		{name: "isolated circle", fn: neighborsAt(false, false, false, false), cubes: 4},
		{name: "single neighbor side", fn: neighborsAt(true, false, false, false), cubes: 2, lines: 2},
		{name: "corner", fn: neighborsAt(true, false, false, true), cubes: 1, lines: 3},
		{name: "straight run", fn: neighborsAt(true, true, false, false), lines: 3},
		{name: "three neighbors", fn: neighborsAt(true, true, true, false), lines: 3},
	}
	for _, tc := range cases {
		var path Path
		drawDot(&path, DotRounded, 0, 0, 10, tc.fn)
		if got := countOps(path, OpCube); got != tc.cubes {
			t.Fatalf("%s: expected %d cubes, got %d", tc.name, tc.cubes, got)
		}
		if got := countOps(path, OpLine); got != tc.lines {
			t.Fatalf("%s: expected %d lines, got %d", tc.name, tc.lines, got)
		}
		minPt, maxPt := path.Bounds()
		if minPt.X < -1e-6 || minPt.Y < -1e-6 || maxPt.X > 10+1e-6 || maxPt.Y > 10+1e-6 {
			t.Fatalf("%s: shape escapes its module: %+v %+v", tc.name, minPt, maxPt)
		}
	}
}

func TestDrawDot_ExtraRoundedCorner(t *testing.T) {
	var path Path
	drawDot(&path, DotExtraRounded, 0, 0, 10, neighborsAt(true, false, false, true))
	if countOps(path, OpCube) != 1 || countOps(path, OpLine) != 1 {
		t.Fatalf("unexpected extra rounded corner %+v", path.Ops)
	}
}

func TestDrawDot_Classy(t *testing.T) {
	var isolated Path
	drawDot(&isolated, DotClassy, 0, 0, 10, neighborsAt(false, false, false, false))
	if countOps(isolated, OpCube) != 2 {
		t.Fatalf("expected two rounded corners, got %+v", isolated.Ops)
	}

	var topLeft Path
	drawDot(&topLeft, DotClassy, 0, 0, 10, neighborsAt(false, true, false, true))
	if countOps(topLeft, OpCube) != 1 {
		t.Fatalf("expected one rounded corner, got %+v", topLeft.Ops)
	}
	// The rounded corner sits top left, so the top left point is not on the path.
	for _, op := range topLeft.Ops {
		if op.Kind == OpLine || op.Kind == OpMove {
			if pt := op.End(); near(pt.X, 0) && near(pt.Y, 0) {
				t.Fatalf("expected top left corner to be rounded")
			}
		}
	}

	var middle Path
	drawDot(&middle, DotClassy, 0, 0, 10, neighborsAt(true, true, true, true))
	if countOps(middle, OpCube) != 0 {
		t.Fatalf("expected square, got %+v", middle.Ops)
	}
}

func TestDrawDot_ClassyDotIsolatedIsCircle(t *testing.T) {
	var path Path
	drawDot(&path, DotClassyDot, 0, 0, 10, neighborsAt(false, false, false, false))
	if countOps(path, OpCube) != 4 {
		t.Fatalf("expected circle, got %+v", path.Ops)
	}
}

func TestDrawCornerSquare_Shapes(t *testing.T) {
	for _, kind := range CornerSquareTypes {
		var path Path
		drawCornerSquare(&path, kind, 0, 0, 10)
		if path.Contours() != 2 {
			t.Fatalf("%s: expected frame with hole, got %d contours", kind, path.Contours())
		}
		minPt, maxPt := path.Bounds()
		if minPt.X < -1e-6 || maxPt.X > 70+1e-6 {
			t.Fatalf("%s: unexpected bounds %+v %+v", kind, minPt, maxPt)
		}
	}
}

func TestDrawCornerDot_Offset(t *testing.T) {
	var path Path
	drawCornerDot(&path, CornerDotSquare, 100, 100, 10)
	minPt, maxPt := path.Bounds()
	if !near(minPt.X, 120) || !near(maxPt.X, 150) {
		t.Fatalf("expected corner dot at [120,150], got %+v %+v", minPt, maxPt)
	}
}
