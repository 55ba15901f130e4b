package qrcode

import "math"

// Point is a position in output pixels, y pointing down.
type Point struct {
	X float64
	Y float64
}

// OpKind identifies a path segment.
type OpKind uint8

const (
	OpMove OpKind = iota
	OpLine
	OpCube
	OpClose
)

// Op is a single path command. Cubic segments use all three points,
// move and line use only the last one.
type Op struct {
	Kind OpKind
	Pts  [3]Point
}

// End returns the point the segment ends at.
func (o Op) End() Point {
	switch o.Kind {
	case OpCube:
		return o.Pts[2]
	default:
		return o.Pts[0]
	}
}

// Path is a sequence of closed contours filled with the nonzero rule.
// Holes are contours wound in the opposite direction.
type Path struct {
	Ops []Op
}

func (p *Path) MoveTo(pt Point) {
	p.Ops = append(p.Ops, Op{Kind: OpMove, Pts: [3]Point{pt}})
}

func (p *Path) LineTo(pt Point) {
	p.Ops = append(p.Ops, Op{Kind: OpLine, Pts: [3]Point{pt}})
}

func (p *Path) CubeTo(c1, c2, pt Point) {
	p.Ops = append(p.Ops, Op{Kind: OpCube, Pts: [3]Point{c1, c2, pt}})
}

func (p *Path) Close() {
	p.Ops = append(p.Ops, Op{Kind: OpClose})
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p.Ops) == 0
}

// Bounds returns the bounding box of the path's control points.
func (p Path) Bounds() (minPt, maxPt Point) {
	if len(p.Ops) == 0 {
		return Point{}, Point{}
	}
	minPt = Point{X: math.Inf(1), Y: math.Inf(1)}
	maxPt = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, op := range p.Ops {
		n := 1
		switch op.Kind {
		case OpClose:
			continue
		case OpCube:
			n = 3
		}
		for _, pt := range op.Pts[:n] {
			minPt.X = math.Min(minPt.X, pt.X)
			minPt.Y = math.Min(minPt.Y, pt.Y)
			maxPt.X = math.Max(maxPt.X, pt.X)
			maxPt.Y = math.Max(maxPt.Y, pt.Y)
		}
	}
	return minPt, maxPt
}

// Contours returns the number of contours in the path.
func (p Path) Contours() int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == OpMove {
			n++
		}
	}
	return n
}

// pen draws in a local frame whose origin is (ox, oy), rotated clockwise by
// the configured angle around (cx, cy).
type pen struct {
	path   *Path
	ox, oy float64
	cx, cy float64
	cos    float64
	sin    float64
}

func newPen(path *Path, x, y float64) pen {
	return pen{path: path, ox: x, oy: y, cx: x, cy: y, cos: 1}
}

// rotated returns a pen rotating around the center of a size x size cell.
func rotatedPen(path *Path, x, y, size, rotation float64) pen {
	return pen{
		path: path,
		ox:   x,
		oy:   y,
		cx:   x + size/2,
		cy:   y + size/2,
		cos:  math.Cos(rotation),
		sin:  math.Sin(rotation),
	}
}

func (p pen) pt(x, y float64) Point {
	dx := p.ox + x - p.cx
	dy := p.oy + y - p.cy
	return Point{
		X: p.cx + dx*p.cos - dy*p.sin,
		Y: p.cy + dx*p.sin + dy*p.cos,
	}
}

func (p pen) moveTo(x, y float64) { p.path.MoveTo(p.pt(x, y)) }
func (p pen) lineTo(x, y float64) { p.path.LineTo(p.pt(x, y)) }
func (p pen) close()              { p.path.Close() }

// arc appends an arc around (cx, cy) from angle a0 to a1. Increasing angles
// run clockwise on screen. The current point must already sit at a0.
func (p pen) arc(cx, cy, r, a0, a1 float64) {
	span := a1 - a0
	segments := int(math.Ceil(math.Abs(span) / (math.Pi / 2)))
	if segments == 0 {
		return
	}
	step := span / float64(segments)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := range segments {
		s0 := a0 + float64(i)*step
		s1 := s0 + step
		x0, y0 := cx+r*math.Cos(s0), cy+r*math.Sin(s0)
		x1, y1 := cx+r*math.Cos(s1), cy+r*math.Sin(s1)
		c1x, c1y := x0-k*r*math.Sin(s0), y0+k*r*math.Cos(s0)
		c2x, c2y := x1+k*r*math.Sin(s1), y1-k*r*math.Cos(s1)
		p.path.CubeTo(p.pt(c1x, c1y), p.pt(c2x, c2y), p.pt(x1, y1))
	}
}

// rect appends an axis aligned rectangle. reverse winds it as a hole.
func (p pen) rect(x, y, w, h float64, reverse bool) {
	p.moveTo(x, y)
	if reverse {
		p.lineTo(x, y+h)
		p.lineTo(x+w, y+h)
		p.lineTo(x+w, y)
	} else {
		p.lineTo(x+w, y)
		p.lineTo(x+w, y+h)
		p.lineTo(x, y+h)
	}
	p.close()
}

// circle appends a full circle. reverse winds it as a hole.
func (p pen) circle(cx, cy, r float64, reverse bool) {
	p.moveTo(cx+r, cy)
	if reverse {
		p.arc(cx, cy, r, 0, -2*math.Pi)
	} else {
		p.arc(cx, cy, r, 0, 2*math.Pi)
	}
	p.close()
}

// roundedRect appends a rectangle with uniformly rounded corners.
func (p pen) roundedRect(x, y, w, h, r float64, reverse bool) {
	r = math.Min(r, math.Min(w, h)/2)
	if r <= 0 {
		p.rect(x, y, w, h, reverse)
		return
	}
	if !reverse {
		p.moveTo(x+r, y)
		p.lineTo(x+w-r, y)
		p.arc(x+w-r, y+r, r, -math.Pi/2, 0)
		p.lineTo(x+w, y+h-r)
		p.arc(x+w-r, y+h-r, r, 0, math.Pi/2)
		p.lineTo(x+r, y+h)
		p.arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
		p.lineTo(x, y+r)
		p.arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
		p.close()
		return
	}
	p.moveTo(x+r, y)
	p.arc(x+r, y+r, r, 3*math.Pi/2, math.Pi)
	p.lineTo(x, y+h-r)
	p.arc(x+r, y+h-r, r, math.Pi, math.Pi/2)
	p.lineTo(x+w-r, y+h)
	p.arc(x+w-r, y+h-r, r, math.Pi/2, 0)
	p.lineTo(x+w, y+r)
	p.arc(x+w-r, y+r, r, 0, -math.Pi/2)
	p.close()
}
