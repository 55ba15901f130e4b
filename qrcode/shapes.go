package qrcode

import "math"

// neighborFunc reports whether the module at the given offset is a drawn dot.
type neighborFunc func(dx, dy int) bool

type neighbors struct {
	left, right, top, bottom bool
}

func (n neighbors) count() int {
	c := 0
	for _, v := range []bool{n.left, n.right, n.top, n.bottom} {
		if v {
			c++
		}
	}
	return c
}

func lookNeighbors(fn neighborFunc) neighbors {
	if fn == nil {
		return neighbors{}
	}
	return neighbors{
		left:   fn(-1, 0),
		right:  fn(1, 0),
		top:    fn(0, -1),
		bottom: fn(0, 1),
	}
}

// drawDot appends the shape of one data module of the given type.
func drawDot(path *Path, kind DotType, x, y, size float64, fn neighborFunc) {
	switch kind {
	case DotDots:
		newPen(path, x, y).circle(size/2, size/2, size/2, false)
	case DotRounded:
		drawRounded(path, x, y, size, lookNeighbors(fn), false)
	case DotExtraRounded:
		drawRounded(path, x, y, size, lookNeighbors(fn), true)
	case DotClassy:
		drawClassy(path, x, y, size, lookNeighbors(fn), false)
	case DotClassyRounded:
		drawClassy(path, x, y, size, lookNeighbors(fn), true)
	case DotClassyDot:
		n := lookNeighbors(fn)
		if n.count() == 0 {
			newPen(path, x, y).circle(size/2, size/2, size/2, false)
			return
		}
		drawClassy(path, x, y, size, n, false)
	default:
		newPen(path, x, y).rect(0, 0, size, size, false)
	}
}

func drawRounded(path *Path, x, y, size float64, n neighbors, extra bool) {
	count := n.count()
	if count == 0 {
		newPen(path, x, y).circle(size/2, size/2, size/2, false)
		return
	}
	if count > 2 || (n.left && n.right) || (n.top && n.bottom) {
		newPen(path, x, y).rect(0, 0, size, size, false)
		return
	}
	if count == 2 {
		rotation := 0.0
		switch {
		case n.left && n.top:
			rotation = math.Pi / 2
		case n.top && n.right:
			rotation = math.Pi
		case n.right && n.bottom:
			rotation = -math.Pi / 2
		}
		if extra {
			cornerExtraRounded(rotatedPen(path, x, y, size, rotation), size)
		} else {
			cornerRounded(rotatedPen(path, x, y, size, rotation), size)
		}
		return
	}

	rotation := 0.0
	switch {
	case n.top:
		rotation = math.Pi / 2
	case n.right:
		rotation = math.Pi
	case n.bottom:
		rotation = -math.Pi / 2
	}
	sideRounded(rotatedPen(path, x, y, size, rotation), size)
}

func drawClassy(path *Path, x, y, size float64, n neighbors, extra bool) {
	corner := cornerRounded
	if extra {
		corner = cornerExtraRounded
	}
	switch {
	case n.count() == 0:
		if extra {
			cornersExtraRounded(rotatedPen(path, x, y, size, math.Pi/2), size)
		} else {
			cornersRounded(rotatedPen(path, x, y, size, math.Pi/2), size)
		}
	case !n.left && !n.top:
		corner(rotatedPen(path, x, y, size, -math.Pi/2), size)
	case !n.right && !n.bottom:
		corner(rotatedPen(path, x, y, size, math.Pi/2), size)
	default:
		newPen(path, x, y).rect(0, 0, size, size, false)
	}
}

// sideRounded is flat on the left and a half circle on the right.
func sideRounded(p pen, s float64) {
	p.moveTo(0, 0)
	p.lineTo(s/2, 0)
	p.arc(s/2, s/2, s/2, -math.Pi/2, math.Pi/2)
	p.lineTo(0, s)
	p.close()
}

// cornerRounded rounds the top right corner with radius s/2.
func cornerRounded(p pen, s float64) {
	p.moveTo(0, 0)
	p.lineTo(s/2, 0)
	p.arc(s/2, s/2, s/2, -math.Pi/2, 0)
	p.lineTo(s, s)
	p.lineTo(0, s)
	p.close()
}

// cornerExtraRounded rounds the top right corner with radius s.
func cornerExtraRounded(p pen, s float64) {
	p.moveTo(0, 0)
	p.arc(0, s, s, -math.Pi/2, 0)
	p.lineTo(0, s)
	p.close()
}

// cornersRounded rounds the top right and bottom left corners.
func cornersRounded(p pen, s float64) {
	p.moveTo(0, 0)
	p.lineTo(s/2, 0)
	p.arc(s/2, s/2, s/2, -math.Pi/2, 0)
	p.lineTo(s, s)
	p.lineTo(s/2, s)
	p.arc(s/2, s/2, s/2, math.Pi/2, math.Pi)
	p.close()
}

func cornersExtraRounded(p pen, s float64) {
	p.moveTo(0, 0)
	p.arc(0, s, s, -math.Pi/2, 0)
	p.arc(s, 0, s, math.Pi/2, math.Pi)
	p.close()
}

// drawCornerSquare appends a 7x7 finder frame at (x, y). dot is the module size.
func drawCornerSquare(path *Path, kind CornerSquareType, x, y, dot float64) {
	size := finderSize * dot
	p := newPen(path, x, y)
	switch kind {
	case CornerSquareDot:
		p.circle(size/2, size/2, size/2, false)
		p.circle(size/2, size/2, size/2-dot, true)
	case CornerSquareExtraRounded:
		p.roundedRect(0, 0, size, size, 2.5*dot, false)
		p.roundedRect(dot, dot, size-2*dot, size-2*dot, 1.5*dot, true)
	default:
		p.rect(0, 0, size, size, false)
		p.rect(dot, dot, size-2*dot, size-2*dot, true)
	}
}

// drawCornerDot appends the 3x3 center of a finder whose frame starts at (x, y).
func drawCornerDot(path *Path, kind CornerDotType, x, y, dot float64) {
	size := 3 * dot
	p := newPen(path, x+2*dot, y+2*dot)
	switch kind {
	case CornerDotDot:
		p.circle(size/2, size/2, size/2, false)
	case CornerDotRounded:
		p.roundedRect(0, 0, size, size, dot, false)
	default:
		p.rect(0, 0, size, size, false)
	}
}
