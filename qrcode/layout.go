package qrcode

import (
	"fmt"
	"image/color"
	"math"
)

// LayerRole names the part of the symbol a layer draws.
type LayerRole string

const (
	LayerDots          LayerRole = "dots"
	LayerCornerSquares LayerRole = "corners-square"
	LayerCornerDots    LayerRole = "corners-dot"
)

// Layer is a filled path in a single color.
type Layer struct {
	Role  LayerRole
	Color color.NRGBA
	Path  Path
}

// LogoPlacement positions the logo inside the symbol.
type LogoPlacement struct {
	Logo   *Logo
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Drawing is the format independent result of laying out a QR code.
type Drawing struct {
	Size       int
	Background color.NRGBA
	Layers     []Layer
	Logo       *LogoPlacement
	Payload    string
	Modules    int
	DotSize    float64
	Origin     Point
	HiddenDots int
}

// imageSize is the logo footprint measured in pixels and hidden modules.
type imageSize struct {
	width     float64
	height    float64
	hideXDots int
	hideYDots int
}

// Layout draws the matrix into a size x size canvas.
func Layout(m *Matrix, style Style, size int, logo *Logo) (Drawing, error) {
	count := m.Size()
	if count == 0 {
		return Drawing{}, ErrEmptyContent
	}
	palette, err := style.Palette()
	if err != nil {
		return Drawing{}, err
	}
	drawable := size - 2*style.Margin
	if drawable < count {
		return Drawing{}, NewError(KindValidation, fmt.Sprintf("size %d is too small for %d modules", size, count), nil)
	}

	dotSize := math.Floor(float64(drawable) / float64(count))
	xBeginning := math.Floor((float64(size) - float64(count)*dotSize) / 2)
	yBeginning := xBeginning

	d := Drawing{
		Size:       size,
		Background: palette.Background,
		Modules:    count,
		DotSize:    dotSize,
		Origin:     Point{X: xBeginning, Y: yBeginning},
	}

	var hide imageSize
	if logo != nil {
		bounds := logo.Image.Bounds()
		maxHidden := int(math.Floor(style.LogoSize * errorCorrectionShare(style.ErrorCorrection) * float64(count*count)))
		hide = calculateImageSize(float64(bounds.Dx()), float64(bounds.Dy()), maxHidden, count-2*finderSize, dotSize)

		margin := float64(style.LogoMarginPx())
		width := hide.width - 2*margin
		height := hide.height - 2*margin
		if width > 0 && height > 0 {
			d.Logo = &LogoPlacement{
				Logo:   logo,
				X:      xBeginning + margin + (float64(count)*dotSize-hide.width)/2,
				Y:      yBeginning + margin + (float64(count)*dotSize-hide.height)/2,
				Width:  width,
				Height: height,
			}
		}
	}

	hidden := func(row, col int) bool {
		if style.ShowBackgroundDots || hide.hideXDots == 0 {
			return false
		}
		return 2*col >= count-hide.hideXDots && 2*col < count+hide.hideXDots &&
			2*row >= count-hide.hideYDots && 2*row < count+hide.hideYDots
	}
	drawn := func(row, col int) bool {
		return m.Dark(row, col) && !m.InFinder(row, col) && !hidden(row, col)
	}

	dots := Layer{Role: LayerDots, Color: palette.Foreground}
	for row := range count {
		for col := range count {
			if m.InFinder(row, col) || !m.Dark(row, col) {
				continue
			}
			if hidden(row, col) {
				d.HiddenDots++
				continue
			}
			x := xBeginning + float64(col)*dotSize
			y := yBeginning + float64(row)*dotSize
			drawDot(&dots.Path, style.DotType, x, y, dotSize, func(dx, dy int) bool {
				return drawn(row+dy, col+dx)
			})
		}
	}

	squares := Layer{Role: LayerCornerSquares, Color: palette.CornerSquare}
	centers := Layer{Role: LayerCornerDots, Color: palette.CornerDot}
	for _, corner := range finderOrigins(count) {
		x := xBeginning + float64(corner[1])*dotSize
		y := yBeginning + float64(corner[0])*dotSize
		drawCornerSquare(&squares.Path, style.CornerSquareType, x, y, dotSize)
		drawCornerDot(&centers.Path, style.CornerDotType, x, y, dotSize)
	}

	d.Layers = []Layer{dots, squares, centers}
	return d, nil
}

// finderOrigins returns the top left [row, col] of each finder pattern.
func finderOrigins(count int) [][2]int {
	return [][2]int{
		{0, 0},
		{0, count - finderSize},
		{count - finderSize, 0},
	}
}

// calculateImageSize fits a logo of the given aspect into the number of
// modules the error correction budget allows to be hidden. Hidden spans are
// odd so the logo stays centered on a module.
func calculateImageSize(originalWidth, originalHeight float64, maxHiddenDots, maxHiddenAxisDots int, dotSize float64) imageSize {
	if originalWidth <= 0 || originalHeight <= 0 || maxHiddenDots <= 0 || dotSize <= 0 {
		return imageSize{}
	}

	k := originalHeight / originalWidth
	hideX := int(math.Floor(math.Sqrt(float64(maxHiddenDots) / k)))
	if hideX <= 0 {
		hideX = 1
	}
	if maxHiddenAxisDots > 0 && maxHiddenAxisDots < hideX {
		hideX = maxHiddenAxisDots
	}
	if hideX%2 == 0 {
		hideX--
	}
	width := float64(hideX) * dotSize
	hideY := 1 + 2*int(math.Ceil((float64(hideX)*k-1)/2))
	height := math.Round(width * k)

	if hideY*hideX > maxHiddenDots || (maxHiddenAxisDots > 0 && maxHiddenAxisDots < hideY) {
		if maxHiddenAxisDots > 0 && maxHiddenAxisDots < hideY {
			hideY = maxHiddenAxisDots
			if hideY%2 == 0 {
				hideY--
			}
		} else {
			hideY -= 2
		}
		height = float64(hideY) * dotSize
		hideX = 1 + 2*int(math.Ceil((float64(hideY)/k-1)/2))
		width = math.Round(height / k)
	}

	return imageSize{width: width, height: height, hideXDots: hideX, hideYDots: hideY}
}
