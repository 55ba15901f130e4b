package qrraster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/goliatone/go-qrexport/qrcode"
)

// DefaultJPEGQuality matches the quality browsers use for canvas exports.
const DefaultJPEGQuality = 92

// Renderer encodes drawings as raster images.
type Renderer struct {
	Format      qrcode.Format
	JPEGQuality int
}

// NewPNGRenderer creates a PNG renderer.
func NewPNGRenderer() *Renderer {
	return &Renderer{Format: qrcode.FormatPNG}
}

// NewJPEGRenderer creates a JPEG renderer.
func NewJPEGRenderer() *Renderer {
	return &Renderer{Format: qrcode.FormatJPEG, JPEGQuality: DefaultJPEGQuality}
}

// Render rasterizes and encodes the drawing.
func (r *Renderer) Render(ctx context.Context, d qrcode.Drawing, w io.Writer) (qrcode.RenderStats, error) {
	if w == nil {
		return qrcode.RenderStats{}, qrcode.NewError(qrcode.KindValidation, "raster writer is nil", nil)
	}
	format := r.Format
	if format == "" {
		format = qrcode.FormatPNG
	}

	opaque := format == qrcode.FormatJPEG
	img, err := Rasterize(ctx, d, opaque)
	if err != nil {
		return qrcode.RenderStats{}, err
	}

	cw := &countingWriter{w: w}
	switch format {
	case qrcode.FormatPNG:
		err = png.Encode(cw, img)
	case qrcode.FormatJPEG:
		quality := r.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(cw, img, &jpeg.Options{Quality: quality})
	default:
		return qrcode.RenderStats{}, qrcode.NewError(qrcode.KindValidation, fmt.Sprintf("raster format %q not supported", format), nil)
	}
	if err != nil {
		return qrcode.RenderStats{Bytes: cw.n}, err
	}
	return qrcode.RenderStats{Bytes: cw.n}, nil
}

// Rasterize paints the drawing onto a new RGBA canvas. Opaque canvases are
// composited over white first.
func Rasterize(ctx context.Context, d qrcode.Drawing, opaque bool) (*image.RGBA, error) {
	if d.Size <= 0 {
		return nil, qrcode.NewError(qrcode.KindValidation, "drawing size must be positive", nil)
	}
	bounds := image.Rect(0, 0, d.Size, d.Size)
	img := image.NewRGBA(bounds)
	if opaque {
		draw.Draw(img, bounds, image.White, image.Point{}, draw.Src)
	}
	if d.Background.A > 0 {
		draw.Draw(img, bounds, image.NewUniform(d.Background), image.Point{}, draw.Over)
	}

	for _, layer := range d.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if layer.Path.Empty() || layer.Color.A == 0 {
			continue
		}
		fillPath(img, layer.Path, layer.Color)
	}

	if d.Logo != nil && d.Logo.Logo != nil && d.Logo.Logo.Image != nil {
		dst := image.Rect(
			int(math.Round(d.Logo.X)),
			int(math.Round(d.Logo.Y)),
			int(math.Round(d.Logo.X+d.Logo.Width)),
			int(math.Round(d.Logo.Y+d.Logo.Height)),
		)
		src := d.Logo.Logo.Image
		draw.CatmullRom.Scale(img, fitRect(dst, src.Bounds()), src, src.Bounds(), draw.Over, nil)
	}
	return img, nil
}

func fillPath(dst *image.RGBA, p qrcode.Path, c color.NRGBA) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	open := false
	for _, op := range p.Ops {
		switch op.Kind {
		case qrcode.OpMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(float32(op.Pts[0].X), float32(op.Pts[0].Y))
			open = true
		case qrcode.OpLine:
			z.LineTo(float32(op.Pts[0].X), float32(op.Pts[0].Y))
		case qrcode.OpCube:
			z.CubeTo(
				float32(op.Pts[0].X), float32(op.Pts[0].Y),
				float32(op.Pts[1].X), float32(op.Pts[1].Y),
				float32(op.Pts[2].X), float32(op.Pts[2].Y),
			)
		case qrcode.OpClose:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// fitRect centers src's aspect ratio inside dst.
func fitRect(dst, src image.Rectangle) image.Rectangle {
	if src.Dx() <= 0 || src.Dy() <= 0 || dst.Dx() <= 0 || dst.Dy() <= 0 {
		return dst
	}
	scale := math.Min(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
