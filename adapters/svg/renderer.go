package qrsvg

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/goliatone/go-qrexport/qrcode"
)

// DefaultPrecision is the number of decimals written for coordinates.
const DefaultPrecision = 2

// Renderer writes SVG documents.
type Renderer struct {
	Precision int
}

// NewRenderer creates a renderer with default precision.
func NewRenderer() *Renderer {
	return &Renderer{Precision: DefaultPrecision}
}

// Render writes the drawing as SVG.
func (r *Renderer) Render(ctx context.Context, d qrcode.Drawing, w io.Writer) (qrcode.RenderStats, error) {
	if w == nil {
		return qrcode.RenderStats{}, qrcode.NewError(qrcode.KindValidation, "svg writer is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return qrcode.RenderStats{}, err
	}

	var buf bytes.Buffer
	r.write(&buf, d)

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return qrcode.RenderStats{Bytes: int64(n)}, err
	}
	return qrcode.RenderStats{Bytes: int64(n)}, nil
}

func (r *Renderer) write(buf *bytes.Buffer, d qrcode.Drawing) {
	size := strconv.Itoa(d.Size)
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="0 0 %s %s">`, size, size, size, size)
	buf.WriteByte('\n')

	if d.Background.A > 0 {
		fmt.Fprintf(buf, `<rect x="0" y="0" width="%s" height="%s"%s/>`, size, size, fillAttrs(d.Background))
		buf.WriteByte('\n')
	}

	for _, layer := range d.Layers {
		if layer.Path.Empty() || layer.Color.A == 0 {
			continue
		}
		fmt.Fprintf(buf, `<path class="%s" d="`, layer.Role)
		r.writePath(buf, layer.Path)
		fmt.Fprintf(buf, `"%s/>`, fillAttrs(layer.Color))
		buf.WriteByte('\n')
	}

	if d.Logo != nil && d.Logo.Logo != nil {
		uri := html.EscapeString(d.Logo.Logo.DataURI())
		fmt.Fprintf(buf, `<image href="%s" xlink:href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet"/>`,
			uri, uri, r.num(d.Logo.X), r.num(d.Logo.Y), r.num(d.Logo.Width), r.num(d.Logo.Height))
		buf.WriteByte('\n')
	}

	buf.WriteString("</svg>\n")
}

func (r *Renderer) writePath(buf *bytes.Buffer, p qrcode.Path) {
	for i, op := range p.Ops {
		if i > 0 {
			buf.WriteByte(' ')
		}
		switch op.Kind {
		case qrcode.OpMove:
			fmt.Fprintf(buf, "M%s %s", r.num(op.Pts[0].X), r.num(op.Pts[0].Y))
		case qrcode.OpLine:
			fmt.Fprintf(buf, "L%s %s", r.num(op.Pts[0].X), r.num(op.Pts[0].Y))
		case qrcode.OpCube:
			fmt.Fprintf(buf, "C%s %s %s %s %s %s",
				r.num(op.Pts[0].X), r.num(op.Pts[0].Y),
				r.num(op.Pts[1].X), r.num(op.Pts[1].Y),
				r.num(op.Pts[2].X), r.num(op.Pts[2].Y))
		case qrcode.OpClose:
			buf.WriteByte('Z')
		}
	}
}

func (r *Renderer) num(v float64) string {
	precision := r.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}
	scale := math.Pow(10, float64(precision))
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fillAttrs(c color.NRGBA) string {
	attrs := fmt.Sprintf(` fill="%s"`, qrcode.HexRGB(c))
	if c.A < 255 {
		attrs += fmt.Sprintf(` fill-opacity="%s"`, strconv.FormatFloat(math.Round(float64(c.A)/255*1000)/1000, 'f', -1, 64))
	}
	return attrs
}
