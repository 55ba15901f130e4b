package qrsvg

import (
	"bytes"
	"context"
	"encoding/xml"
	"image/color"
	"strings"
	"testing"

	"github.com/goliatone/go-qrexport/qrcode"
)

func drawing(t *testing.T, style qrcode.Style) qrcode.Drawing {
	t.Helper()
	m, err := qrcode.Encode("https://example.com", qrcode.ErrorCorrectionQ)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d, err := qrcode.Layout(m, style.Normalize(), 300, nil)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return d
}

func TestRenderer_WritesWellFormedSVG(t *testing.T) {
	var buf bytes.Buffer
	stats, err := NewRenderer().Render(context.Background(), drawing(t, qrcode.Style{DotType: qrcode.DotRounded}), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Bytes != int64(buf.Len()) {
		t.Fatalf("expected %d bytes, got %d", buf.Len(), stats.Bytes)
	}

	var doc struct {
		XMLName xml.Name `xml:"svg"`
		ViewBox string   `xml:"viewBox,attr"`
		Rects   []struct {
			Fill string `xml:"fill,attr"`
		} `xml:"rect"`
		Paths []struct {
			Class string `xml:"class,attr"`
			D     string `xml:"d,attr"`
			Fill  string `xml:"fill,attr"`
		} `xml:"path"`
	}
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("parse svg: %v\n%s", err, buf.String())
	}
	if doc.ViewBox != "0 0 300 300" {
		t.Fatalf("unexpected viewBox %q", doc.ViewBox)
	}
	if len(doc.Rects) != 1 || doc.Rects[0].Fill != "#ffffff" {
		t.Fatalf("expected white background rect, got %+v", doc.Rects)
	}
	if len(doc.Paths) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(doc.Paths))
	}
	for _, p := range doc.Paths {
		if p.Fill != "#000000" || !strings.HasPrefix(p.D, "M") || !strings.Contains(p.D, "Z") {
			t.Fatalf("unexpected path %s fill=%s", p.Class, p.Fill)
		}
	}
	if !strings.Contains(doc.Paths[0].D, "C") {
		t.Fatalf("expected rounded dots to use curves")
	}
}

func TestRenderer_TransparentBackgroundAndOpacity(t *testing.T) {
	d := drawing(t, qrcode.Style{Background: "transparent", Foreground: "#ff000080"})

	var buf bytes.Buffer
	if _, err := NewRenderer().Render(context.Background(), d, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<rect") {
		t.Fatalf("expected no background rect")
	}
	if !strings.Contains(out, `fill="#ff0000" fill-opacity="0.502"`) {
		t.Fatalf("expected translucent fill, got %s", out)
	}
}

func TestRenderer_EmbedsLogo(t *testing.T) {
	d := drawing(t, qrcode.Style{})
	d.Logo = &qrcode.LogoPlacement{
		Logo:  &qrcode.Logo{MediaType: "image/png", Data: []byte{1, 2, 3}},
		X:     100.125,
		Y:     100,
		Width: 50, Height: 50,
	}

	var buf bytes.Buffer
	if _, err := NewRenderer().Render(context.Background(), d, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `href="data:image/png;base64,AQID"`) {
		t.Fatalf("expected embedded logo, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), `x="100.13"`) {
		t.Fatalf("expected rounded coordinates, got %s", buf.String())
	}
}

func TestRenderer_PathCommands(t *testing.T) {
	var p qrcode.Path
	p.MoveTo(qrcode.Point{X: 0, Y: 0})
	p.LineTo(qrcode.Point{X: 10, Y: -0.0001})
	p.CubeTo(qrcode.Point{X: 1, Y: 2}, qrcode.Point{X: 3, Y: 4}, qrcode.Point{X: 5, Y: 6})
	p.Close()

	d := qrcode.Drawing{Size: 20, Layers: []qrcode.Layer{{Role: qrcode.LayerDots, Color: color.NRGBA{A: 255}, Path: p}}}
	var buf bytes.Buffer
	if _, err := NewRenderer().Render(context.Background(), d, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `d="M0 0 L10 0 C1 2 3 4 5 6 Z"`) {
		t.Fatalf("unexpected path data %s", buf.String())
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer().Render(ctx, qrcode.Drawing{Size: 10}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected canceled error")
	}
}
