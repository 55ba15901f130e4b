package qrpdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-qrexport/qrcode"
)

type stubSheetRenderer struct {
	html string
	err  error
}

func (r stubSheetRenderer) RenderSheet(ctx context.Context, sheet Sheet, w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	_, err := io.WriteString(w, r.html)
	return err
}

func testDrawing(t *testing.T, payload string) qrcode.Drawing {
	t.Helper()
	m, err := qrcode.Encode(payload, qrcode.ErrorCorrectionQ)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d, err := qrcode.Layout(m, qrcode.DefaultStyle(), 400, nil)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	d.Payload = payload
	return d
}

func TestRenderer_Disabled(t *testing.T) {
	renderer := Renderer{}
	buf := &bytes.Buffer{}
	_, err := renderer.Render(context.Background(), qrcode.Drawing{}, buf)
	if err == nil {
		t.Fatalf("expected error")
	}
	if qrcode.KindFromError(err) != qrcode.KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", qrcode.KindFromError(err))
	}
	if err := renderer.Warm(context.Background()); qrcode.KindFromError(err) != qrcode.KindNotImpl {
		t.Fatalf("expected warm to report disabled renderer, got %v", err)
	}
}

func TestRenderer_MissingEngine(t *testing.T) {
	renderer := Renderer{Enabled: true}
	buf := &bytes.Buffer{}
	_, err := renderer.Render(context.Background(), testDrawing(t, "x"), buf)
	if err == nil {
		t.Fatalf("expected error")
	}
	if qrcode.KindFromError(err) != qrcode.KindValidation {
		t.Fatalf("expected validation error, got %v", qrcode.KindFromError(err))
	}
}

func TestRenderer_RendersPDF(t *testing.T) {
	var got RenderRequest
	engine := EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
		got = req
		return []byte("%PDF-1.4"), nil
	})
	renderer := Renderer{
		Enabled:      true,
		Engine:       engine,
		HTMLRenderer: stubSheetRenderer{html: "<html>ok</html>"},
	}
	buf := &bytes.Buffer{}
	stats, err := renderer.Render(context.Background(), testDrawing(t, "https://example.com"), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Bytes != int64(len("%PDF-1.4")) {
		t.Fatalf("expected bytes %d, got %d", len("%PDF-1.4"), stats.Bytes)
	}
	if got := buf.String(); got != "%PDF-1.4" {
		t.Fatalf("unexpected output: %q", got)
	}
	if string(got.HTML) != "<html>ok</html>" {
		t.Fatalf("unexpected html %q", got.HTML)
	}
	if !bytes.HasPrefix(got.Sheet.Image, []byte("\x89PNG")) {
		t.Fatalf("expected png sheet image")
	}
	if got.Sheet.Caption != "Content: https://example.com" {
		t.Fatalf("unexpected caption %q", got.Sheet.Caption)
	}
}

func TestRenderer_SkipsHTMLWithoutSheetRenderer(t *testing.T) {
	renderer := Renderer{
		Enabled: true,
		Engine: EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
			if req.HTML != nil {
				return nil, errors.New("unexpected html")
			}
			return []byte("pdf"), nil
		}),
	}
	if _, err := renderer.Render(context.Background(), testDrawing(t, "x"), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestRenderer_MaxHTMLBytes(t *testing.T) {
	renderer := Renderer{
		Enabled:      true,
		HTMLRenderer: stubSheetRenderer{html: "0123456789"},
		Engine: EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
			return []byte("pdf"), nil
		}),
		MaxHTMLBytes: 4,
	}
	buf := &bytes.Buffer{}
	_, err := renderer.Render(context.Background(), testDrawing(t, "x"), buf)
	if err == nil {
		t.Fatalf("expected error")
	}
	if qrcode.KindFromError(err) != qrcode.KindValidation {
		t.Fatalf("expected validation error, got %v", qrcode.KindFromError(err))
	}
}

func TestNewSheet_Layout(t *testing.T) {
	sheet := NewSheet([]byte("png"), "hello")
	if sheet.ImageX != 45 || sheet.ImageY != 70 || sheet.ImageSize != 120 {
		t.Fatalf("unexpected image box %+v", sheet)
	}
	if sheet.TitleY != 210 || sheet.CaptionY != 225 {
		t.Fatalf("unexpected text rows title=%v caption=%v", sheet.TitleY, sheet.CaptionY)
	}
	if sheet.Title != "QR Code" || sheet.TitleSize != 20 || sheet.CaptionSize != 12 {
		t.Fatalf("unexpected text styling %+v", sheet)
	}
	if !strings.HasPrefix(sheet.ImageDataURI(), "data:image/png;base64,") {
		t.Fatalf("unexpected data uri")
	}
}

func TestCaption(t *testing.T) {
	exact := strings.Repeat("a", 50)
	if got := Caption(exact); got != "Content: "+exact {
		t.Fatalf("unexpected caption %q", got)
	}
	long := strings.Repeat("b", 51)
	if got := Caption(long); got != "Content: "+strings.Repeat("b", 50)+"..." {
		t.Fatalf("unexpected caption %q", got)
	}
	runes := strings.Repeat("é", 60)
	if got := Caption(runes); got != "Content: "+strings.Repeat("é", 50)+"..." {
		t.Fatalf("expected caption cut on characters, got %q", got)
	}
}

func TestDocumentEngine_Render(t *testing.T) {
	var img bytes.Buffer
	d := testDrawing(t, "https://example.com/document")
	renderer := Renderer{Enabled: true, Engine: DocumentEngine{Creator: "qrexport"}}
	if _, err := renderer.Render(context.Background(), d, &img); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := img.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", out[:8])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Fatalf("expected pdf trailer")
	}
	if !bytes.Contains(out, []byte("/Subtype /Image")) {
		t.Fatalf("expected embedded image")
	}
}

func TestDocumentEngine_RejectsEmptyImage(t *testing.T) {
	_, err := DocumentEngine{}.Render(context.Background(), RenderRequest{Sheet: NewSheet(nil, "x")})
	if qrcode.KindFromError(err) != qrcode.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWKHTMLTOPDFEngine_RequiresHTML(t *testing.T) {
	_, err := WKHTMLTOPDFEngine{}.Render(context.Background(), RenderRequest{})
	if qrcode.KindFromError(err) != qrcode.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWKHTMLTOPDFEngine_WarmMissingBinary(t *testing.T) {
	err := WKHTMLTOPDFEngine{Command: "qrexport-missing-binary"}.Warm(context.Background())
	if qrcode.KindFromError(err) != qrcode.KindNotImpl {
		t.Fatalf("expected not implemented, got %v", err)
	}
}

func TestWKHTMLTOPDFEngine_Args(t *testing.T) {
	landscape := true
	printBackground := false
	args := WKHTMLTOPDFEngine{Args: []string{"--dpi", "300"}}.args(RenderRequest{
		Sheet:   NewSheet([]byte("png"), "x"),
		Options: PDFOptions{Landscape: &landscape, PrintBackground: &printBackground},
	})
	got := strings.Join(args, " ")
	for _, want := range []string{"--page-size A4", "--margin-top 0", "--orientation Landscape", "--no-background", "--dpi 300 - -"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}
