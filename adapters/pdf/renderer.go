package qrpdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	qrraster "github.com/goliatone/go-qrexport/adapters/raster"
	"github.com/goliatone/go-qrexport/qrcode"
)

// DefaultMaxHTMLBytes caps the sheet HTML handed to HTML engines.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// RenderRequest carries one sheet to an engine. HTML is only set when the
// renderer has an HTMLRenderer.
type RenderRequest struct {
	Sheet   Sheet
	HTML    []byte
	Options PDFOptions
}

// Engine renders a sheet into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// SheetRenderer writes the HTML form of a sheet.
type SheetRenderer interface {
	RenderSheet(ctx context.Context, sheet Sheet, w io.Writer) error
}

// Renderer is the qrcode.Renderer for the pdf format.
type Renderer struct {
	Enabled      bool
	Engine       Engine
	HTMLRenderer SheetRenderer
	Options      PDFOptions
	MaxHTMLBytes int64
}

// Render rasterizes the drawing onto a sheet and writes the engine output.
func (r Renderer) Render(ctx context.Context, d qrcode.Drawing, w io.Writer) (qrcode.RenderStats, error) {
	if err := r.check(); err != nil {
		return qrcode.RenderStats{}, err
	}

	var png bytes.Buffer
	if _, err := qrraster.NewPNGRenderer().Render(ctx, d, &png); err != nil {
		return qrcode.RenderStats{}, err
	}
	req := RenderRequest{Sheet: NewSheet(png.Bytes(), d.Payload), Options: r.Options}

	if r.HTMLRenderer != nil {
		html, err := r.sheetHTML(ctx, req.Sheet)
		if err != nil {
			return qrcode.RenderStats{}, err
		}
		req.HTML = html
	}

	pdf, err := r.Engine.Render(ctx, req)
	if err != nil {
		return qrcode.RenderStats{}, err
	}
	n, err := w.Write(pdf)
	return qrcode.RenderStats{Bytes: int64(n)}, err
}

// Warm prepares the engine when it supports it. A disabled renderer fails so
// the format is reported as unavailable.
func (r Renderer) Warm(ctx context.Context) error {
	if !r.Enabled {
		return qrcode.NewError(qrcode.KindNotImpl, "pdf renderer is disabled", nil)
	}
	if warmer, ok := r.Engine.(qrcode.Warmer); ok {
		return warmer.Warm(ctx)
	}
	return nil
}

func (r Renderer) check() error {
	if !r.Enabled {
		return qrcode.NewError(qrcode.KindNotImpl, "pdf renderer is disabled", nil)
	}
	if r.Engine == nil {
		return qrcode.NewError(qrcode.KindValidation, "pdf renderer requires engine", nil)
	}
	return nil
}

func (r Renderer) sheetHTML(ctx context.Context, sheet Sheet) ([]byte, error) {
	limit := r.MaxHTMLBytes
	if limit <= 0 {
		limit = DefaultMaxHTMLBytes
	}
	var buf bytes.Buffer
	if err := r.HTMLRenderer.RenderSheet(ctx, sheet, &buf); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > limit {
		return nil, qrcode.NewError(qrcode.KindValidation, "sheet html exceeds max bytes", nil)
	}
	return buf.Bytes(), nil
}

// WKHTMLTOPDFEngine pipes the sheet HTML through the wkhtmltopdf binary.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Render runs wkhtmltopdf with the HTML on stdin and reads the PDF from stdout.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if len(req.HTML) == 0 {
		return nil, qrcode.NewError(qrcode.KindValidation, "wkhtmltopdf engine requires sheet html", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.command(), e.args(req)...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "wkhtmltopdf failed"
		}
		return nil, qrcode.NewError(qrcode.KindInternal, msg, err)
	}
	return stdout.Bytes(), nil
}

// Warm checks that the binary is on PATH.
func (e WKHTMLTOPDFEngine) Warm(ctx context.Context) error {
	if _, err := exec.LookPath(e.command()); err != nil {
		return qrcode.NewError(qrcode.KindNotImpl, "wkhtmltopdf binary not found", err)
	}
	return nil
}

func (e WKHTMLTOPDFEngine) args(req RenderRequest) []string {
	args := []string{
		"--quiet",
		"--page-size", pageSizeOr(req.Options.PageSize, req.Sheet.PageSize),
		"--margin-top", "0", "--margin-bottom", "0",
		"--margin-left", "0", "--margin-right", "0",
	}
	if req.Options.landscape() {
		args = append(args, "--orientation", "Landscape")
	}
	if req.Options.PrintBackground != nil && !*req.Options.PrintBackground {
		args = append(args, "--no-background")
	}
	args = append(args, e.Args...)
	return append(args, "-", "-")
}

func (e WKHTMLTOPDFEngine) command() string {
	if cmd := strings.TrimSpace(e.Command); cmd != "" {
		return cmd
	}
	return "wkhtmltopdf"
}
