package qrcode

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

type stubRenderer struct {
	mu      sync.Mutex
	calls   int
	last    Drawing
	body    string
	err     error
	warmErr error
	release chan struct{}
}

func (r *stubRenderer) Render(ctx context.Context, d Drawing, w io.Writer) (RenderStats, error) {
	r.mu.Lock()
	r.calls++
	r.last = d
	r.mu.Unlock()
	if r.err != nil {
		return RenderStats{}, r.err
	}
	body := r.body
	if body == "" {
		body = "rendered"
	}
	n, err := io.WriteString(w, body)
	return RenderStats{Bytes: int64(n)}, err
}

type stubWarmRenderer struct {
	*stubRenderer
}

func (r stubWarmRenderer) Warm(ctx context.Context) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.warmErr
}

func newTestService(t *testing.T, renderers map[Format]Renderer) *Service {
	t.Helper()
	reg := NewRendererRegistry()
	for format, renderer := range renderers {
		if err := reg.Register(format, renderer); err != nil {
			t.Fatalf("register %s: %v", format, err)
		}
	}
	svc := NewService(ServiceConfig{
		Renderers:   reg,
		Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		IDGenerator: func() string { return "exp-1" },
	})
	svc.Init(context.Background())
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	return svc
}

func TestService_NotReadyUntilWarm(t *testing.T) {
	warm := stubWarmRenderer{&stubRenderer{release: make(chan struct{})}}
	reg := NewRendererRegistry()
	if err := reg.Register(FormatSVG, warm); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := NewService(ServiceConfig{Renderers: reg})

	form := Form{ContentType: ContentURL, URL: "https://example.com"}
	if _, err := svc.Preview(context.Background(), form, Style{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected not ready before init, got %v", err)
	}

	svc.Init(context.Background())
	if svc.Ready() {
		t.Fatalf("expected service to wait for warm-up")
	}
	_, err := svc.Export(context.Background(), ExportRequest{Form: form, Format: FormatSVG, Output: io.Discard})
	if KindFromError(err) != KindNotReady {
		t.Fatalf("expected not ready kind, got %v", err)
	}
	if AsGoError(err).Message != MsgNotReady {
		t.Fatalf("unexpected message %q", AsGoError(err).Message)
	}

	close(warm.release)
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !svc.Ready() {
		t.Fatalf("expected ready after warm-up")
	}
	if _, err := svc.Preview(context.Background(), form, Style{}); err != nil {
		t.Fatalf("preview after warm-up: %v", err)
	}
}

func TestService_WarmFailureDisablesFormat(t *testing.T) {
	pdf := stubWarmRenderer{&stubRenderer{warmErr: errors.New("no browser")}}
	svc := newTestService(t, map[Format]Renderer{
		FormatSVG: &stubRenderer{},
		FormatPDF: pdf,
	})

	if !svc.Ready() {
		t.Fatalf("expected service to stay usable")
	}
	formats := svc.Formats()
	if len(formats) != 1 || formats[0] != FormatSVG {
		t.Fatalf("expected only svg, got %v", formats)
	}

	_, err := svc.Export(context.Background(), ExportRequest{
		Form:   Form{URL: "https://example.com"},
		Format: FormatPDF,
		Output: io.Discard,
	})
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not implemented, got %v", err)
	}
}

func TestService_PreviewEmptyContent(t *testing.T) {
	svg := &stubRenderer{}
	svc := newTestService(t, map[Format]Renderer{FormatSVG: svg})

	preview, err := svc.Preview(context.Background(), Form{ContentType: ContentText, Text: "  "}, Style{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !preview.Empty || preview.SVG != nil {
		t.Fatalf("expected empty preview, got %+v", preview)
	}
	if svg.calls != 0 {
		t.Fatalf("expected renderer not to be called")
	}
}

func TestService_PreviewRendersAtPreviewSize(t *testing.T) {
	svg := &stubRenderer{body: "<svg/>"}
	svc := newTestService(t, map[Format]Renderer{FormatSVG: svg})

	form := Form{ContentType: ContentWiFi, WiFi: WiFi{SSID: "Home", Password: "pw"}}
	preview, err := svc.Preview(context.Background(), form, Style{DotType: DotRounded})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if string(preview.SVG) != "<svg/>" {
		t.Fatalf("unexpected svg %q", preview.SVG)
	}
	if preview.Payload != "WIFI:T:WPA;S:Home;P:pw;;" {
		t.Fatalf("unexpected payload %q", preview.Payload)
	}
	if svg.last.Size != DefaultPreviewSize || svg.last.Payload != preview.Payload {
		t.Fatalf("unexpected drawing %+v", svg.last)
	}
}

func TestService_Export(t *testing.T) {
	png := &stubRenderer{body: "PNGDATA"}
	svc := newTestService(t, map[Format]Renderer{FormatSVG: &stubRenderer{}, FormatPNG: png})

	var buf bytes.Buffer
	result, err := svc.Export(context.Background(), ExportRequest{
		Form:       Form{ContentType: ContentURL, URL: "https://example.com"},
		Format:     "",
		Resolution: 1500,
		Output:     &buf,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.String() != "PNGDATA" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	want := ExportResult{
		ID:          "exp-1",
		Format:      FormatPNG,
		Filename:    "qrcode.png",
		ContentType: "image/png",
		Payload:     "https://example.com",
		Resolution:  1500,
		Bytes:       7,
	}
	if result != want {
		t.Fatalf("expected %+v, got %+v", want, result)
	}
	if png.last.Size != 1500 {
		t.Fatalf("expected drawing at 1500px, got %d", png.last.Size)
	}
}

func TestService_ExportDefaultsResolution(t *testing.T) {
	png := &stubRenderer{}
	svc := newTestService(t, map[Format]Renderer{FormatPNG: png})

	result, err := svc.Export(context.Background(), ExportRequest{
		Form:   Form{URL: "https://example.com"},
		Format: FormatPNG,
		Output: io.Discard,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Resolution != DefaultResolution || png.last.Size != DefaultResolution {
		t.Fatalf("expected default resolution, got %d", result.Resolution)
	}
}

func TestService_ExportValidation(t *testing.T) {
	svc := newTestService(t, map[Format]Renderer{FormatPNG: &stubRenderer{}})
	form := Form{URL: "https://example.com"}

	cases := map[string]struct {
		req  ExportRequest
		kind ErrorKind
	}{
		"missing output":   {req: ExportRequest{Form: form, Format: FormatPNG}, kind: KindValidation},
		"unknown format":   {req: ExportRequest{Form: form, Format: "gif", Output: io.Discard}, kind: KindNotFound},
		"low resolution":   {req: ExportRequest{Form: form, Resolution: 999, Output: io.Discard}, kind: KindValidation},
		"high resolution":  {req: ExportRequest{Form: form, Resolution: 4001, Output: io.Discard}, kind: KindValidation},
		"empty content":    {req: ExportRequest{Form: Form{ContentType: ContentVCard}, Output: io.Discard}, kind: KindValidation},
		"bad style":        {req: ExportRequest{Form: form, Style: Style{DotType: "stars"}, Output: io.Discard}, kind: KindValidation},
		"bad filename tpl": {req: ExportRequest{Form: form, Filename: "{{", Output: io.Discard}, kind: KindValidation},
	}
	for name, tc := range cases {
		_, err := svc.Export(context.Background(), tc.req)
		if KindFromError(err) != tc.kind {
			t.Fatalf("%s: expected %s, got %v", name, tc.kind, err)
		}
	}

	_, err := svc.Export(context.Background(), ExportRequest{Form: Form{ContentType: ContentURL}, Output: io.Discard})
	if AsGoError(err).Message != MsgEmptyContent {
		t.Fatalf("expected empty content message, got %v", err)
	}
}

func TestService_ExportRenderFailure(t *testing.T) {
	svc := newTestService(t, map[Format]Renderer{FormatPNG: &stubRenderer{err: errors.New("disk full")}})

	_, err := svc.Export(context.Background(), ExportRequest{Form: Form{URL: "x"}, Output: io.Discard})
	if KindFromError(err) != KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if AsGoError(err).Message != MsgExportFailed {
		t.Fatalf("unexpected message %q", AsGoError(err).Message)
	}
}

func TestService_ExportCanceled(t *testing.T) {
	svc := newTestService(t, map[Format]Renderer{FormatPNG: &stubRenderer{err: context.Canceled}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, ExportRequest{Form: Form{URL: "x"}, Output: io.Discard})
	if KindFromError(err) != KindCanceled {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestService_Options(t *testing.T) {
	svc := newTestService(t, map[Format]Renderer{FormatSVG: &stubRenderer{}, FormatPNG: &stubRenderer{}})
	opts := svc.Options()
	if opts.MinResolution != 1000 || opts.MaxResolution != 4000 || opts.DefaultResolution != 3000 || opts.ResolutionStep != 100 {
		t.Fatalf("unexpected resolution bounds %+v", opts)
	}
	if len(opts.DotTypes) != 7 || len(opts.Formats) != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
