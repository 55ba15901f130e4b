package command

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	qrsvg "github.com/goliatone/go-qrexport/adapters/svg"
	"github.com/goliatone/go-qrexport/qrcode"
	"github.com/goliatone/go-qrexport/query"
)

type stubExporter struct {
	calls  int
	last   qrcode.ExportRequest
	result qrcode.ExportResult
	body   string
	err    error
}

func (s *stubExporter) Export(ctx context.Context, req qrcode.ExportRequest) (qrcode.ExportResult, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return qrcode.ExportResult{}, s.err
	}
	if _, err := io.WriteString(req.Output, s.body); err != nil {
		return qrcode.ExportResult{}, err
	}
	return s.result, nil
}

func newSVGService(t *testing.T) *qrcode.Service {
	t.Helper()
	reg := qrcode.NewRendererRegistry()
	if err := reg.Register(qrcode.FormatSVG, qrsvg.NewRenderer()); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc := qrcode.NewService(qrcode.ServiceConfig{Renderers: reg, IDGenerator: func() string { return "exp-1" }})
	svc.Init(context.Background())
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	return svc
}

func TestExportQRCodeHandler_StoresResults(t *testing.T) {
	svc := &stubExporter{body: "PNG", result: qrcode.ExportResult{ID: "exp-1", Filename: "qrcode.png"}}
	handler := NewExportQRCodeHandler(svc)

	var got qrcode.ExportResult
	result := gcmd.NewResult[qrcode.ExportResult]()
	ctx := gcmd.ContextWithResult(context.Background(), result)

	var buf bytes.Buffer
	err := handler.Execute(ctx, ExportQRCode{
		Request: qrcode.ExportRequest{Form: qrcode.Form{URL: "https://example.com"}, Output: &buf},
		Result:  &got,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.ID != "exp-1" || buf.String() != "PNG" {
		t.Fatalf("unexpected result %+v output %q", got, buf.String())
	}
	stored, ok := result.Load()
	if !ok {
		t.Fatalf("expected context result")
	}
	if stored.Filename != "qrcode.png" {
		t.Fatalf("expected context result filename, got %q", stored.Filename)
	}
}

func TestExportQRCodeHandler_Validation(t *testing.T) {
	svc := &stubExporter{}
	handler := NewExportQRCodeHandler(svc)

	cases := map[string]ExportQRCode{
		"missing output": {Request: qrcode.ExportRequest{}},
		"bad format":     {Request: qrcode.ExportRequest{Format: "gif", Output: io.Discard}},
		"bad resolution": {Request: qrcode.ExportRequest{Resolution: -1, Output: io.Discard}},
	}
	for name, msg := range cases {
		err := handler.Execute(context.Background(), msg)
		var ge *errors.Error
		if !errors.As(err, &ge) || ge.Category != errors.CategoryValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if svc.calls != 0 {
		t.Fatalf("expected service not to be called")
	}
}

func TestExportQRCodeHandler_MapsServiceErrors(t *testing.T) {
	handler := NewExportQRCodeHandler(&stubExporter{err: qrcode.ErrEmptyContent})
	err := handler.Execute(context.Background(), ExportQRCode{Request: qrcode.ExportRequest{Output: io.Discard}})
	var ge *errors.Error
	if !errors.As(err, &ge) || ge.Message != qrcode.MsgEmptyContent {
		t.Fatalf("expected empty content error, got %v", err)
	}
}

func TestSaveQRCodeHandler_WritesArtifact(t *testing.T) {
	root := t.TempDir()
	store := storefs.NewStore(root)
	svc := &stubExporter{body: "<svg/>", result: qrcode.ExportResult{ID: "exp-9", Filename: "qrcode.svg", Format: qrcode.FormatSVG}}
	handler := NewSaveQRCodeHandler(svc, store)

	result := gcmd.NewResult[storefs.ArtifactRef]()
	ctx := gcmd.ContextWithResult(context.Background(), result)
	if err := handler.Execute(ctx, SaveQRCode{Request: qrcode.ExportRequest{Format: qrcode.FormatSVG}}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	ref, ok := result.Load()
	if !ok {
		t.Fatalf("expected context result")
	}
	if ref.Key != "qrcode.svg" || ref.Meta.ID != "exp-9" || ref.Meta.Size != 6 {
		t.Fatalf("unexpected ref %+v", ref)
	}
	data, err := os.ReadFile(filepath.Join(root, "qrcode.svg"))
	if err != nil || string(data) != "<svg/>" {
		t.Fatalf("unexpected file %q err=%v", data, err)
	}
}

func TestSaveQRCodeHandler_FailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	handler := NewSaveQRCodeHandler(&stubExporter{err: qrcode.NewError(qrcode.KindInternal, qrcode.MsgExportFailed, nil)}, storefs.NewStore(root))
	if err := handler.Execute(context.Background(), SaveQRCode{Key: "x.png"}); err == nil {
		t.Fatalf("expected error")
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("expected no files, got %d", len(entries))
	}
}

func TestSaveQRCode_RejectsOutput(t *testing.T) {
	err := (SaveQRCode{Request: qrcode.ExportRequest{Output: io.Discard}}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRegisterHandlers_Dispatch(t *testing.T) {
	svc := newSVGService(t)
	root := t.TempDir()

	subs, err := RegisterHandlers(gcmd.NewRegistry(), svc, storefs.NewStore(root))
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	defer Unsubscribe(subs)

	ref, err := dispatcher.DispatchWithResult[SaveQRCode, storefs.ArtifactRef](
		context.Background(),
		SaveQRCode{Key: "codes/hello.svg", Request: qrcode.ExportRequest{
			Form:   qrcode.Form{ContentType: qrcode.ContentText, Text: "hello"},
			Format: qrcode.FormatSVG,
		}},
	)
	if err != nil {
		t.Fatalf("dispatch save: %v", err)
	}
	if ref.Meta.Payload != "hello" || ref.Meta.ContentType != "image/svg+xml" {
		t.Fatalf("unexpected meta %+v", ref.Meta)
	}
	data, err := os.ReadFile(filepath.Join(root, "codes", "hello.svg"))
	if err != nil || !strings.HasPrefix(string(data), "<svg") {
		t.Fatalf("expected svg on disk, err=%v", err)
	}

	preview, err := dispatcher.Query[query.GeneratePreview, qrcode.Preview](
		context.Background(),
		query.GeneratePreview{Form: qrcode.Form{URL: "https://example.com"}},
	)
	if err != nil {
		t.Fatalf("query preview: %v", err)
	}
	if preview.Empty || len(preview.SVG) == 0 {
		t.Fatalf("expected preview svg")
	}
}

func TestRegisterHandlers_RequiresService(t *testing.T) {
	if _, err := RegisterHandlers(nil, nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}
