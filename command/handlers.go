package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"

	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	"github.com/goliatone/go-qrexport/qrcode"
)

// Exporter renders exports.
type Exporter interface {
	Export(ctx context.Context, req qrcode.ExportRequest) (qrcode.ExportResult, error)
}

// ArtifactStore opens store writers.
type ArtifactStore interface {
	NewWriter(ctx context.Context) (*storefs.Writer, error)
}

// ExportQRCodeHandler renders exports into caller-supplied writers.
type ExportQRCodeHandler struct {
	Service Exporter
}

func NewExportQRCodeHandler(svc Exporter) *ExportQRCodeHandler {
	return &ExportQRCodeHandler{Service: svc}
}

func (h *ExportQRCodeHandler) Execute(ctx context.Context, msg ExportQRCode) error {
	if h == nil || h.Service == nil {
		return errors.New("qrcode service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	result, err := h.Service.Export(ctx, msg.Request)
	if err != nil {
		return qrcode.AsGoError(err)
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	if res := gcmd.ResultFromContext[qrcode.ExportResult](ctx); res != nil {
		res.Store(result)
	}
	return nil
}

// SaveQRCodeHandler renders exports into the artifact store.
type SaveQRCodeHandler struct {
	Exports *ExportQRCodeHandler
	Store   ArtifactStore
}

func NewSaveQRCodeHandler(svc Exporter, store ArtifactStore) *SaveQRCodeHandler {
	return &SaveQRCodeHandler{Exports: NewExportQRCodeHandler(svc), Store: store}
}

func (h *SaveQRCodeHandler) Execute(ctx context.Context, msg SaveQRCode) error {
	if h == nil || h.Exports == nil || h.Exports.Service == nil || h.Store == nil {
		return errors.New("qrcode service and store are required", errors.CategoryInternal).
			WithTextCode("STORE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	w, err := h.Store.NewWriter(ctx)
	if err != nil {
		return qrcode.AsGoError(err)
	}
	defer w.Abort()

	req := msg.Request
	req.Output = w
	result, err := h.Exports.Service.Export(ctx, req)
	if err != nil {
		return qrcode.AsGoError(err)
	}

	key := msg.Key
	if key == "" {
		key = result.Filename
	}
	ref, err := w.Commit(key, storefs.MetaFromResult(result))
	if err != nil {
		return qrcode.AsGoError(err)
	}
	if msg.Result != nil {
		*msg.Result = ref
	}
	if res := gcmd.ResultFromContext[storefs.ArtifactRef](ctx); res != nil {
		res.Store(ref)
	}
	return nil
}
