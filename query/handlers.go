package query

import (
	"context"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-qrexport/qrcode"
)

// Previewer renders previews.
type Previewer interface {
	Preview(ctx context.Context, form qrcode.Form, style qrcode.Style) (qrcode.Preview, error)
}

// OptionsProvider lists selectable values.
type OptionsProvider interface {
	Options() qrcode.Options
}

// GeneratePreviewHandler returns the SVG preview.
type GeneratePreviewHandler struct {
	Service Previewer
}

func NewGeneratePreviewHandler(svc Previewer) *GeneratePreviewHandler {
	return &GeneratePreviewHandler{Service: svc}
}

func (h *GeneratePreviewHandler) Query(ctx context.Context, msg GeneratePreview) (qrcode.Preview, error) {
	if h == nil || h.Service == nil {
		return qrcode.Preview{}, errors.New("qrcode service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return qrcode.Preview{}, err
	}
	preview, err := h.Service.Preview(ctx, msg.Form, msg.Style)
	if err != nil {
		return qrcode.Preview{}, qrcode.AsGoError(err)
	}
	return preview, nil
}

// ListOptionsHandler returns the selectable values.
type ListOptionsHandler struct {
	Service OptionsProvider
}

func NewListOptionsHandler(svc OptionsProvider) *ListOptionsHandler {
	return &ListOptionsHandler{Service: svc}
}

func (h *ListOptionsHandler) Query(ctx context.Context, msg ListOptions) (qrcode.Options, error) {
	if h == nil || h.Service == nil {
		return qrcode.Options{}, errors.New("qrcode service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Options(), nil
}
