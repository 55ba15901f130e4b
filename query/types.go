package query

import (
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-qrexport/qrcode"
)

// GeneratePreview requests the SVG preview for a form.
type GeneratePreview struct {
	Form  qrcode.Form
	Style qrcode.Style
}

func (GeneratePreview) Type() string { return "qrcode:preview" }

func (msg GeneratePreview) Validate() error {
	switch qrcode.NormalizeContentType(msg.Form.ContentType) {
	case qrcode.ContentURL, qrcode.ContentText, qrcode.ContentWiFi, qrcode.ContentVCard:
		return nil
	default:
		return errors.New("unknown content type "+string(msg.Form.ContentType), errors.CategoryValidation).
			WithTextCode("CONTENT_TYPE_UNKNOWN")
	}
}

// ListOptions requests the selectable values.
type ListOptions struct{}

func (ListOptions) Type() string { return "qrcode:options" }

func (ListOptions) Validate() error { return nil }
