package command

import (
	"strings"

	"github.com/goliatone/go-errors"

	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	"github.com/goliatone/go-qrexport/qrcode"
)

// ExportQRCode renders a QR code into Request.Output.
type ExportQRCode struct {
	Request qrcode.ExportRequest
	Result  *qrcode.ExportResult
}

func (ExportQRCode) Type() string { return "qrcode:export" }

func (msg ExportQRCode) Validate() error {
	if msg.Request.Output == nil {
		return errors.New("output writer is required", errors.CategoryValidation).
			WithTextCode("OUTPUT_REQUIRED")
	}
	return validateRequest(msg.Request)
}

// SaveQRCode renders a QR code into the artifact store. Key defaults to the
// rendered filename.
type SaveQRCode struct {
	Request qrcode.ExportRequest
	Key     string
	Result  *storefs.ArtifactRef
}

func (SaveQRCode) Type() string { return "qrcode:save" }

func (msg SaveQRCode) Validate() error {
	if msg.Request.Output != nil {
		return errors.New("output writer is managed by the store", errors.CategoryValidation).
			WithTextCode("OUTPUT_NOT_ALLOWED")
	}
	return validateRequest(msg.Request)
}

func validateRequest(req qrcode.ExportRequest) error {
	if req.Resolution < 0 {
		return errors.New("resolution must be positive", errors.CategoryValidation).
			WithTextCode("RESOLUTION_INVALID")
	}
	if format := strings.TrimSpace(string(req.Format)); format != "" && qrcode.ContentTypeForFormat(qrcode.NormalizeFormat(req.Format)) == "application/octet-stream" {
		return errors.New("unknown format "+format, errors.CategoryValidation).
			WithTextCode("FORMAT_UNKNOWN")
	}
	return nil
}
