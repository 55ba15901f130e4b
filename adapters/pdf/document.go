package qrpdf

import (
	"bytes"
	"context"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/goliatone/go-qrexport/qrcode"
)

const sheetImageName = "qrcode"

// DocumentEngine writes the sheet directly with gofpdf.
type DocumentEngine struct {
	FontFamily string
	Creator    string
	// CreationDate pins the document timestamp, mostly for reproducible output.
	CreationDate time.Time
}

// Render draws the sheet image, title and caption onto a single page.
func (e DocumentEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sheet := req.Sheet
	if len(sheet.Image) == 0 {
		return nil, qrcode.NewError(qrcode.KindValidation, "pdf sheet image is empty", nil)
	}

	orientation := "P"
	if req.Options.landscape() {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", pageSizeOr(req.Options.PageSize, sheet.PageSize), "")
	pdf.SetTitle(sheet.Title, true)
	if e.Creator != "" {
		pdf.SetCreator(e.Creator, true)
	}
	if !e.CreationDate.IsZero() {
		pdf.SetCreationDate(e.CreationDate)
	}
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	x := sheet.ImageX
	if sheet.PageWidth != pageWidth {
		x = (pageWidth - sheet.ImageSize) / 2
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(sheetImageName, opts, bytes.NewReader(sheet.Image))
	pdf.ImageOptions(sheetImageName, x, sheet.ImageY, sheet.ImageSize, sheet.ImageSize, false, opts, 0, "")

	family := e.FontFamily
	if family == "" {
		family = "Helvetica"
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	centered := func(text string, size, y float64) {
		pdf.SetFont(family, "", size)
		text = tr(text)
		pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, y, text)
	}
	centered(sheet.Title, sheet.TitleSize, sheet.TitleY)
	centered(sheet.Caption, sheet.CaptionSize, sheet.CaptionY)

	if err := pdf.Error(); err != nil {
		return nil, qrcode.NewError(qrcode.KindInternal, "pdf document render failed", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, qrcode.NewError(qrcode.KindInternal, "pdf document render failed", err)
	}
	return buf.Bytes(), nil
}
