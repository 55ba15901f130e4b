package qrpdf

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Sheet layout in millimetres on an A4 portrait page.
const (
	SheetPageSize    = "A4"
	SheetWidthMM     = 210.0
	SheetHeightMM    = 297.0
	SheetImageSizeMM = 120.0
	SheetImageTopMM  = 70.0
	SheetTitle       = "QR Code"
	SheetTitlePt     = 20.0
	SheetCaptionPt   = 12.0

	captionLimit = 50
)

// Sheet is a printable page holding one QR code image.
type Sheet struct {
	PageSize   string
	PageWidth  float64
	PageHeight float64

	Image     []byte
	ImageX    float64
	ImageY    float64
	ImageSize float64

	Title     string
	TitleSize float64
	TitleY    float64

	Caption     string
	CaptionSize float64
	CaptionY    float64
}

// NewSheet lays out a PNG image and its payload caption.
func NewSheet(png []byte, payload string) Sheet {
	y := SheetImageTopMM
	return Sheet{
		PageSize:    SheetPageSize,
		PageWidth:   SheetWidthMM,
		PageHeight:  SheetHeightMM,
		Image:       png,
		ImageX:      (SheetWidthMM - SheetImageSizeMM) / 2,
		ImageY:      y,
		ImageSize:   SheetImageSizeMM,
		Title:       SheetTitle,
		TitleSize:   SheetTitlePt,
		TitleY:      y + 140,
		Caption:     Caption(payload),
		CaptionSize: SheetCaptionPt,
		CaptionY:    y + 155,
	}
}

// Caption returns "Content: " followed by at most 50 characters of the
// payload, with an ellipsis when it was cut.
func Caption(payload string) string {
	if utf8.RuneCountInString(payload) <= captionLimit {
		return "Content: " + payload
	}
	var b strings.Builder
	b.WriteString("Content: ")
	n := 0
	for _, r := range payload {
		if n == captionLimit {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString("...")
	return b.String()
}

// ImageDataURI returns the image as a PNG data URI.
func (s Sheet) ImageDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(s.Image)
}
