package qrpdf

import "strings"

// ExternalAssetsPolicy controls network access while converting HTML.
type ExternalAssetsPolicy string

const (
	ExternalAssetsAllow ExternalAssetsPolicy = "allow"
	ExternalAssetsBlock ExternalAssetsPolicy = "block"
)

// PDFOptions tunes page setup for the PDF engines. Zero values defer to the
// sheet layout.
type PDFOptions struct {
	PageSize             string
	Landscape            *bool
	PrintBackground      *bool
	Scale                float64
	ExternalAssetsPolicy ExternalAssetsPolicy
}

// Paper sizes in millimetres, portrait.
var paperSizesMM = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {SheetWidthMM, SheetHeightMM},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// PaperSize returns the portrait width and height of a named paper size.
func PaperSize(name string) (width, height float64, ok bool) {
	size, ok := paperSizesMM[strings.ToUpper(strings.TrimSpace(name))]
	return size[0], size[1], ok
}

// with returns o overlaid by the non-zero fields of override.
func (o PDFOptions) with(override PDFOptions) PDFOptions {
	if override.PageSize != "" {
		o.PageSize = override.PageSize
	}
	if override.Landscape != nil {
		o.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		o.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		o.Scale = override.Scale
	}
	if override.ExternalAssetsPolicy != "" {
		o.ExternalAssetsPolicy = override.ExternalAssetsPolicy
	}
	return o
}

func (o PDFOptions) landscape() bool {
	return o.Landscape != nil && *o.Landscape
}

func pageSizeOr(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return SheetPageSize
}
