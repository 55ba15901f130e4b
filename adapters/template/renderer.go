package qrtemplate

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	qrpdf "github.com/goliatone/go-qrexport/adapters/pdf"
	"github.com/goliatone/go-qrexport/qrcode"
)

// DefaultPageTitle is shown in the generator page header.
const DefaultPageTitle = "QR Code Generator"

const ptToMM = 25.4 / 72

// SheetRenderer renders the printable sheet as HTML.
type SheetRenderer struct {
	Templates    TemplateExecutor
	TemplateName string
}

// NewSheetRenderer returns a SheetRenderer backed by the embedded templates.
func NewSheetRenderer() SheetRenderer {
	return SheetRenderer{Templates: NewPongo2Executor(nil), TemplateName: SheetTemplateName}
}

// RenderSheet writes the sheet HTML. Nothing is written when rendering fails.
func (r SheetRenderer) RenderSheet(ctx context.Context, sheet qrpdf.Sheet, w io.Writer) error {
	if r.Templates == nil {
		return qrcode.NewError(qrcode.KindValidation, "sheet renderer requires templates", nil)
	}
	if len(sheet.Image) == 0 {
		return qrcode.NewError(qrcode.KindValidation, "sheet image is empty", nil)
	}
	name := r.TemplateName
	if name == "" {
		name = SheetTemplateName
	}
	return execute(ctx, r.Templates, name, SheetContext(sheet), w)
}

// SheetContext exposes sheet geometry to templates. Lengths are millimetres.
func SheetContext(sheet qrpdf.Sheet) pongo2.Context {
	return pongo2.Context{
		"page_size":    sheet.PageSize,
		"page_width":   formatFloat(sheet.PageWidth),
		"page_height":  formatFloat(sheet.PageHeight),
		"image":        sheet.ImageDataURI(),
		"image_x":      formatFloat(sheet.ImageX),
		"image_y":      formatFloat(sheet.ImageY),
		"image_size":   formatFloat(sheet.ImageSize),
		"title":        sheet.Title,
		"title_size":   formatFloat(sheet.TitleSize),
		"title_top":    formatFloat(sheet.TitleY - sheet.TitleSize*ptToMM),
		"caption":      sheet.Caption,
		"caption_size": formatFloat(sheet.CaptionSize),
		"caption_top":  formatFloat(sheet.CaptionY - sheet.CaptionSize*ptToMM),
	}
}

// PageRenderer renders the interactive generator page.
type PageRenderer struct {
	Templates    TemplateExecutor
	TemplateName string
	Title        string
}

// NewPageRenderer returns a PageRenderer backed by the embedded templates.
func NewPageRenderer() PageRenderer {
	return PageRenderer{Templates: NewPongo2Executor(nil), TemplateName: PageTemplateName}
}

// RenderPage writes the page for the given selectable options.
func (r PageRenderer) RenderPage(ctx context.Context, opts qrcode.Options, w io.Writer) error {
	if r.Templates == nil {
		return qrcode.NewError(qrcode.KindValidation, "page renderer requires templates", nil)
	}
	name := r.TemplateName
	if name == "" {
		name = PageTemplateName
	}
	title := r.Title
	if title == "" {
		title = DefaultPageTitle
	}
	return execute(ctx, r.Templates, name, PageContext(title, opts), w)
}

// PageContext flattens options into template values.
func PageContext(title string, opts qrcode.Options) pongo2.Context {
	style := opts.Style.Normalize()
	// Corners follow the dots colour unless a distinct one is configured.
	cornerFollow := strings.EqualFold(style.CornerSquareColor, style.Foreground) &&
		strings.EqualFold(style.CornerDotColor, style.Foreground)
	contentTypes := stringsOf(opts.ContentTypes)
	defaultContent := ""
	if len(contentTypes) > 0 {
		defaultContent = contentTypes[0]
	}
	return pongo2.Context{
		"title":                title,
		"content_types":        contentTypes,
		"default_content_type": defaultContent,
		"wifi_security":        stringsOf(opts.WiFiSecurity),
		"dot_types":            stringsOf(opts.DotTypes),
		"corner_square_types":  stringsOf(opts.CornerSquareTypes),
		"corner_dot_types":     stringsOf(opts.CornerDotTypes),
		"error_correction":     stringsOf(opts.ErrorCorrection),
		"formats":              stringsOf(opts.Formats),
		"default_format":       defaultFormat(opts.Formats),
		"min_resolution":       opts.MinResolution,
		"max_resolution":       opts.MaxResolution,
		"default_resolution":   opts.DefaultResolution,
		"resolution_step":      opts.ResolutionStep,
		"preview_size":         opts.PreviewSize,
		"style": map[string]any{
			"foreground":           style.Foreground,
			"background":           style.Background,
			"corner_square_color":  style.CornerSquareColor,
			"corner_dot_color":     style.CornerDotColor,
			"corner_colors_follow": cornerFollow,
			"dot_type":             string(style.DotType),
			"corner_square_type":   string(style.CornerSquareType),
			"corner_dot_type":      string(style.CornerDotType),
			"error_correction":     string(style.ErrorCorrection),
			"logo_size":            formatFloat(style.LogoSize),
			"logo_margin":          style.LogoMarginPx(),
		},
		"messages": map[string]any{
			"empty":     qrcode.MsgEmptyContent,
			"not_ready": qrcode.MsgNotReady,
			"failed":    qrcode.MsgExportFailed,
		},
	}
}

func execute(ctx context.Context, tmpl TemplateExecutor, name string, data pongo2.Context, w io.Writer) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func defaultFormat(formats []qrcode.Format) string {
	if slices.Contains(formats, qrcode.FormatPNG) {
		return string(qrcode.FormatPNG)
	}
	if len(formats) > 0 {
		return string(formats[0])
	}
	return ""
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
