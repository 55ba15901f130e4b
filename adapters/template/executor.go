package qrtemplate

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-qrexport/qrcode"
)

const (
	SheetTemplateName = "sheet.html"
	PageTemplateName  = "page.html"
)

//go:embed templates/*.html
var embedded embed.FS

// Templates returns the embedded template file system.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Pongo2Executor executes Django-style templates loaded from a file system.
type Pongo2Executor struct {
	set *pongo2.TemplateSet
}

// NewPongo2Executor loads templates from fsys, or the embedded set when nil.
func NewPongo2Executor(fsys fs.FS) *Pongo2Executor {
	if fsys == nil {
		fsys = Templates()
	}
	return &Pongo2Executor{set: pongo2.NewSet("qrexport", pongo2.NewFSLoader(fsys))}
}

// ExecuteTemplate renders name with data, which must be a map.
func (e *Pongo2Executor) ExecuteTemplate(w io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return qrcode.NewError(qrcode.KindInternal, "template executor is nil", nil)
	}
	ctx, err := pongoContext(data)
	if err != nil {
		return err
	}
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return qrcode.NewError(qrcode.KindNotFound, fmt.Sprintf("template %q unavailable", name), err)
	}
	return tpl.ExecuteWriter(ctx, w)
}

func pongoContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, qrcode.NewError(qrcode.KindValidation, fmt.Sprintf("template data must be a map, got %T", data), nil)
	}
}
