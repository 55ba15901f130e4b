// Package qrtemplate renders the HTML surfaces of the exporter with pongo2.
//
// SheetRenderer produces the printable A4 page consumed by HTML-to-PDF
// engines (wkhtmltopdf, headless Chromium). PageRenderer produces the
// interactive generator page served at "/". Both execute templates through a
// TemplateExecutor; Pongo2Executor loads the embedded templates by default,
// and any executor exposing ExecuteTemplate (html/template included) can be
// substituted.
package qrtemplate
