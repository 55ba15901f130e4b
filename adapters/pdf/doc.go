// Package qrpdf renders qrcode drawings into single page PDF documents.
//
// The drawing is rasterized to PNG and placed on a Sheet that mirrors the
// printable layout: the code centred near the top of an A4 portrait page with
// a "QR Code" title and a content caption underneath. The Sheet is handed to a
// pluggable Engine. DocumentEngine writes the PDF natively with gofpdf;
// ChromiumEngine and WKHTMLTOPDFEngine convert the sheet's HTML form, which
// requires Renderer.HTMLRenderer. Rendering is gated by Renderer.Enabled.
package qrpdf
