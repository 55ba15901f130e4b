// Package qrsvg renders qrcode drawings as standalone SVG documents.
//
// Each layer becomes a single <path> filled with the nonzero rule; the logo is
// embedded as a base64 data URI so the document has no external references.
package qrsvg
