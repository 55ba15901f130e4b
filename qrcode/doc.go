// Package qrcode turns form input into styled QR code drawings.
//
// BuildPayload derives the encoded string from a Form (url, text, wifi or
// vcard). Encode produces the module matrix, Layout turns it into a Drawing of
// filled paths according to a Style, and registered Renderers write the
// Drawing as SVG, PNG, JPEG or PDF. Service ties these together, gating
// Preview and Export until Init has warmed every renderer.
package qrcode
