// Package qrhttp serves the generator page and its JSON API on Fiber.
//
// Routes:
//
//	GET  /             generator page
//	POST /api/preview  SVG preview, 204 when there is nothing to encode
//	POST /api/export   rendered file as an attachment
//	GET  /api/options  selectable values and resolution bounds
//	GET  /health       readiness
//
// Errors are returned as {"error":{"message","code"}} with the status derived
// from the go-errors category and text code.
package qrhttp
