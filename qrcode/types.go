package qrcode

import (
	"context"
	"io"
)

// Format is the output format of a rendered QR code.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ContentType selects which form fields feed the payload.
type ContentType string

const (
	ContentURL   ContentType = "url"
	ContentText  ContentType = "text"
	ContentWiFi  ContentType = "wifi"
	ContentVCard ContentType = "vcard"
)

// WiFiSecurity is the authentication type announced in a WiFi payload.
type WiFiSecurity string

const (
	SecurityWPA    WiFiSecurity = "WPA"
	SecurityWEP    WiFiSecurity = "WEP"
	SecurityNoPass WiFiSecurity = "nopass"
)

// WiFi holds network credentials.
type WiFi struct {
	SSID     string       `yaml:"ssid"`
	Password string       `yaml:"password"`
	Security WiFiSecurity `yaml:"security"`
	Hidden   bool         `yaml:"hidden"`
}

// VCard holds contact card fields.
type VCard struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
	Org   string `yaml:"org"`
}

// Form captures the user-entered content.
type Form struct {
	ContentType ContentType `yaml:"content_type"`
	URL         string      `yaml:"url"`
	Text        string      `yaml:"text"`
	WiFi        WiFi        `yaml:"wifi"`
	VCard       VCard       `yaml:"vcard"`
}

const (
	DefaultPreviewSize   = 300
	DefaultResolution    = 3000
	DefaultMinResolution = 1000
	DefaultMaxResolution = 4000
)

// ExportRequest captures a single export.
type ExportRequest struct {
	Form       Form
	Style      Style
	Format     Format
	Resolution int
	Filename   string
	Output     io.Writer
}

// ExportResult describes a completed export.
type ExportResult struct {
	ID          string
	Format      Format
	Filename    string
	ContentType string
	Payload     string
	Resolution  int
	Bytes       int64
}

// Preview is the live preview output.
type Preview struct {
	Empty   bool
	SVG     []byte
	Payload string
}

// RenderStats captures renderer output.
type RenderStats struct {
	Bytes int64
}

// Renderer writes a drawing to the destination.
type Renderer interface {
	Render(ctx context.Context, d Drawing, w io.Writer) (RenderStats, error)
}

// Warmer is implemented by renderers that need preparation before first use.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
