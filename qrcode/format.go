package qrcode

import "strings"

// NormalizeFormat coerces format values into known aliases with defaults applied.
func NormalizeFormat(format Format) Format {
	normalized := strings.ToLower(strings.TrimSpace(string(format)))
	switch normalized {
	case "", string(FormatPNG):
		return FormatPNG
	case "jpg":
		return FormatJPEG
	case "svg+xml":
		return FormatSVG
	default:
		return Format(normalized)
	}
}

// ContentTypeForFormat returns the MIME type for a format.
func ContentTypeForFormat(format Format) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ExtensionForFormat returns the file extension for a format.
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatJPEG:
		return "jpg"
	case "":
		return string(FormatPNG)
	default:
		return string(format)
	}
}
