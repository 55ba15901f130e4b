package qrcode

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses #rgb, #rgba, #rrggbb, #rrggbbaa or "transparent".
func ParseHexColor(value string) (color.NRGBA, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "transparent" {
		return color.NRGBA{}, nil
	}
	hex, ok := strings.CutPrefix(raw, "#")
	if !ok {
		return color.NRGBA{}, NewError(KindValidation, fmt.Sprintf("invalid color %q", value), nil)
	}

	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, NewError(KindValidation, fmt.Sprintf("invalid color %q", value), nil)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, NewError(KindValidation, fmt.Sprintf("invalid color %q", value), err)
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}

// HexRGB formats the color channels as #rrggbb, ignoring alpha.
func HexRGB(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
