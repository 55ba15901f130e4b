package qrcode

import (
	"fmt"
	"image/color"
	"slices"
	"strings"
)

// DotType selects the shape of data modules.
type DotType string

const (
	DotSquare        DotType = "square"
	DotDots          DotType = "dots"
	DotRounded       DotType = "rounded"
	DotExtraRounded  DotType = "extra-rounded"
	DotClassy        DotType = "classy"
	DotClassyRounded DotType = "classy-rounded"
	DotClassyDot     DotType = "classy-dot"
)

// CornerSquareType selects the shape of the 7x7 finder frames.
type CornerSquareType string

const (
	CornerSquareSquare       CornerSquareType = "square"
	CornerSquareDot          CornerSquareType = "dot"
	CornerSquareExtraRounded CornerSquareType = "extra-rounded"
)

// CornerDotType selects the shape of the 3x3 finder centers.
type CornerDotType string

const (
	CornerDotSquare  CornerDotType = "square"
	CornerDotDot     CornerDotType = "dot"
	CornerDotRounded CornerDotType = "rounded"
)

// ErrorCorrection is the QR error correction level.
type ErrorCorrection string

const (
	ErrorCorrectionL ErrorCorrection = "L"
	ErrorCorrectionM ErrorCorrection = "M"
	ErrorCorrectionQ ErrorCorrection = "Q"
	ErrorCorrectionH ErrorCorrection = "H"
)

// DotTypes lists the supported dot types in display order.
var DotTypes = []DotType{DotSquare, DotDots, DotRounded, DotExtraRounded, DotClassy, DotClassyRounded, DotClassyDot}

// CornerSquareTypes lists the supported corner frame types.
var CornerSquareTypes = []CornerSquareType{CornerSquareSquare, CornerSquareExtraRounded, CornerSquareDot}

// CornerDotTypes lists the supported corner dot types.
var CornerDotTypes = []CornerDotType{CornerDotSquare, CornerDotDot, CornerDotRounded}

// ErrorCorrectionLevels lists the supported error correction levels.
var ErrorCorrectionLevels = []ErrorCorrection{ErrorCorrectionL, ErrorCorrectionM, ErrorCorrectionQ, ErrorCorrectionH}

const (
	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"
	DefaultLogoSize   = 0.4
	DefaultLogoMargin = 20
)

// Style configures how the matrix is drawn.
type Style struct {
	Foreground        string           `yaml:"foreground"`
	Background        string           `yaml:"background"`
	CornerSquareColor string           `yaml:"corner_square_color"`
	CornerDotColor    string           `yaml:"corner_dot_color"`
	DotType           DotType          `yaml:"dot_type"`
	CornerSquareType  CornerSquareType `yaml:"corner_square_type"`
	CornerDotType     CornerDotType    `yaml:"corner_dot_type"`
	ErrorCorrection   ErrorCorrection  `yaml:"error_correction"`
	Margin            int              `yaml:"margin"`

	// Logo holds raw image bytes or a data URI.
	Logo               []byte  `yaml:"-"`
	LogoSize           float64 `yaml:"logo_size"`
	LogoMargin         *int    `yaml:"logo_margin"` // nil means DefaultLogoMargin
	ShowBackgroundDots bool    `yaml:"show_background_dots"`
}

// Pixels returns a pointer to px, for optional pixel fields such as
// Style.LogoMargin.
func Pixels(px int) *int {
	return &px
}

// LogoMarginPx returns the logo margin, falling back to DefaultLogoMargin.
func (s Style) LogoMarginPx() int {
	if s.LogoMargin == nil {
		return DefaultLogoMargin
	}
	return *s.LogoMargin
}

// DefaultStyle returns the style used when nothing is selected.
func DefaultStyle() Style {
	return Style{}.Normalize()
}

// Normalize returns a copy with defaults applied.
func (s Style) Normalize() Style {
	out := s
	if strings.TrimSpace(out.Foreground) == "" {
		out.Foreground = DefaultForeground
	}
	if strings.TrimSpace(out.Background) == "" {
		out.Background = DefaultBackground
	}
	if strings.TrimSpace(out.CornerSquareColor) == "" {
		out.CornerSquareColor = out.Foreground
	}
	if strings.TrimSpace(out.CornerDotColor) == "" {
		out.CornerDotColor = out.Foreground
	}
	out.DotType = DotType(normalizeEnum(string(out.DotType), string(DotSquare)))
	out.CornerSquareType = CornerSquareType(normalizeEnum(string(out.CornerSquareType), string(CornerSquareSquare)))
	out.CornerDotType = CornerDotType(normalizeEnum(string(out.CornerDotType), string(CornerDotSquare)))
	ec := strings.ToUpper(strings.TrimSpace(string(out.ErrorCorrection)))
	if ec == "" {
		ec = string(ErrorCorrectionQ)
	}
	out.ErrorCorrection = ErrorCorrection(ec)
	if out.LogoSize == 0 {
		out.LogoSize = DefaultLogoSize
	}
	if out.LogoMargin == nil {
		out.LogoMargin = Pixels(DefaultLogoMargin)
	}
	return out
}

// Validate checks enum values, colors and numeric bounds.
func (s Style) Validate() error {
	if !slices.Contains(DotTypes, s.DotType) {
		return NewError(KindValidation, fmt.Sprintf("unsupported dot type %q", s.DotType), nil)
	}
	if !slices.Contains(CornerSquareTypes, s.CornerSquareType) {
		return NewError(KindValidation, fmt.Sprintf("unsupported corner square type %q", s.CornerSquareType), nil)
	}
	if !slices.Contains(CornerDotTypes, s.CornerDotType) {
		return NewError(KindValidation, fmt.Sprintf("unsupported corner dot type %q", s.CornerDotType), nil)
	}
	if _, err := qrLevel(s.ErrorCorrection); err != nil {
		return err
	}
	for _, value := range []string{s.Foreground, s.Background, s.CornerSquareColor, s.CornerDotColor} {
		if _, err := ParseHexColor(value); err != nil {
			return err
		}
	}
	if s.Margin < 0 {
		return NewError(KindValidation, "margin must not be negative", nil)
	}
	if s.LogoMargin != nil && *s.LogoMargin < 0 {
		return NewError(KindValidation, "logo margin must not be negative", nil)
	}
	if s.LogoSize <= 0 || s.LogoSize > 1 {
		return NewError(KindValidation, "logo size must be within (0, 1]", nil)
	}
	return nil
}

// Palette holds the parsed colors of a style.
type Palette struct {
	Foreground   color.NRGBA
	Background   color.NRGBA
	CornerSquare color.NRGBA
	CornerDot    color.NRGBA
}

// Palette parses the style colors.
func (s Style) Palette() (Palette, error) {
	var p Palette
	var err error
	if p.Foreground, err = ParseHexColor(s.Foreground); err != nil {
		return Palette{}, err
	}
	if p.Background, err = ParseHexColor(s.Background); err != nil {
		return Palette{}, err
	}
	if p.CornerSquare, err = ParseHexColor(s.CornerSquareColor); err != nil {
		return Palette{}, err
	}
	if p.CornerDot, err = ParseHexColor(s.CornerDotColor); err != nil {
		return Palette{}, err
	}
	return p, nil
}

func normalizeEnum(value, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, "_", "-")
	if v == "" {
		return fallback
	}
	return v
}
