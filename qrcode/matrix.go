package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// finderSize is the side of a finder pattern in modules.
const finderSize = 7

// Matrix is an encoded QR symbol without quiet zone.
type Matrix struct {
	bits [][]bool
}

// Encode encodes the payload at the given error correction level.
func Encode(payload string, level ErrorCorrection) (*Matrix, error) {
	if payload == "" {
		return nil, ErrEmptyContent
	}
	lvl, err := qrLevel(level)
	if err != nil {
		return nil, err
	}
	code, err := goqrcode.New(payload, lvl)
	if err != nil {
		return nil, NewError(KindValidation, "content is too long to encode", err)
	}
	code.DisableBorder = true
	return &Matrix{bits: code.Bitmap()}, nil
}

// NewMatrix wraps a precomputed bitmap indexed [row][col].
func NewMatrix(bits [][]bool) *Matrix {
	return &Matrix{bits: bits}
}

// Size returns the number of modules per side.
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return len(m.bits)
}

// Dark reports whether the module is dark. Out of range modules are light.
func (m *Matrix) Dark(row, col int) bool {
	if m == nil || row < 0 || col < 0 || row >= len(m.bits) || col >= len(m.bits[row]) {
		return false
	}
	return m.bits[row][col]
}

// InFinder reports whether the module belongs to one of the three finder patterns.
func (m *Matrix) InFinder(row, col int) bool {
	n := m.Size()
	top := row < finderSize
	left := col < finderSize
	right := col >= n-finderSize
	bottom := row >= n-finderSize
	return (top && left) || (top && right) || (bottom && left)
}

func qrLevel(level ErrorCorrection) (goqrcode.RecoveryLevel, error) {
	switch level {
	case ErrorCorrectionL:
		return goqrcode.Low, nil
	case ErrorCorrectionM:
		return goqrcode.Medium, nil
	case ErrorCorrectionQ, "":
		return goqrcode.High, nil
	case ErrorCorrectionH:
		return goqrcode.Highest, nil
	default:
		return 0, NewError(KindValidation, fmt.Sprintf("unsupported error correction level %q", level), nil)
	}
}

// errorCorrectionShare is the fraction of codewords each level can restore.
func errorCorrectionShare(level ErrorCorrection) float64 {
	switch level {
	case ErrorCorrectionL:
		return 0.07
	case ErrorCorrectionM:
		return 0.15
	case ErrorCorrectionH:
		return 0.30
	default:
		return 0.25
	}
}
