package qrhttp

import (
	"bytes"
	"encoding/json"

	"github.com/goliatone/go-qrexport/qrcode"
)

type previewPayload struct {
	Form  formPayload  `json:"form"`
	Style stylePayload `json:"style,omitempty"`
}

type exportPayload struct {
	Form       formPayload   `json:"form"`
	Style      stylePayload  `json:"style,omitempty"`
	Format     qrcode.Format `json:"format,omitempty"`
	Resolution int           `json:"resolution,omitempty"`
	Filename   string        `json:"filename,omitempty"`
}

type formPayload struct {
	ContentType qrcode.ContentType `json:"content_type,omitempty"`
	URL         string             `json:"url,omitempty"`
	Text        string             `json:"text,omitempty"`
	WiFi        wifiPayload        `json:"wifi,omitempty"`
	VCard       vcardPayload       `json:"vcard,omitempty"`
}

type wifiPayload struct {
	SSID     string              `json:"ssid,omitempty"`
	Password string              `json:"password,omitempty"`
	Security qrcode.WiFiSecurity `json:"security,omitempty"`
	Hidden   bool                `json:"hidden,omitempty"`
}

type vcardPayload struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Org   string `json:"org,omitempty"`
}

func (p formPayload) toForm() qrcode.Form {
	return qrcode.Form{
		ContentType: p.ContentType,
		URL:         p.URL,
		Text:        p.Text,
		WiFi: qrcode.WiFi{
			SSID:     p.WiFi.SSID,
			Password: p.WiFi.Password,
			Security: p.WiFi.Security,
			Hidden:   p.WiFi.Hidden,
		},
		VCard: qrcode.VCard{
			Name:  p.VCard.Name,
			Phone: p.VCard.Phone,
			Email: p.VCard.Email,
			Org:   p.VCard.Org,
		},
	}
}

type stylePayload struct {
	Foreground         string                  `json:"foreground,omitempty"`
	Background         string                  `json:"background,omitempty"`
	CornerSquareColor  string                  `json:"corner_square_color,omitempty"`
	CornerDotColor     string                  `json:"corner_dot_color,omitempty"`
	DotType            qrcode.DotType          `json:"dot_type,omitempty"`
	CornerSquareType   qrcode.CornerSquareType `json:"corner_square_type,omitempty"`
	CornerDotType      qrcode.CornerDotType    `json:"corner_dot_type,omitempty"`
	ErrorCorrection    qrcode.ErrorCorrection  `json:"error_correction,omitempty"`
	Margin             int                     `json:"margin,omitempty"`
	Logo               string                  `json:"logo,omitempty"`
	LogoSize           float64                 `json:"logo_size,omitempty"`
	LogoMargin         *int                    `json:"logo_margin,omitempty"`
	ShowBackgroundDots bool                    `json:"show_background_dots,omitempty"`
}

func (p stylePayload) toStyle() qrcode.Style {
	style := qrcode.Style{
		Foreground:         p.Foreground,
		Background:         p.Background,
		CornerSquareColor:  p.CornerSquareColor,
		CornerDotColor:     p.CornerDotColor,
		DotType:            p.DotType,
		CornerSquareType:   p.CornerSquareType,
		CornerDotType:      p.CornerDotType,
		ErrorCorrection:    p.ErrorCorrection,
		Margin:             p.Margin,
		LogoSize:           p.LogoSize,
		LogoMargin:         p.LogoMargin,
		ShowBackgroundDots: p.ShowBackgroundDots,
	}
	if p.Logo != "" {
		style.Logo = []byte(p.Logo)
	}
	return style
}

func stylePayloadFrom(style qrcode.Style) stylePayload {
	return stylePayload{
		Foreground:         style.Foreground,
		Background:         style.Background,
		CornerSquareColor:  style.CornerSquareColor,
		CornerDotColor:     style.CornerDotColor,
		DotType:            style.DotType,
		CornerSquareType:   style.CornerSquareType,
		CornerDotType:      style.CornerDotType,
		ErrorCorrection:    style.ErrorCorrection,
		Margin:             style.Margin,
		LogoSize:           style.LogoSize,
		LogoMargin:         qrcode.Pixels(style.LogoMarginPx()),
		ShowBackgroundDots: style.ShowBackgroundDots,
	}
}

func decodePayload(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return qrcode.NewError(qrcode.KindValidation, "request body is required", nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return qrcode.NewError(qrcode.KindValidation, "invalid request payload", err)
	}
	return nil
}
