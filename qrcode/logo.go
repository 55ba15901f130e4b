package qrcode

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/webp"
)

// Logo is a decoded logo image plus the bytes used to embed it.
type Logo struct {
	Image     image.Image
	MediaType string
	Data      []byte
}

// DecodeLogo decodes a data URI or raw image bytes.
func DecodeLogo(raw []byte) (*Logo, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	data := raw
	mediaType := ""
	if bytes.HasPrefix(raw, []byte("data:")) {
		var err error
		mediaType, data, err = parseDataURI(string(raw))
		if err != nil {
			return nil, err
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewError(KindValidation, "unsupported logo image", err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, NewError(KindValidation, "logo image is empty", nil)
	}
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/" + format
	}
	return &Logo{Image: img, MediaType: mediaType, Data: data}, nil
}

// DataURI returns the logo as a base64 data URI.
func (l *Logo) DataURI() string {
	if l == nil {
		return ""
	}
	return "data:" + l.MediaType + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

func parseDataURI(uri string) (string, []byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", nil, NewError(KindValidation, "malformed logo data uri", nil)
	}
	params := strings.Split(header, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return "", nil, NewError(KindValidation, "malformed logo data uri", err)
		}
		return mediaType, decoded, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, NewError(KindValidation, "malformed logo data uri", err)
	}
	return mediaType, []byte(unescaped), nil
}
