package qrcode

import (
	"fmt"
	"strings"
)

var wifiEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`:`, `\:`,
	`"`, `\"`,
)

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// NormalizeContentType coerces content type values, defaulting to url.
func NormalizeContentType(ct ContentType) ContentType {
	normalized := strings.ToLower(strings.TrimSpace(string(ct)))
	switch normalized {
	case "":
		return ContentURL
	case "contact", "vcf":
		return ContentVCard
	default:
		return ContentType(normalized)
	}
}

// NormalizeSecurity coerces WiFi security values, defaulting to WPA.
func NormalizeSecurity(sec WiFiSecurity) (WiFiSecurity, error) {
	switch strings.ToUpper(strings.TrimSpace(string(sec))) {
	case "", "WPA", "WPA2", "WPA/WPA2":
		return SecurityWPA, nil
	case "WEP":
		return SecurityWEP, nil
	case "NOPASS", "NONE":
		return SecurityNoPass, nil
	default:
		return "", NewError(KindValidation, fmt.Sprintf("unsupported wifi security %q", sec), nil)
	}
}

// BuildPayload derives the string encoded in the QR code from the form.
// It returns ErrEmptyContent when the form carries nothing to encode.
func BuildPayload(form Form) (string, error) {
	switch NormalizeContentType(form.ContentType) {
	case ContentURL:
		if strings.TrimSpace(form.URL) == "" {
			return "", ErrEmptyContent
		}
		return form.URL, nil
	case ContentText:
		if strings.TrimSpace(form.Text) == "" {
			return "", ErrEmptyContent
		}
		return form.Text, nil
	case ContentWiFi:
		return wifiPayload(form.WiFi)
	case ContentVCard:
		return vcardPayload(form.VCard)
	default:
		return "", NewError(KindValidation, fmt.Sprintf("unsupported content type %q", form.ContentType), nil)
	}
}

func wifiPayload(w WiFi) (string, error) {
	if w.SSID == "" && w.Password == "" {
		return "", ErrEmptyContent
	}
	sec, err := NormalizeSecurity(w.Security)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(string(sec))
	b.WriteString(";S:")
	b.WriteString(wifiEscaper.Replace(w.SSID))
	b.WriteString(";P:")
	b.WriteString(wifiEscaper.Replace(w.Password))
	b.WriteString(";")
	if w.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String(), nil
}

func vcardPayload(v VCard) (string, error) {
	if v.Name == "" && v.Phone == "" && v.Email == "" && v.Org == "" {
		return "", ErrEmptyContent
	}
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + vcardEscaper.Replace(v.Name),
		"TEL:" + vcardEscaper.Replace(v.Phone),
		"EMAIL:" + vcardEscaper.Replace(v.Email),
		"ORG:" + vcardEscaper.Replace(v.Org),
		"END:VCARD",
	}
	return strings.Join(lines, "\n"), nil
}
