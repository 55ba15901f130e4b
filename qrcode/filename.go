package qrcode

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"
	"time"
)

// DefaultFilename is the base name used when no template is configured.
const DefaultFilename = "qrcode"

type filenameData struct {
	ID          string
	Format      string
	ContentType string
	Timestamp   string
	Date        string
}

func renderFilename(name string, id string, format Format, contentType ContentType, now time.Time) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultFilename
	}

	data := filenameData{
		ID:          id,
		Format:      string(format),
		ContentType: string(contentType),
		Timestamp:   now.UTC().Format("20060102T150405Z"),
		Date:        now.UTC().Format("20060102"),
	}

	tmpl, err := template.New("filename").Option("missingkey=error").Parse(name)
	if err != nil {
		return "", NewError(KindValidation, "invalid filename template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewError(KindValidation, "invalid filename template", err)
	}

	result := path.Base(strings.ReplaceAll(strings.TrimSpace(buf.String()), `\`, "/"))
	if result == "" || result == "." || result == "/" {
		return "", NewError(KindValidation, fmt.Sprintf("filename %q is empty", name), nil)
	}

	ext := "." + ExtensionForFormat(format)
	lower := strings.ToLower(result)
	if !strings.HasSuffix(lower, ext) && !(format == FormatJPEG && strings.HasSuffix(lower, ".jpeg")) {
		result += ext
	}
	return result, nil
}
