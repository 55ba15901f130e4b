package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	"github.com/goliatone/go-qrexport/command"
	"github.com/goliatone/go-qrexport/qrcode"
)

type generateFlags struct {
	contentType string
	url         string
	text        string

	ssid     string
	password string
	security string
	hidden   bool

	name  string
	phone string
	email string
	org   string

	format     string
	resolution int
	out        string
	filename   string

	foreground        string
	background        string
	cornerSquareColor string
	cornerDotColor    string
	dotType           string
	cornerSquareType  string
	cornerDotType     string
	errorCorrection   string
	margin            int
	logo              string
	logoSize          float64
	logoMargin        int
	backgroundDots    bool
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a single QR code file",
	Long: `Renders one QR code and writes it below the configured output directory.

Examples:
  qrexport generate --url https://example.com --format png
  qrexport generate --type wifi --ssid Office --password secret --format pdf
  qrexport generate --type vcard --name "Ada" --email ada@example.com --logo logo.png`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.contentType, "type", string(qrcode.ContentURL), "content type: url, text, wifi or vcard")
	f.StringVar(&genFlags.url, "url", "", "URL to encode")
	f.StringVar(&genFlags.text, "text", "", "free text to encode")

	f.StringVar(&genFlags.ssid, "ssid", "", "WiFi network name")
	f.StringVar(&genFlags.password, "password", "", "WiFi password")
	f.StringVar(&genFlags.security, "security", string(qrcode.SecurityWPA), "WiFi security: WPA, WEP or nopass")
	f.BoolVar(&genFlags.hidden, "hidden", false, "WiFi network is hidden")

	f.StringVar(&genFlags.name, "name", "", "contact name")
	f.StringVar(&genFlags.phone, "phone", "", "contact phone")
	f.StringVar(&genFlags.email, "email", "", "contact email")
	f.StringVar(&genFlags.org, "org", "", "contact organization")

	f.StringVarP(&genFlags.format, "format", "f", string(qrcode.FormatPNG), "output format: svg, png, jpeg or pdf")
	f.IntVarP(&genFlags.resolution, "resolution", "r", 0, "output size in pixels (0 uses the default)")
	f.StringVarP(&genFlags.out, "out", "o", "", "output key relative to the output directory")
	f.StringVar(&genFlags.filename, "filename", "", "suggested filename when --out is empty")

	f.StringVar(&genFlags.foreground, "fg", "", "dot color")
	f.StringVar(&genFlags.background, "bg", "", "background color")
	f.StringVar(&genFlags.cornerSquareColor, "corner-square-color", "", "finder frame color")
	f.StringVar(&genFlags.cornerDotColor, "corner-dot-color", "", "finder center color")
	f.StringVar(&genFlags.dotType, "dot-type", "", "dot shape")
	f.StringVar(&genFlags.cornerSquareType, "corner-square-type", "", "finder frame shape")
	f.StringVar(&genFlags.cornerDotType, "corner-dot-type", "", "finder center shape")
	f.StringVar(&genFlags.errorCorrection, "ec", "", "error correction level: L, M, Q or H")
	f.IntVar(&genFlags.margin, "margin", 0, "quiet zone in pixels")
	f.StringVar(&genFlags.logo, "logo", "", "path to a logo image")
	f.Float64Var(&genFlags.logoSize, "logo-size", 0, "logo size as a fraction of the symbol")
	f.IntVar(&genFlags.logoMargin, "logo-margin", 0, "clear margin around the logo in pixels")
	f.BoolVar(&genFlags.backgroundDots, "background-dots", false, "keep dots behind the logo")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	style, err := genFlags.style(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.ready(ctx, cfg.Render.WarmTimeout); err != nil {
		return err
	}

	ref, err := dispatcher.DispatchWithResult[command.SaveQRCode, storefs.ArtifactRef](ctx, command.SaveQRCode{
		Key: genFlags.out,
		Request: qrcode.ExportRequest{
			Form:       genFlags.form(),
			Style:      style,
			Format:     qrcode.Format(genFlags.format),
			Resolution: genFlags.resolution,
			Filename:   genFlags.filename,
		},
	})
	if err != nil {
		return err
	}
	logger.Debugf("qrcode saved id=%s bytes=%d", ref.Meta.ID, ref.Meta.Size)
	fmt.Fprintln(cmd.OutOrStdout(), ref.Path)
	return nil
}

func (g generateFlags) form() qrcode.Form {
	return qrcode.Form{
		ContentType: qrcode.ContentType(g.contentType),
		URL:         g.url,
		Text:        g.text,
		WiFi: qrcode.WiFi{
			SSID:     g.ssid,
			Password: g.password,
			Security: qrcode.WiFiSecurity(g.security),
			Hidden:   g.hidden,
		},
		VCard: qrcode.VCard{
			Name:  g.name,
			Phone: g.phone,
			Email: g.email,
			Org:   g.org,
		},
	}
}

func (g generateFlags) style(cmd *cobra.Command) (qrcode.Style, error) {
	style := qrcode.Style{
		Foreground:         g.foreground,
		Background:         g.background,
		CornerSquareColor:  g.cornerSquareColor,
		CornerDotColor:     g.cornerDotColor,
		DotType:            qrcode.DotType(g.dotType),
		CornerSquareType:   qrcode.CornerSquareType(g.cornerSquareType),
		CornerDotType:      qrcode.CornerDotType(g.cornerDotType),
		ErrorCorrection:    qrcode.ErrorCorrection(g.errorCorrection),
		Margin:             g.margin,
		LogoSize:           g.logoSize,
		ShowBackgroundDots: g.backgroundDots,
	}
	if cmd.Flags().Changed("logo-margin") {
		style.LogoMargin = qrcode.Pixels(g.logoMargin)
	}
	if g.logo != "" {
		data, err := os.ReadFile(g.logo)
		if err != nil {
			return style, fmt.Errorf("read logo: %w", err)
		}
		style.Logo = data
	}
	return style, nil
}
