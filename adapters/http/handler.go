package qrhttp

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-qrexport/qrcode"
)

// Service is the subset of qrcode.Service the handler needs.
type Service interface {
	Ready() bool
	Formats() []qrcode.Format
	Options() qrcode.Options
	Preview(ctx context.Context, form qrcode.Form, style qrcode.Style) (qrcode.Preview, error)
	Export(ctx context.Context, req qrcode.ExportRequest) (qrcode.ExportResult, error)
}

// PageRenderer renders the generator page.
type PageRenderer interface {
	RenderPage(ctx context.Context, opts qrcode.Options, w io.Writer) error
}

// Config configures the HTTP handler.
type Config struct {
	Service Service
	Page    PageRenderer
	Logger  qrcode.Logger
}

// Handler exposes the generator page and its JSON API.
type Handler struct {
	service Service
	page    PageRenderer
	logger  qrcode.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = qrcode.NopLogger{}
	}
	return &Handler{service: cfg.Service, page: cfg.Page, logger: logger}
}

// RegisterRoutes registers the page, API and health routes.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Page)
	router.Get("/health", h.Health)
	api := router.Group("/api")
	api.Get("/options", h.Options)
	api.Post("/preview", h.Preview)
	api.Post("/export", h.Export)
}

// Page serves the interactive generator.
func (h *Handler) Page(c *fiber.Ctx) error {
	if err := h.check(); err != nil {
		return WriteError(c, err)
	}
	if h.page == nil {
		return WriteError(c, qrcode.NewError(qrcode.KindNotImpl, "page renderer is not configured", nil))
	}
	var buf bytes.Buffer
	if err := h.page.RenderPage(c.UserContext(), h.service.Options(), &buf); err != nil {
		h.logger.Errorf("page render failed err=%v", err)
		return WriteError(c, err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Preview renders the SVG preview. Empty content answers 204.
func (h *Handler) Preview(c *fiber.Ctx) error {
	if err := h.check(); err != nil {
		return WriteError(c, err)
	}
	var payload previewPayload
	if err := decodePayload(c.Body(), &payload); err != nil {
		return WriteError(c, err)
	}
	preview, err := h.service.Preview(c.UserContext(), payload.Form.toForm(), payload.Style.toStyle())
	if err != nil {
		if !errors.Is(err, qrcode.ErrNotReady) {
			h.logger.Debugf("preview failed err=%v", err)
		}
		return WriteError(c, err)
	}
	if preview.Empty {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, qrcode.ContentTypeForFormat(qrcode.FormatSVG))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(preview.SVG)
}

// Export renders the requested file and returns it as an attachment.
func (h *Handler) Export(c *fiber.Ctx) error {
	if err := h.check(); err != nil {
		return WriteError(c, err)
	}
	var payload exportPayload
	if err := decodePayload(c.Body(), &payload); err != nil {
		return WriteError(c, err)
	}

	var buf bytes.Buffer
	result, err := h.service.Export(c.UserContext(), qrcode.ExportRequest{
		Form:       payload.Form.toForm(),
		Style:      payload.Style.toStyle(),
		Format:     payload.Format,
		Resolution: payload.Resolution,
		Filename:   payload.Filename,
		Output:     &buf,
	})
	if err != nil {
		return WriteError(c, err)
	}

	c.Attachment(result.Filename)
	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set("X-Export-ID", result.ID)
	return c.Send(buf.Bytes())
}

// Options returns the selectable values as JSON.
func (h *Handler) Options(c *fiber.Ctx) error {
	if err := h.check(); err != nil {
		return WriteError(c, err)
	}
	opts := h.service.Options()
	return c.JSON(optionsResponse{Options: opts, DefaultStyle: stylePayloadFrom(opts.Style)})
}

// Health reports readiness. It answers 503 until renderers are warm.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.check(); err != nil {
		return WriteError(c, err)
	}
	ready := h.service.Ready()
	resp := healthResponse{Status: "ok", Ready: ready, Formats: h.service.Formats()}
	if !ready {
		resp.Status = "starting"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func (h *Handler) check() error {
	if h == nil || h.service == nil {
		return qrcode.NewError(qrcode.KindInternal, "handler is not configured", nil)
	}
	return nil
}
