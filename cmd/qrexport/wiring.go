package main

import (
	"context"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	qrpdf "github.com/goliatone/go-qrexport/adapters/pdf"
	qrraster "github.com/goliatone/go-qrexport/adapters/raster"
	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	qrsvg "github.com/goliatone/go-qrexport/adapters/svg"
	qrtemplate "github.com/goliatone/go-qrexport/adapters/template"
	"github.com/goliatone/go-qrexport/command"
	"github.com/goliatone/go-qrexport/config"
	"github.com/goliatone/go-qrexport/qrcode"
)

// runtime bundles the service with its store and bus subscriptions.
type runtime struct {
	service *qrcode.Service
	store   *storefs.Store
	subs    []dispatcher.Subscription
	closers []func() error
}

func newRuntime(cfg config.Config, logger qrcode.Logger) (*runtime, error) {
	rt := &runtime{}

	renderers, err := newRenderers(cfg, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.service = qrcode.NewService(qrcode.ServiceConfig{
		Renderers:         renderers,
		Logger:            logger,
		PreviewSize:       cfg.Render.PreviewSize,
		DefaultResolution: cfg.Render.DefaultResolution,
		MinResolution:     cfg.Render.MinResolution,
		MaxResolution:     cfg.Render.MaxResolution,
		FilenameTemplate:  cfg.Render.FilenameTemplate,
		RenderTimeout:     cfg.Render.Timeout,
	})

	rt.store = storefs.NewStore(cfg.Output.Dir)
	rt.store.Sidecar = cfg.Output.Sidecar
	rt.store.Overwrite = cfg.Output.Overwrite

	rt.subs, err = command.RegisterHandlers(gcmd.NewRegistry(), rt.service, rt.store)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// ready warms renderers and blocks until they are done or timeout passes.
func (rt *runtime) ready(ctx context.Context, timeout time.Duration) error {
	rt.service.Init(ctx)
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return rt.service.Wait(waitCtx)
}

func (rt *runtime) Close() {
	command.Unsubscribe(rt.subs)
	rt.subs = nil
	for _, closeFn := range rt.closers {
		_ = closeFn()
	}
	rt.closers = nil
}

func newRenderers(cfg config.Config, rt *runtime) (*qrcode.RendererRegistry, error) {
	reg := qrcode.NewRendererRegistry()
	if err := reg.Register(qrcode.FormatSVG, qrsvg.NewRenderer()); err != nil {
		return nil, err
	}
	if err := reg.Register(qrcode.FormatPNG, qrraster.NewPNGRenderer()); err != nil {
		return nil, err
	}
	if err := reg.Register(qrcode.FormatJPEG, qrraster.NewJPEGRenderer()); err != nil {
		return nil, err
	}
	if !cfg.PDF.Enabled {
		return reg, nil
	}

	options := qrpdf.PDFOptions{
		PageSize:             cfg.PDF.PageSize,
		PrintBackground:      &cfg.PDF.PrintBackground,
		Scale:                cfg.PDF.Scale,
		ExternalAssetsPolicy: qrpdf.ExternalAssetsPolicy(cfg.PDF.ExternalAssetsPolicy),
	}
	renderer := qrpdf.Renderer{Enabled: true, Options: options}

	switch strings.ToLower(strings.TrimSpace(cfg.PDF.Engine)) {
	case config.EngineChromium:
		engine := &qrpdf.ChromiumEngine{
			BrowserPath: cfg.PDF.ChromiumPath,
			Headless:    cfg.PDF.Headless,
			Timeout:     cfg.PDF.Timeout,
			Args:        cfg.PDF.Args,
			DefaultPDF:  options,
		}
		rt.closers = append(rt.closers, engine.Close)
		renderer.Engine = engine
		renderer.HTMLRenderer = qrtemplate.NewSheetRenderer()
	case config.EngineWKHTMLTOPDF:
		renderer.Engine = qrpdf.WKHTMLTOPDFEngine{
			Command: cfg.PDF.WKHTMLTOPDFPath,
			Timeout: cfg.PDF.Timeout,
		}
		renderer.HTMLRenderer = qrtemplate.NewSheetRenderer()
	default:
		renderer.Engine = qrpdf.DocumentEngine{Creator: "qrexport"}
	}

	if err := reg.Register(qrcode.FormatPDF, renderer); err != nil {
		return nil, err
	}
	return reg, nil
}
