package qrcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Renderers         *RendererRegistry
	Logger            Logger
	Now               func() time.Time
	IDGenerator       func() string
	PreviewSize       int
	DefaultResolution int
	MinResolution     int
	MaxResolution     int
	FilenameTemplate  string
	RenderTimeout     time.Duration
}

// Service builds payloads, lays out the symbol and dispatches to renderers.
type Service struct {
	renderers   *RendererRegistry
	logger      Logger
	now         func() time.Time
	idGenerator func() string

	previewSize       int
	defaultResolution int
	minResolution     int
	maxResolution     int
	filenameTemplate  string
	renderTimeout     time.Duration

	initOnce sync.Once
	ready    atomic.Bool
	done     chan struct{}

	mu       sync.RWMutex
	disabled map[Format]error
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) *Service {
	renderers := cfg.Renderers
	if renderers == nil {
		renderers = NewRendererRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}

	s := &Service{
		renderers:         renderers,
		logger:            logger,
		now:               nowFn,
		idGenerator:       idGen,
		previewSize:       cfg.PreviewSize,
		defaultResolution: cfg.DefaultResolution,
		minResolution:     cfg.MinResolution,
		maxResolution:     cfg.MaxResolution,
		filenameTemplate:  cfg.FilenameTemplate,
		renderTimeout:     cfg.RenderTimeout,
		done:              make(chan struct{}),
		disabled:          make(map[Format]error),
	}
	if s.previewSize <= 0 {
		s.previewSize = DefaultPreviewSize
	}
	if s.minResolution <= 0 {
		s.minResolution = DefaultMinResolution
	}
	if s.maxResolution <= 0 {
		s.maxResolution = DefaultMaxResolution
	}
	if s.defaultResolution <= 0 {
		s.defaultResolution = DefaultResolution
	}
	return s
}

// Init warms renderers in the background. Preview and Export report
// ErrNotReady until warm-up completes. Calling Init more than once is a no-op.
func (s *Service) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		go func() {
			defer close(s.done)
			s.warm(ctx)
			s.ready.Store(true)
			s.logger.Infof("qrcode service ready formats=%v", s.Formats())
		}()
	})
}

// Ready reports whether warm-up has completed.
func (s *Service) Ready() bool {
	return s != nil && s.ready.Load()
}

// Wait blocks until the service is ready or the context ends.
func (s *Service) Wait(ctx context.Context) error {
	if s == nil {
		return NewError(KindInternal, "service is nil", nil)
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) warm(ctx context.Context) {
	var g errgroup.Group
	for format, warmer := range s.renderers.warmers() {
		g.Go(func() error {
			start := s.now()
			if err := warmer.Warm(ctx); err != nil {
				s.logger.Errorf("renderer warm-up failed format=%s err=%v", format, err)
				s.mu.Lock()
				s.disabled[format] = err
				s.mu.Unlock()
				return err
			}
			s.logger.Debugf("renderer warmed format=%s duration=%s", format, s.now().Sub(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Infof("renderer warm-up finished with disabled formats")
	}
}

// Formats returns the formats that can be exported.
func (s *Service) Formats() []Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Format, 0)
	for _, format := range s.renderers.Formats() {
		if _, off := s.disabled[format]; !off {
			out = append(out, format)
		}
	}
	return out
}

// Preview renders the SVG preview. An empty form yields Preview{Empty: true}
// so callers keep whatever they displayed last.
func (s *Service) Preview(ctx context.Context, form Form, style Style) (Preview, error) {
	if s == nil {
		return Preview{}, NewError(KindInternal, "service is nil", nil)
	}
	if !s.Ready() {
		return Preview{}, ErrNotReady
	}

	payload, err := BuildPayload(form)
	if errors.Is(err, ErrEmptyContent) {
		return Preview{Empty: true}, nil
	}
	if err != nil {
		return Preview{}, err
	}

	renderer, err := s.renderer(FormatSVG)
	if err != nil {
		return Preview{}, err
	}
	drawing, err := s.draw(payload, style, s.previewSize)
	if err != nil {
		return Preview{}, err
	}

	var buf bytes.Buffer
	if _, err := renderer.Render(ctx, drawing, &buf); err != nil {
		return Preview{}, s.renderError(ctx, err)
	}
	return Preview{SVG: buf.Bytes(), Payload: payload}, nil
}

// Export renders the request into req.Output.
func (s *Service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if s == nil {
		return ExportResult{}, NewError(KindInternal, "service is nil", nil)
	}
	if !s.Ready() {
		return ExportResult{}, ErrNotReady
	}
	if req.Output == nil {
		return ExportResult{}, NewError(KindValidation, "output writer is required", nil)
	}

	format := NormalizeFormat(req.Format)
	renderer, err := s.renderer(format)
	if err != nil {
		return ExportResult{}, err
	}
	resolution, err := s.resolveResolution(req.Resolution)
	if err != nil {
		return ExportResult{}, err
	}
	payload, err := BuildPayload(req.Form)
	if err != nil {
		return ExportResult{}, err
	}
	drawing, err := s.draw(payload, req.Style, resolution)
	if err != nil {
		return ExportResult{}, err
	}

	id := s.idGenerator()
	pattern := req.Filename
	if pattern == "" {
		pattern = s.filenameTemplate
	}
	filename, err := renderFilename(pattern, id, format, NormalizeContentType(req.Form.ContentType), s.now())
	if err != nil {
		return ExportResult{}, err
	}

	if s.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.renderTimeout)
		defer cancel()
	}

	start := s.now()
	counter := &countingWriter{w: req.Output}
	stats, err := renderer.Render(ctx, drawing, counter)
	if err != nil {
		s.logger.Errorf("export failed id=%s format=%s err=%v", id, format, err)
		return ExportResult{}, s.renderError(ctx, err)
	}
	written := stats.Bytes
	if written == 0 {
		written = counter.n
	}

	s.logger.Infof("export completed id=%s format=%s resolution=%d bytes=%d duration=%s",
		id, format, resolution, written, s.now().Sub(start))

	return ExportResult{
		ID:          id,
		Format:      format,
		Filename:    filename,
		ContentType: ContentTypeForFormat(format),
		Payload:     payload,
		Resolution:  resolution,
		Bytes:       written,
	}, nil
}

// Options describes the selectable values.
func (s *Service) Options() Options {
	return Options{
		ContentTypes:      []ContentType{ContentURL, ContentText, ContentWiFi, ContentVCard},
		WiFiSecurity:      []WiFiSecurity{SecurityWPA, SecurityWEP, SecurityNoPass},
		DotTypes:          DotTypes,
		CornerSquareTypes: CornerSquareTypes,
		CornerDotTypes:    CornerDotTypes,
		ErrorCorrection:   ErrorCorrectionLevels,
		Formats:           s.Formats(),
		MinResolution:     s.minResolution,
		MaxResolution:     s.maxResolution,
		DefaultResolution: s.defaultResolution,
		ResolutionStep:    ResolutionStep,
		PreviewSize:       s.previewSize,
		Style:             DefaultStyle(),
	}
}

func (s *Service) renderer(format Format) (Renderer, error) {
	renderer, ok := s.renderers.Resolve(format)
	if !ok {
		return nil, NewError(KindNotFound, fmt.Sprintf("format %q not supported", format), nil)
	}
	s.mu.RLock()
	cause, off := s.disabled[format]
	s.mu.RUnlock()
	if off {
		return nil, NewError(KindNotImpl, fmt.Sprintf("format %q is unavailable", format), cause)
	}
	return renderer, nil
}

func (s *Service) resolveResolution(resolution int) (int, error) {
	if resolution == 0 {
		return s.defaultResolution, nil
	}
	if resolution < s.minResolution || resolution > s.maxResolution {
		return 0, NewError(KindValidation, fmt.Sprintf("resolution must be between %d and %d", s.minResolution, s.maxResolution), nil)
	}
	return resolution, nil
}

func (s *Service) draw(payload string, style Style, size int) (Drawing, error) {
	style = style.Normalize()
	if err := style.Validate(); err != nil {
		return Drawing{}, err
	}
	logo, err := DecodeLogo(style.Logo)
	if err != nil {
		return Drawing{}, err
	}
	matrix, err := Encode(payload, style.ErrorCorrection)
	if err != nil {
		return Drawing{}, err
	}
	drawing, err := Layout(matrix, style, size, logo)
	if err != nil {
		return Drawing{}, err
	}
	drawing.Payload = payload
	return drawing, nil
}

func (s *Service) renderError(ctx context.Context, err error) error {
	var qrErr *QRError
	if errors.As(err, &qrErr) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewError(KindFromError(ctxErr), MsgExportFailed, err)
	}
	return NewError(KindInternal, MsgExportFailed, err)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
