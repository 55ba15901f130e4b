package qrpdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-qrexport/qrcode"
)

const mmPerInch = 25.4

// ChromiumEngine prints the sheet HTML through a shared headless Chromium.
// The browser starts on first use (or Warm) and lives until Close.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	DefaultPDF PDFOptions

	once          sync.Once
	browserCtx    context.Context
	closeBrowser  context.CancelFunc
	closeAllocCtx context.CancelFunc
}

// Render loads req.HTML into a fresh tab and prints it to PDF.
func (e *ChromiumEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e == nil {
		return nil, qrcode.NewError(qrcode.KindInternal, "chromium engine is nil", nil)
	}
	if len(req.HTML) == 0 {
		return nil, qrcode.NewError(qrcode.KindValidation, "chromium engine requires sheet html", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := e.defaults().with(req.Options)
	params, err := printParams(req.Sheet, opts)
	if err != nil {
		return nil, err
	}
	if err := e.start(); err != nil {
		return nil, qrcode.NewError(qrcode.KindInternal, "chromium engine init failed", err)
	}

	tabCtx, closeTab := chromedp.NewContext(e.browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, e.Timeout)
		defer cancel()
	}

	var out []byte
	if err := chromedp.Run(tabCtx, printTasks(string(req.HTML), params, opts, &out)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, qrcode.NewError(qrcode.KindInternal, "chromium pdf render failed", err)
	}
	return out, nil
}

// Warm launches the browser. A missing binary disables the pdf format.
func (e *ChromiumEngine) Warm(ctx context.Context) error {
	if e == nil {
		return qrcode.NewError(qrcode.KindInternal, "chromium engine is nil", nil)
	}
	if err := e.start(); err != nil {
		return qrcode.NewError(qrcode.KindNotImpl, "chromium engine init failed", err)
	}
	launched := make(chan error, 1)
	go func() {
		launched <- chromedp.Run(e.browserCtx)
	}()
	select {
	case err := <-launched:
		if err != nil {
			return qrcode.NewError(qrcode.KindNotImpl, "chromium browser unavailable", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the browser down.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.closeBrowser != nil {
		e.closeBrowser()
	}
	if e.closeAllocCtx != nil {
		e.closeAllocCtx()
	}
	return nil
}

func (e *ChromiumEngine) start() error {
	e.once.Do(func() {
		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			opts = append(opts, chromedp.ExecPath(e.BrowserPath))
		}
		opts = append(opts, chromedp.Flag("headless", e.Headless))
		opts = append(opts, chromeFlags(e.Args)...)

		allocCtx, closeAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
		e.closeAllocCtx = closeAlloc
		e.browserCtx, e.closeBrowser = chromedp.NewContext(allocCtx)
	})
	if e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func (e *ChromiumEngine) defaults() PDFOptions {
	opts := e.DefaultPDF
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.PrintBackground == nil {
		printBackground := true
		opts.PrintBackground = &printBackground
	}
	if opts.ExternalAssetsPolicy == "" {
		opts.ExternalAssetsPolicy = ExternalAssetsBlock
	}
	return opts
}

func printTasks(html string, params *page.PrintToPDFParams, opts PDFOptions, out *[]byte) chromedp.Tasks {
	tasks := chromedp.Tasks{}
	if opts.ExternalAssetsPolicy != ExternalAssetsAllow {
		tasks = append(tasks,
			network.Enable(),
			network.SetBlockedURLs([]string{"http://*", "https://*"}),
		)
	}
	return append(tasks,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			*out, _, err = params.Do(ctx)
			return err
		}),
	)
}

// printParams sizes the paper from the named page size, falling back to the
// sheet dimensions. Margins are zero because the sheet positions absolutely.
func printParams(sheet Sheet, opts PDFOptions) (*page.PrintToPDFParams, error) {
	if opts.Scale < 0.1 || opts.Scale > 2 {
		return nil, qrcode.NewError(qrcode.KindValidation, "pdf scale must be between 0.1 and 2.0", nil)
	}

	width, height := sheet.PageWidth, sheet.PageHeight
	if opts.PageSize != "" {
		w, h, ok := PaperSize(opts.PageSize)
		if !ok {
			return nil, qrcode.NewError(qrcode.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", opts.PageSize), nil)
		}
		width, height = w, h
	}
	if width <= 0 || height <= 0 {
		width, height = SheetWidthMM, SheetHeightMM
	}

	params := page.PrintToPDF().
		WithScale(opts.Scale).
		WithLandscape(opts.landscape()).
		WithPaperWidth(width / mmPerInch).
		WithPaperHeight(height / mmPerInch).
		WithMarginTop(0).
		WithMarginBottom(0).
		WithMarginLeft(0).
		WithMarginRight(0)
	if opts.PrintBackground != nil {
		params = params.WithPrintBackground(*opts.PrintBackground)
	}
	return params, nil
}

// chromeFlags turns "--name=value" and "--switch" args into allocator flags.
func chromeFlags(args []string) []chromedp.ExecAllocatorOption {
	flags := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if hasValue {
			flags = append(flags, chromedp.Flag(name, value))
		} else {
			flags = append(flags, chromedp.Flag(name, true))
		}
	}
	return flags
}
