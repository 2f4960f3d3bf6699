package resume2pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-resume2pdf/internal/fileutil"
	"github.com/alnah/go-resume2pdf/internal/process"
	"github.com/alnah/go-resume2pdf/internal/style"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Page style.Page
}

// browserOptions configures how Chrome is launched.
type browserOptions struct {
	bin       string
	noSandbox bool
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     browserOptions
	timeout  time.Duration
	logger   *slog.Logger
}

// newRodRenderer creates a rodRenderer. The browser starts on first render.
func newRodRenderer(timeout time.Duration, opts browserOptions, logger *slog.Logger) *rodRenderer {
	return &rodRenderer{opts: opts, timeout: timeout, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if r.opts.bin != "" {
		l = l.Bin(r.opts.bin)
	}
	if r.opts.noSandbox {
		l = l.NoSandbox(true)
	}

	start := time.Now()
	u, err := l.Launch()
	if err != nil {
		return browserError(ErrBrowserConnect, err)
	}
	r.launcher = l

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.killBrowser()
		return browserError(ErrBrowserConnect, err)
	}
	r.browser = browser

	r.logger.Debug("browser launched",
		"pid", l.PID(),
		"bin", r.opts.bin,
		"noSandbox", r.opts.noSandbox,
		"elapsed", time.Since(start))
	return nil
}

// Close releases browser resources and kills the browser's process group so
// no Chrome child outlives the converter.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killBrowser()
	return err
}

func (r *rodRenderer) killBrowser() {
	if r.launcher == nil {
		return
	}
	pid := r.launcher.PID()
	// launcher.Kill sleeps a second before signaling the group.
	if killErr := process.KillGroup(pid); killErr != nil {
		r.logger.Debug("killing browser process group", "pid", pid, "error", killErr)
		r.launcher.Kill()
	}
	r.launcher.Cleanup()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, browserError(ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, browserError(ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, browserError(ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, browserError(ErrPDFGeneration, fmt.Errorf("reading PDF stream: %w", err))
	}

	return pdfBuf, nil
}

// browserError tags a rod failure with its stage. The cause stays reachable
// so callers can still match context.DeadlineExceeded.
func browserError(stage, err error) error {
	return fmt.Errorf("%w: %w", stage, err)
}

// buildPDFOptions maps the page geometry onto Chrome's print settings.
// A nil opts prints on the default sheet's page.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	page := style.Default().Page()
	if opts != nil {
		page = opts.Page
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(page.WidthIn),
		PaperHeight:     floatPtr(page.HeightIn),
		MarginTop:       floatPtr(page.MarginTopIn),
		MarginBottom:    floatPtr(page.MarginBottomIn),
		MarginLeft:      floatPtr(page.MarginLeftIn),
		MarginRight:     floatPtr(page.MarginRightIn),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer pdfRenderer
}

// newRodConverter creates a rodConverter with the production renderer.
func newRodConverter(timeout time.Duration, opts browserOptions, logger *slog.Logger) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout, opts, logger),
	}
}

// ToPDF writes the HTML to a temp file, which Chrome loads by file:// URL,
// and returns the printed PDF. The temp file is removed on every path.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
