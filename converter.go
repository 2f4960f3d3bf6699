package resume2pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-resume2pdf/internal/document"
	"github.com/alnah/go-resume2pdf/internal/layout"
	"github.com/alnah/go-resume2pdf/internal/style"
)

// Converter orchestrates the résumé-to-PDF pipeline.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter owns one browser and is not safe for concurrent use.
type Converter struct {
	cfg          converterConfig
	sheet        *style.Sheet
	pdfConverter pdfConverter
}

// NewConverter creates a Converter. Chrome is not started until the first
// conversion that needs a PDF.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:   defaultConfig(),
		sheet: style.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, browserOptions{
			bin:       c.cfg.browserBin,
			noSandbox: c.cfg.noSandbox,
		}, c.cfg.logger)
	}

	return c, nil
}

// Convert parses input.Markdown, emits it as HTML and prints it to PDF.
// Every failure after parsing is wrapped in ErrRenderFailure; parsing itself
// cannot fail. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRenderFailure, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := c.cfg.logger.With("source", input.SourceName)

	start := time.Now()
	doc := document.Parse(input.Markdown)
	log.Debug("parsed document",
		"blocks", doc.Len(),
		"sections", doc.Count(document.KindSectionHeading),
		"subsections", doc.Count(document.KindSubsectionHeading),
		"bullets", doc.Count(document.KindBullet),
		"elapsed", time.Since(start))
	if doc.Count(document.KindTitle) == 0 {
		log.Warn("document has no title line")
	}

	start = time.Now()
	htmlContent, err := layout.Emit(doc, c.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: emitting HTML: %w", ErrRenderFailure, err)
	}
	log.Debug("emitted HTML", "bytes", len(htmlContent), "elapsed", time.Since(start))

	res := &ConvertResult{
		Document: doc,
		HTML:     []byte(htmlContent),
	}

	if input.HTMLOnly {
		return res, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	start = time.Now()
	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{Page: c.sheet.Page()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	log.Debug("rendered PDF", "bytes", len(pdfBytes), "elapsed", time.Since(start))

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
