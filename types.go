package resume2pdf

import (
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-resume2pdf/internal/document"
)

// DefaultTimeout bounds one render when the caller's context has no deadline.
const DefaultTimeout = 30 * time.Second

// Input is one conversion request.
type Input struct {
	Markdown   string // résumé source (may be empty)
	SourceName string // file name, for logs only
	HTMLOnly   bool   // skip Chrome and return the HTML only
}

// ConvertResult holds the outputs of a conversion.
type ConvertResult struct {
	Document document.Document // parsed blocks
	HTML     []byte            // HTML handed to Chrome
	PDF      []byte            // nil when Input.HTMLOnly is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	logger     *slog.Logger
	browserBin string
	noSandbox  bool
}

// defaultConfig reads the browser settings from the process environment.
// Options applied afterwards override them.
func defaultConfig() converterConfig {
	bin := os.Getenv("ROD_BROWSER_BIN")
	return converterConfig{
		timeout:    DefaultTimeout,
		logger:     slog.New(slog.DiscardHandler),
		browserBin: bin,
		noSandbox:  os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != "",
	}
}

// WithTimeout sets the render timeout used when the context has no deadline.
// Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resume2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger for pipeline diagnostics. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithBrowserBin sets the Chrome binary. An empty path keeps rod's managed browser.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, as required in most containers.
func WithNoSandbox(noSandbox bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = noSandbox
	}
}
