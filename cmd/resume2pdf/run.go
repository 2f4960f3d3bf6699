package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2/maybe"

	resume2pdf "github.com/alnah/go-resume2pdf"
	"github.com/alnah/go-resume2pdf/internal/config"
	"github.com/alnah/go-resume2pdf/internal/hints"
	"github.com/alnah/go-resume2pdf/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs   = errors.New("invalid arguments")
	ErrInputNotFound = fmt.Errorf("input not found: %w", os.ErrNotExist)
	ErrReadMarkdown  = errors.New("failed to read markdown file")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrWriteHTML     = errors.New("failed to write HTML file")
	ErrOutputIsInput = errors.New("output path is the input path")
	ErrOutputDir     = errors.New("failed to create output directory")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// converter is the part of *resume2pdf.Converter the CLI uses.
type converter interface {
	Convert(ctx context.Context, input resume2pdf.Input) (*resume2pdf.ConvertResult, error)
	Close() error
}

// converterFactory builds the converter for one run. Replaced in tests.
type converterFactory func(opts ...resume2pdf.Option) (converter, error)

func newConverter(opts ...resume2pdf.Option) (converter, error) {
	c, err := resume2pdf.NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// job is one fully resolved invocation.
type job struct {
	inputPath string
	pdfPath   string
	htmlPath  string // empty = no HTML output
	htmlOnly  bool
	quiet     bool
}

// run executes the CLI with args (without the program name) and returns the
// process exit code.
func run(args []string, env *Environment, factory converterFactory) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		printError(env, err)
		fmt.Fprintln(env.Stderr, "Run 'resume2pdf --help' for usage.")
		return exitCodeFor(err)
	}

	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "resume2pdf %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := convert(ctx, positional, flags, env, factory); err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// convert loads the config, resolves paths and runs one conversion.
func convert(ctx context.Context, positional []string, flags *cliFlags, env *Environment, factory converterFactory) error {
	if len(positional) != 1 {
		return fmt.Errorf("%w: expected one input file, got %d", ErrInvalidArgs, len(positional))
	}

	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// CLI wins over config
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	logger, err := newLogger(env, cfg, flags)
	if err != nil {
		return err
	}

	j, err := resolveJob(positional[0], flags, cfg)
	if err != nil {
		return err
	}

	markdown, err := readInput(j.inputPath)
	if err != nil {
		return err
	}

	conv, err := factory(converterOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.Warn("closing converter", "error", cerr)
		}
	}()

	result, err := conv.Convert(ctx, resume2pdf.Input{
		Markdown:   markdown,
		SourceName: filepath.Base(j.inputPath),
		HTMLOnly:   j.htmlOnly,
	})
	if err != nil {
		return err
	}

	return writeOutputs(j, result, env)
}

// mergeFlags copies explicitly set flags into cfg and revalidates it.
func mergeFlags(flags *cliFlags, cfg *config.Config) error {
	if flags.timeout != "" {
		cfg.Render.Timeout = flags.timeout
	}
	if flags.html {
		cfg.Output.HTML = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return nil
}

// newLogger builds the diagnostics logger. The level defaults to warn,
// the config may change it, and -v or -q override both.
func newLogger(env *Environment, cfg *config.Config, flags *cliFlags) (*slog.Logger, error) {
	level := slog.LevelWarn
	if cfg.Log.Level != "" {
		l, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfigInvalid, err)
		}
		level = l
	}
	switch {
	case flags.verbose:
		level = slog.LevelDebug
	case flags.quiet:
		level = slog.LevelError
	}

	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfigInvalid, err)
	}

	return logging.New(env.Stderr, level, format), nil
}

func converterOptions(cfg *config.Config, logger *slog.Logger) []resume2pdf.Option {
	opts := []resume2pdf.Option{
		resume2pdf.WithTimeout(cfg.Render.TimeoutDuration()),
		resume2pdf.WithLogger(logger),
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, resume2pdf.WithBrowserBin(cfg.Browser.Bin), resume2pdf.WithNoSandbox(true))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, resume2pdf.WithNoSandbox(true))
	}
	return opts
}

// resolveJob computes the output paths for inputPath.
func resolveJob(inputPath string, flags *cliFlags, cfg *config.Config) (*job, error) {
	j := &job{
		inputPath: inputPath,
		pdfPath:   resolveOutputPath(inputPath, flags.output, cfg.Output.DefaultDir),
		htmlOnly:  flags.htmlOnly,
		quiet:     flags.quiet,
	}
	if flags.htmlOnly || cfg.Output.HTML {
		j.htmlPath = replaceExt(j.pdfPath, ".html")
	}

	if samePath(j.inputPath, j.pdfPath) && !j.htmlOnly {
		return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, j.pdfPath)
	}
	if j.htmlPath != "" && samePath(j.inputPath, j.htmlPath) {
		return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, j.htmlPath)
	}
	return j, nil
}

// resolveOutputPath returns flagOutput when set. Otherwise it replaces the
// input extension with .pdf (appending it when there is none), placed in
// defaultDir when one is configured.
func resolveOutputPath(inputPath, flagOutput, defaultDir string) string {
	if flagOutput != "" {
		return flagOutput
	}
	out := replaceExt(inputPath, ".pdf")
	if defaultDir != "" {
		out = filepath.Join(defaultDir, filepath.Base(out))
	}
	return out
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// readInput reads the résumé. A missing path or a non-regular file is
// ErrInputNotFound.
func readInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// writeOutputs writes the PDF and then the HTML (when requested). Each file
// is replaced atomically, and the PDF is removed again when the HTML write
// fails, so a failed run leaves no new output behind.
func writeOutputs(j *job, result *resume2pdf.ConvertResult, env *Environment) error {
	var created []string

	if !j.htmlOnly {
		if err := writeFile(j.pdfPath, result.PDF, ErrWritePDF); err != nil {
			return err
		}
		created = append(created, j.pdfPath)
	}

	if j.htmlPath != "" {
		if err := writeFile(j.htmlPath, result.HTML, ErrWriteHTML); err != nil {
			for _, p := range created {
				_ = os.Remove(p)
			}
			return err
		}
		created = append(created, j.htmlPath)
	}

	if !j.quiet {
		for _, p := range created {
			fmt.Fprintf(env.Stdout, "Created %s\n", p)
		}
	}
	return nil
}

func writeFile(path string, data []byte, sentinel error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %w: %w", sentinel, ErrOutputDir, err)
		}
	}
	if err := maybe.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return nil
}

// printError prints one error line followed by an optional hint.
func printError(env *Environment, err error) {
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env.Getenv))
}

// hintFor returns the actionable hint for err, or "".
func hintFor(err error, getenv func(string) string) string {
	var nf *config.NotFoundError
	switch {
	case errors.Is(err, resume2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.As(err, &nf):
		return hints.ForConfigNotFound(nf.Paths)
	case errors.Is(err, ErrInputNotFound):
		return hints.ForInputNotFound()
	case errors.Is(err, ErrOutputIsInput):
		return hints.ForOutputIsInput()
	case errors.Is(err, ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
