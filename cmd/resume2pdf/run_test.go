package main

// Notes:
// - run is tested end to end with a fakeConverter: no Chrome is started.
//   The real converter is covered by the root package's integration tests.
// - Inputs and outputs live in t.TempDir(), so every test runs in parallel.
// - Signal handling is not tested; notifyContext is a thin wrapper over
//   signal.NotifyContext.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	resume2pdf "github.com/alnah/go-resume2pdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and environment
// ---------------------------------------------------------------------------

const testResume = "# Jane Doe\nBerlin | jane@example.com\n## Experience\n- Shipped things\n"

type fakeConverter struct {
	err      error
	input    resume2pdf.Input
	calls    int
	closed   bool
	opts     int
	deadline bool
}

func (f *fakeConverter) Convert(ctx context.Context, input resume2pdf.Input) (*resume2pdf.ConvertResult, error) {
	f.calls++
	f.input = input
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	res := &resume2pdf.ConvertResult{HTML: []byte("<html>" + input.SourceName + "</html>")}
	if !input.HTMLOnly {
		res.PDF = []byte("%PDF-1.4 fake")
	}
	return res, nil
}

func (f *fakeConverter) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConverter) factory() converterFactory {
	return func(opts ...resume2pdf.Option) (converter, error) {
		f.opts = len(opts)
		return f, nil
	}
}

func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Getenv: func(k string) string { return vars[k] },
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist, stat err = %v", path, err)
	}
}

// ---------------------------------------------------------------------------
// TestRun - Successful conversions
// ---------------------------------------------------------------------------

func TestRun_DefaultOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, stdout, stderr := testEnv(nil)
	fake := &fakeConverter{}

	code := run([]string{input}, env, fake.factory())
	if code != ExitSuccess {
		t.Fatalf("run() = %d, want 0 (stderr: %s)", code, stderr)
	}

	want := filepath.Join(dir, "cv.pdf")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output = %q, want the PDF bytes", data)
	}
	if got := stdout.String(); got != "Created "+want+"\n" {
		t.Errorf("stdout = %q", got)
	}
	if fake.input.Markdown != testResume {
		t.Errorf("converter got %q, want the file content", fake.input.Markdown)
	}
	if fake.input.SourceName != "cv.md" {
		t.Errorf("SourceName = %q, want cv.md", fake.input.SourceName)
	}
	if !fake.closed {
		t.Error("converter should be closed")
	}
}

func TestRun_OutputPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		args  func(dir string) []string
		want  func(dir string) string
	}{
		{
			name:  "extension replaced",
			input: "resume.markdown",
			args:  func(string) []string { return nil },
			want:  func(dir string) string { return filepath.Join(dir, "resume.pdf") },
		},
		{
			name:  "extension appended",
			input: "resume",
			args:  func(string) []string { return nil },
			want:  func(dir string) string { return filepath.Join(dir, "resume.pdf") },
		},
		{
			name:  "explicit output",
			input: "cv.md",
			args:  func(dir string) []string { return []string{"-o", filepath.Join(dir, "out", "final.pdf")} },
			want:  func(dir string) string { return filepath.Join(dir, "out", "final.pdf") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := writeInput(t, dir, tt.input, testResume)
			env, _, stderr := testEnv(nil)

			args := append([]string{input}, tt.args(dir)...)
			if code := run(args, env, (&fakeConverter{}).factory()); code != ExitSuccess {
				t.Fatalf("run() = %d, stderr: %s", code, stderr)
			}
			if _, err := os.Stat(tt.want(dir)); err != nil {
				t.Errorf("expected output at %s: %v", tt.want(dir), err)
			}
		})
	}
}

func TestRun_HTMLAlongsidePDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, stdout, _ := testEnv(nil)

	if code := run([]string{input, "--html"}, env, (&fakeConverter{}).factory()); code != ExitSuccess {
		t.Fatalf("run() = %d", code)
	}

	for _, name := range []string{"cv.html", "cv.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should exist: %v", name, err)
		}
	}
	if got := strings.Count(stdout.String(), "Created "); got != 2 {
		t.Errorf("stdout should report two files, got %q", stdout)
	}
}

func TestRun_HTMLOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, _, _ := testEnv(nil)
	fake := &fakeConverter{}

	if code := run([]string{"--html-only", input}, env, fake.factory()); code != ExitSuccess {
		t.Fatalf("run() = %d", code)
	}
	if !fake.input.HTMLOnly {
		t.Error("converter should be asked for HTML only")
	}
	if _, err := os.Stat(filepath.Join(dir, "cv.html")); err != nil {
		t.Errorf("cv.html should exist: %v", err)
	}
	assertNotExist(t, filepath.Join(dir, "cv.pdf"))
}

func TestRun_QuietPrintsNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, stdout, stderr := testEnv(nil)

	if code := run([]string{"-q", input}, env, (&fakeConverter{}).factory()); code != ExitSuccess {
		t.Fatalf("run() = %d", code)
	}
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("quiet run printed stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestRun_EmptyInputIsAccepted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "empty.md", "")
	env, _, _ := testEnv(nil)

	if code := run([]string{input}, env, (&fakeConverter{}).factory()); code != ExitSuccess {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRun_ConfigAndFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	outDir := filepath.Join(dir, "pdfs")
	cfgPath := writeInput(t, dir, "work.yaml", fmt.Sprintf(`
output:
  defaultDir: %s
  html: true
browser:
  noSandbox: true
`, outDir))
	env, _, stderr := testEnv(nil)
	fake := &fakeConverter{}

	code := run([]string{input, "-c", cfgPath, "--timeout", "45s"}, env, fake.factory())
	if code != ExitSuccess {
		t.Fatalf("run() = %d, stderr: %s", code, stderr)
	}

	for _, name := range []string{"cv.pdf", "cv.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s should be written to defaultDir: %v", name, err)
		}
	}
	// timeout, logger, no-sandbox
	if fake.opts != 3 {
		t.Errorf("factory got %d options, want 3", fake.opts)
	}
}

func TestRun_VerboseLogsToStderr(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, _, stderr := testEnv(nil)

	factory := func(opts ...resume2pdf.Option) (converter, error) {
		c, err := resume2pdf.NewConverter(opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	if code := run([]string{"-v", "--html-only", input}, env, factory); code != ExitSuccess {
		t.Fatalf("run() = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr.String(), "parsed document") {
		t.Errorf("verbose stderr should hold debug logs, got %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRun - Failures
// ---------------------------------------------------------------------------

func TestRun_InputNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name  string
		input string
	}{
		{"missing file", filepath.Join(dir, "missing.md")},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			fake := &fakeConverter{}

			if code := run([]string{tt.input}, env, fake.factory()); code != ExitIO {
				t.Fatalf("run() = %d, want %d", code, ExitIO)
			}
			if fake.calls != 0 {
				t.Error("converter should not run")
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", stdout)
			}
			if !strings.Contains(stderr.String(), "input not found") {
				t.Errorf("stderr = %q", stderr)
			}
			if !strings.Contains(stderr.String(), "hint:") {
				t.Errorf("stderr should carry a hint, got %q", stderr)
			}
		})
	}
	assertNotExist(t, filepath.Join(dir, "missing.pdf"))
}

func TestRun_RenderFailureWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, stdout, stderr := testEnv(nil)
	fake := &fakeConverter{err: fmt.Errorf("%w: %w", resume2pdf.ErrRenderFailure, resume2pdf.ErrPDFGeneration)}

	code := run([]string{input, "--html"}, env, fake.factory())
	if code != ExitRender {
		t.Fatalf("run() = %d, want %d", code, ExitRender)
	}
	assertNotExist(t, filepath.Join(dir, "cv.pdf"))
	assertNotExist(t, filepath.Join(dir, "cv.html"))
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout)
	}
	if !strings.Contains(stderr.String(), "PDF generation failed") {
		t.Errorf("stderr should keep the cause, got %q", stderr)
	}
	if !fake.closed {
		t.Error("converter should be closed on failure")
	}
}

func TestRun_WriteFailureLeavesNoOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		blocked string // path turned into a directory so the write fails
		args    []string
		gone    []string
	}{
		{name: "pdf target is a directory", blocked: "cv.pdf", gone: []string{"cv.html"}},
		{name: "html target is a directory", blocked: "cv.html", args: []string{"--html"}, gone: []string{"cv.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			input := writeInput(t, dir, "cv.md", testResume)
			if err := os.Mkdir(filepath.Join(dir, tt.blocked), 0o750); err != nil {
				t.Fatal(err)
			}
			env, stdout, _ := testEnv(nil)

			code := run(append([]string{input}, tt.args...), env, (&fakeConverter{}).factory())
			if code != ExitIO {
				t.Fatalf("run() = %d, want %d", code, ExitIO)
			}
			for _, name := range tt.gone {
				assertNotExist(t, filepath.Join(dir, name))
			}
			if stdout.Len() != 0 {
				t.Errorf("stdout = %q, want no Created line", stdout)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".") {
					t.Errorf("leftover temp file %s", e.Name())
				}
			}
		})
	}
}

func TestRun_ReplacesExistingPDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	out := writeInput(t, dir, "cv.pdf", "old")
	env, _, _ := testEnv(nil)

	if code := run([]string{input}, env, (&fakeConverter{}).factory()); code != ExitSuccess {
		t.Fatalf("run() = %d", code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("cv.pdf = %q, want the new PDF", data)
	}
}

func TestRun_BrowserConnectHint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, _, stderr := testEnv(map[string]string{"CI": "true"})
	fake := &fakeConverter{err: fmt.Errorf("%w: %w", resume2pdf.ErrRenderFailure, resume2pdf.ErrBrowserConnect)}

	if code := run([]string{input}, env, fake.factory()); code != ExitRender {
		t.Fatalf("run() = %d, want %d", code, ExitRender)
	}
	if !strings.Contains(stderr.String(), "ROD_NO_SANDBOX=1") {
		t.Errorf("stderr should suggest ROD_NO_SANDBOX, got %q", stderr)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"two inputs", []string{input, input}},
		{"unknown flag", []string{input, "--page-size", "a4"}},
		{"quiet and verbose", []string{input, "-q", "-v"}},
		{"bad timeout", []string{input, "-t", "soon"}},
		{"timeout out of range", []string{input, "-t", "1h"}},
		{"output is input", []string{input, "-o", input}},
		{"missing config", []string{input, "-c", filepath.Join(dir, "none.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv(nil)
			fake := &fakeConverter{}

			if code := run(tt.args, env, fake.factory()); code != ExitUsage {
				t.Fatalf("run() = %d, want %d (stderr: %s)", code, ExitUsage, stderr)
			}
			if fake.calls != 0 {
				t.Error("converter should not run")
			}
			if !strings.HasPrefix(stderr.String(), "error: ") {
				t.Errorf("stderr = %q, want an error line", stderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRun - Help and version
// ---------------------------------------------------------------------------

func TestRun_HelpAndVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--help"}, "Usage: resume2pdf"},
		{[]string{"-h"}, "Usage: resume2pdf"},
		{[]string{"--version"}, "resume2pdf " + Version},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(nil)
			if code := run(tt.args, env, (&fakeConverter{}).factory()); code != ExitSuccess {
				t.Fatalf("run() = %d, want 0", code)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath / TestHintFor
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, flag, dir string
		want             string
	}{
		{"cv.md", "", "", "cv.pdf"},
		{"cv", "", "", "cv.pdf"},
		{"a/b/cv.txt", "", "", filepath.Join("a", "b", "cv.pdf")},
		{"a/cv.md", "", "out", filepath.Join("out", "cv.pdf")},
		{"cv.md", "x.pdf", "out", "x.pdf"},
	}

	for _, tt := range tests {
		if got := resolveOutputPath(tt.input, tt.flag, tt.dir); got != tt.want {
			t.Errorf("resolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.flag, tt.dir, got, tt.want)
		}
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	getenv := func(string) string { return "" }

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", fmt.Errorf("%w: %w", resume2pdf.ErrRenderFailure, context.DeadlineExceeded), "--timeout"},
		{"page load timeout", fmt.Errorf("%w: %w", resume2pdf.ErrRenderFailure,
			fmt.Errorf("%w: %w", resume2pdf.ErrPageLoad, context.DeadlineExceeded)), "--timeout"},
		{"browser connect", fmt.Errorf("%w: %w", resume2pdf.ErrRenderFailure,
			fmt.Errorf("%w: %w", resume2pdf.ErrBrowserConnect, errors.New("no chrome"))), "ROD_BROWSER_BIN"},
		{"output is input", ErrOutputIsInput, "-o"},
		{"output dir", fmt.Errorf("%w: %w", ErrWritePDF, ErrOutputDir), "writable"},
		{"plain error", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, getenv)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}

func TestRun_ConverterGetsNoDeadlineFromCLI(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeInput(t, dir, "cv.md", testResume)
	env, _, _ := testEnv(nil)
	fake := &fakeConverter{}

	if code := run([]string{input}, env, fake.factory()); code != ExitSuccess {
		t.Fatalf("run() = %d", code)
	}
	// The render timeout is applied inside Convert.
	if fake.deadline {
		t.Error("CLI context should carry no deadline")
	}
}
