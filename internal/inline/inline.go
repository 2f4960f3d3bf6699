// Package inline turns one line of résumé Markdown into a sequence of styled runs.
//
// The dialect is small: links, bold, italic and inline code. Recognition is a
// fixed pipeline of stages (links, bold, italic, code). Each stage only rewrites
// text that no earlier stage has tagged, so the order of the stages decides every
// overlap. Tagged runs are never re-entered: a link's text stays literal and a
// code span cannot contain italic text produced earlier.
package inline

import (
	"regexp"
	"strings"
)

// Kind is the inline style carried by a run.
type Kind int

// Run kinds. Bold and italic never combine in this dialect, so a run carries
// exactly one kind.
const (
	Plain Kind = iota
	Bold
	Italic
	Code
	Link
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	}
	return "unknown"
}

// Run is a span of text with one inline style. URL is only set for Link runs.
type Run struct {
	Text string
	Kind Kind
	URL  string
}

// stage is one step of the pipeline. It locates the first match in s and
// returns the byte range of the whole match (markers included) and the run
// that replaces it.
type stage func(s string) (start, end int, r Run, ok bool)

var (
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldStarPattern    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderPattern   = regexp.MustCompile(`__([^_]+)__`)
	italicStarPattern  = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderPattern = regexp.MustCompile(`_([^_]+)_`)
	codePattern        = regexp.MustCompile("`([^`]+)`")
)

// stages is the pipeline. Order matters: running italic before bold would read
// **x** as an italic span wrapped in stray asterisks.
var stages = []stage{
	findLink,
	paired(boldStarPattern, Bold),
	paired(boldUnderPattern, Bold),
	single(italicStarPattern, '*', Italic),
	single(italicUnderPattern, '_', Italic),
	paired(codePattern, Code),
}

// Format converts a line of raw Markdown into runs.
// Empty input yields no runs. Unmatched markers are kept as literal text.
// Format is not idempotent: call it once per raw line.
func Format(text string) []Run {
	if text == "" {
		return nil
	}

	runs := []Run{{Text: text, Kind: Plain}}
	for _, st := range stages {
		runs = st.apply(runs)
	}
	return coalesce(runs)
}

// PlainText concatenates the text of all runs, dropping markup.
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// apply rewrites every plain run of the input and keeps tagged runs as they are.
func (st stage) apply(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Kind != Plain {
			out = append(out, r)
			continue
		}
		out = append(out, st.split(r.Text)...)
	}
	return out
}

// split cuts s around every non-overlapping match, left to right.
func (st stage) split(s string) []Run {
	var out []Run
	rest := s
	for rest != "" {
		start, end, r, ok := st(rest)
		if !ok {
			break
		}
		if start > 0 {
			out = append(out, Run{Text: rest[:start], Kind: Plain})
		}
		out = append(out, r)
		rest = rest[end:]
	}
	if rest != "" {
		out = append(out, Run{Text: rest, Kind: Plain})
	}
	return out
}

func findLink(s string) (int, int, Run, bool) {
	m := linkPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return 0, 0, Run{}, false
	}
	return m[0], m[1], Run{Text: s[m[2]:m[3]], Kind: Link, URL: s[m[4]:m[5]]}, true
}

// paired matches a delimiter pair whose interior holds no delimiter character.
func paired(re *regexp.Regexp, kind Kind) stage {
	return func(s string) (int, int, Run, bool) {
		m := re.FindStringSubmatchIndex(s)
		if m == nil {
			return 0, 0, Run{}, false
		}
		return m[0], m[1], Run{Text: s[m[2]:m[3]], Kind: kind}, true
	}
}

// single matches a one-character marker pair. The opening marker must not
// follow another marker and the closing marker must not precede one, so the
// halves of a double marker are never taken for an italic boundary.
func single(re *regexp.Regexp, marker byte, kind Kind) stage {
	return func(s string) (int, int, Run, bool) {
		from := 0
		for from < len(s) {
			m := re.FindStringSubmatchIndex(s[from:])
			if m == nil {
				return 0, 0, Run{}, false
			}
			start, end := from+m[0], from+m[1]
			openOK := start == 0 || s[start-1] != marker
			closeOK := end == len(s) || s[end] != marker
			if openOK && closeOK {
				return start, end, Run{Text: s[from+m[2] : from+m[3]], Kind: kind}, true
			}
			from = start + 1
		}
		return 0, 0, Run{}, false
	}
}

// coalesce merges adjacent plain runs and drops empty ones.
func coalesce(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if r.Kind == Plain {
			if r.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == Plain {
				out[n-1].Text += r.Text
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
