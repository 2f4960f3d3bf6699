package document

import (
	"regexp"
	"strings"

	"github.com/alnah/go-resume2pdf/internal/inline"
)

// byteOrderMark is dropped from the start of the input.
const byteOrderMark = "\ufeff"

// contactSeparator splits a contact line into fragments.
const contactSeparator = "|"

var headingPattern = regexp.MustCompile(`^(#{1,3})[ \t]+(.*)$`)

// state tracks the context-dependent rules of the grammar: the lines right
// after the title are contact lines, and the first line after a subsection
// heading may be a meta line. Blank lines do not reset either expectation
// until the expected line has been seen.
type state int

const (
	stateDefault state = iota
	stateAwaitingContact
	stateInContact
	stateAwaitingMeta
)

// line is a classified source line.
type line struct {
	kind Kind
	raw  string // trimmed source line
	text string // raw without its structural prefix
}

func (l line) isHeading() bool {
	switch l.kind {
	case KindTitle, KindSectionHeading, KindSubsectionHeading:
		return true
	}
	return false
}

// classify assigns the context-free kind of a trimmed line. Meta and contact
// lines depend on context and are decided by the parser.
func classify(raw string) line {
	if raw == "" {
		return line{kind: KindBlank}
	}

	if m := headingPattern.FindStringSubmatch(raw); m != nil {
		text := strings.TrimSpace(m[2])
		switch len(m[1]) {
		case 1:
			return line{kind: KindTitle, raw: raw, text: text}
		case 2:
			return line{kind: KindSectionHeading, raw: raw, text: text}
		default:
			return line{kind: KindSubsectionHeading, raw: raw, text: text}
		}
	}

	if strings.HasPrefix(raw, "- ") || strings.HasPrefix(raw, "* ") {
		return line{kind: KindBullet, raw: raw, text: strings.TrimSpace(raw[2:])}
	}

	return line{kind: KindParagraph, raw: raw, text: raw}
}

// parser builds the block sequence in a single pass.
type parser struct {
	state  state
	titled bool
	blocks []Block
}

// Parse splits markdown into blocks. It never fails: unknown lines become
// paragraphs and blank lines produce nothing.
func Parse(markdown string) Document {
	markdown = strings.TrimPrefix(markdown, byteOrderMark)

	p := &parser{}
	for i, raw := range strings.Split(markdown, "\n") {
		p.feed(i+1, strings.TrimSpace(raw))
	}
	return Document{blocks: p.blocks}
}

func (p *parser) feed(n int, raw string) {
	l := classify(raw)

	switch p.state {
	case stateAwaitingContact:
		if l.kind == KindBlank {
			return
		}
		if !l.isHeading() {
			p.state = stateInContact
			p.emitContact(n, l)
			return
		}
		p.state = stateDefault

	case stateInContact:
		if l.kind == KindBlank {
			p.state = stateDefault
			return
		}
		if !l.isHeading() {
			p.emitContact(n, l)
			return
		}
		p.state = stateDefault

	case stateAwaitingMeta:
		if l.kind == KindBlank {
			return
		}
		p.state = stateDefault
		if strings.HasPrefix(l.raw, "**") {
			p.emit(n, KindMetaLine, l.raw)
			return
		}
	}

	p.feedDefault(n, l)
}

func (p *parser) feedDefault(n int, l line) {
	switch l.kind {
	case KindBlank:
		return
	case KindTitle:
		if p.titled {
			p.emit(n, KindParagraph, l.raw)
			return
		}
		p.titled = true
		p.state = stateAwaitingContact
		p.emit(n, KindTitle, l.text)
	case KindSubsectionHeading:
		p.state = stateAwaitingMeta
		p.emit(n, KindSubsectionHeading, l.text)
	default:
		p.emit(n, l.kind, l.text)
	}
}

func (p *parser) emit(n int, kind Kind, text string) {
	p.blocks = append(p.blocks, Block{
		Kind: kind,
		Text: text,
		Runs: inline.Format(text),
		Line: n,
	})
}

// emitContact keeps the whole line as the block text and formats each
// pipe-separated fragment on its own. Empty fragments are dropped.
func (p *parser) emitContact(n int, l line) {
	var fragments [][]inline.Run
	for _, part := range strings.Split(l.raw, contactSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fragments = append(fragments, inline.Format(part))
	}

	p.blocks = append(p.blocks, Block{
		Kind:      KindContactLine,
		Text:      l.raw,
		Runs:      inline.Format(l.raw),
		Fragments: fragments,
		Line:      n,
	})
}
