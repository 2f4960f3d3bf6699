// Package document parses résumé Markdown into an ordered sequence of blocks.
//
// Parsing is total: every line of input either becomes a block or is a blank
// line that only separates blocks. Lines that match no known pattern degrade to
// paragraphs, so Parse has no error return.
package document

import (
	"slices"

	"github.com/alnah/go-resume2pdf/internal/inline"
)

// Kind classifies a block.
type Kind int

// Block kinds, in the order they usually appear in a résumé.
const (
	KindBlank Kind = iota
	KindTitle
	KindContactLine
	KindSectionHeading
	KindSubsectionHeading
	KindMetaLine
	KindBullet
	KindParagraph
)

var kindNames = map[Kind]string{
	KindBlank:             "blank",
	KindTitle:             "title",
	KindContactLine:       "contact",
	KindSectionHeading:    "section",
	KindSubsectionHeading: "subsection",
	KindMetaLine:          "meta",
	KindBullet:            "bullet",
	KindParagraph:         "paragraph",
}

// String returns the short name of the kind, also used as its CSS class.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Block is one structural unit of the source document.
type Block struct {
	Kind Kind

	// Text is the source line with its structural prefix removed.
	Text string

	// Runs holds the inline-formatted Text.
	Runs []inline.Run

	// Fragments is only set on contact lines: each pipe-separated piece of the
	// line, formatted on its own so a link keeps its own span.
	Fragments [][]inline.Run

	// Line is the 1-based source line number.
	Line int
}

// Document is the ordered, immutable result of a parse.
type Document struct {
	blocks []Block
}

// Blocks returns a deep copy of the blocks in source order.
func (d Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.clone()
	}
	return out
}

func (b Block) clone() Block {
	b.Runs = slices.Clone(b.Runs)
	if b.Fragments != nil {
		frags := make([][]inline.Run, len(b.Fragments))
		for i, f := range b.Fragments {
			frags[i] = slices.Clone(f)
		}
		b.Fragments = frags
	}
	return b
}

// Len returns the number of blocks.
func (d Document) Len() int {
	return len(d.blocks)
}

// Kinds returns the kind sequence of the document.
func (d Document) Kinds() []Kind {
	kinds := make([]Kind, len(d.blocks))
	for i, b := range d.blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

// Title returns the plain text of the title block, or "" if there is none.
func (d Document) Title() string {
	for _, b := range d.blocks {
		if b.Kind == KindTitle {
			return inline.PlainText(b.Runs)
		}
	}
	return ""
}

// Count returns the number of blocks of the given kind.
func (d Document) Count(k Kind) int {
	n := 0
	for _, b := range d.blocks {
		if b.Kind == k {
			n++
		}
	}
	return n
}
