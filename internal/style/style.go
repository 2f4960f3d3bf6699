// Package style holds the fixed style sheet of the résumé: page geometry, one
// presentation tuple per block kind, and the inline run styles.
//
// The sheet is built once and never changes afterwards. It is handed to the
// rendering collaborator as CSS.
package style

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/alnah/go-resume2pdf/internal/document"
)

// Sentinel errors for style sheet operations.
var (
	ErrUnknownKind  = errors.New("no style for block kind")
	ErrInvalidStyle = errors.New("invalid style")
)

// Font stacks. Helvetica matches the PDF base fonts; the fallbacks cover
// systems where Chrome cannot find it.
const (
	SansFont = `Helvetica, Arial, "Liberation Sans", sans-serif`
	MonoFont = `"Courier New", Courier, "Liberation Mono", monospace`
)

// Font weights.
const (
	WeightNormal = 400
	WeightBold   = 700
)

// Palette.
const (
	ColorInk       = "#1a1a1a" // title
	ColorPrimary   = "#2c3e50" // body text, section headings
	ColorSecondary = "#34495e" // subsection headings
	ColorAccent    = "#3498db" // links, section rule
	ColorSubtle    = "#555555" // contact and meta lines
	ColorCode      = "#e74c3c" // inline code
)

// Align is a horizontal text alignment.
type Align string

// Alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// BulletGlyph is drawn in the hanging indent of bullet blocks.
const BulletGlyph = "•"

// Rule is a horizontal line drawn beneath a block.
type Rule struct {
	WidthPt   float64
	Color     string
	PaddingPt float64 // gap between text and rule
}

// Style is the presentation of one block kind. Sizes are in points.
type Style struct {
	Font          string
	Weight        int
	SizePt        float64
	LeadingPt     float64 // 0 keeps the browser's normal line height
	Color         string
	SpaceBeforePt float64
	SpaceAfterPt  float64
	IndentPt      float64
	Align         Align
	Rule          *Rule

	// Glyph and GlyphIndentPt describe the leading glyph of hanging-indent blocks.
	Glyph         string
	GlyphIndentPt float64
}

// RunStyle is the presentation of an inline run kind that differs from its block.
type RunStyle struct {
	Font  string
	Color string
}

// Page is the page geometry in inches.
type Page struct {
	WidthIn        float64
	HeightIn       float64
	MarginTopIn    float64
	MarginBottomIn float64
	MarginLeftIn   float64
	MarginRightIn  float64
}

// Letter is US Letter with 0.5in top/bottom and 0.75in left/right margins.
var Letter = Page{
	WidthIn:        8.5,
	HeightIn:       11,
	MarginTopIn:    0.5,
	MarginBottomIn: 0.5,
	MarginLeftIn:   0.75,
	MarginRightIn:  0.75,
}

// Sheet maps block kinds to styles. Build it with New; it is read-only.
type Sheet struct {
	page   Page
	blocks map[document.Kind]Style
	code   RunStyle
	link   RunStyle
	css    string
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// New validates and freezes a style sheet. The block map is copied.
func New(page Page, blocks map[document.Kind]Style, code, link RunStyle) (*Sheet, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	frozen := make(map[document.Kind]Style, len(blocks))
	for kind, st := range blocks {
		if err := validateStyle(kind, st); err != nil {
			return nil, err
		}
		if st.Rule != nil {
			rule := *st.Rule
			st.Rule = &rule
		}
		frozen[kind] = st
	}
	for name, rs := range map[string]RunStyle{"code": code, "link": link} {
		if !hexColorPattern.MatchString(rs.Color) {
			return nil, fmt.Errorf("%w: %s run color %q", ErrInvalidStyle, name, rs.Color)
		}
	}

	s := &Sheet{page: page, blocks: frozen, code: code, link: link}
	s.css = buildCSS(s)
	return s, nil
}

// Lookup returns the style of a block kind.
func (s *Sheet) Lookup(kind document.Kind) (Style, error) {
	st, ok := s.blocks[kind]
	if !ok {
		return Style{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if st.Rule != nil {
		rule := *st.Rule
		st.Rule = &rule
	}
	return st, nil
}

// Page returns the page geometry.
func (s *Sheet) Page() Page {
	return s.page
}

// Code returns the style of inline code runs.
func (s *Sheet) Code() RunStyle {
	return s.code
}

// Link returns the style of link runs.
func (s *Sheet) Link() RunStyle {
	return s.link
}

// CSS returns the stylesheet rendered from the sheet. It is computed once in New.
func (s *Sheet) CSS() string {
	return s.css
}

func validatePage(p Page) error {
	if p.WidthIn <= 0 || p.HeightIn <= 0 {
		return fmt.Errorf("%w: page size %.2fx%.2fin", ErrInvalidStyle, p.WidthIn, p.HeightIn)
	}
	margins := []float64{p.MarginTopIn, p.MarginBottomIn, p.MarginLeftIn, p.MarginRightIn}
	for _, m := range margins {
		if m < 0 {
			return fmt.Errorf("%w: negative margin %.2fin", ErrInvalidStyle, m)
		}
	}
	if p.MarginLeftIn+p.MarginRightIn >= p.WidthIn || p.MarginTopIn+p.MarginBottomIn >= p.HeightIn {
		return fmt.Errorf("%w: margins leave no printable area", ErrInvalidStyle)
	}
	return nil
}

func validateStyle(kind document.Kind, st Style) error {
	if kind == document.KindBlank {
		return fmt.Errorf("%w: blank lines are never rendered", ErrInvalidStyle)
	}
	if st.Font == "" {
		return fmt.Errorf("%w: %s: empty font", ErrInvalidStyle, kind)
	}
	if st.SizePt <= 0 {
		return fmt.Errorf("%w: %s: font size must be positive", ErrInvalidStyle, kind)
	}
	if st.Weight != WeightNormal && st.Weight != WeightBold {
		return fmt.Errorf("%w: %s: weight %d", ErrInvalidStyle, kind, st.Weight)
	}
	if !hexColorPattern.MatchString(st.Color) {
		return fmt.Errorf("%w: %s: color %q", ErrInvalidStyle, kind, st.Color)
	}
	if st.Rule != nil && !hexColorPattern.MatchString(st.Rule.Color) {
		return fmt.Errorf("%w: %s: rule color %q", ErrInvalidStyle, kind, st.Rule.Color)
	}
	if st.SpaceBeforePt < 0 || st.SpaceAfterPt < 0 || st.IndentPt < 0 || st.LeadingPt < 0 {
		return fmt.Errorf("%w: %s: negative spacing", ErrInvalidStyle, kind)
	}
	switch st.Align {
	case "", AlignLeft, AlignCenter:
	default:
		return fmt.Errorf("%w: %s: align %q", ErrInvalidStyle, kind, st.Align)
	}
	return nil
}
