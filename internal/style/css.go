package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-resume2pdf/internal/document"
)

// cssOrder fixes the order of block rules so the stylesheet is byte-stable.
var cssOrder = []document.Kind{
	document.KindTitle,
	document.KindContactLine,
	document.KindSectionHeading,
	document.KindSubsectionHeading,
	document.KindMetaLine,
	document.KindBullet,
	document.KindParagraph,
}

// pt formats a length in points with the shortest exact decimal.
func pt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}

// in formats a length in inches.
func in(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "in"
}

func buildCSS(s *Sheet) string {
	var buf strings.Builder

	buf.WriteString(buildPageCSS(s.page))
	buf.WriteString(buildBaseCSS(s))
	for _, kind := range cssOrder {
		st, ok := s.blocks[kind]
		if !ok {
			continue
		}
		buf.WriteString(buildBlockCSS(kind, st))
	}
	buf.WriteString(buildRunCSS(s.code, s.link))
	buf.WriteString(buildPageBreaksCSS())

	return buf.String()
}

func buildPageCSS(p Page) string {
	return fmt.Sprintf(`@page {
  size: %s %s;
  margin: %s %s %s %s;
}
`, in(p.WidthIn), in(p.HeightIn),
		in(p.MarginTopIn), in(p.MarginRightIn), in(p.MarginBottomIn), in(p.MarginLeftIn))
}

// buildBaseCSS resets browser defaults so only the sheet decides spacing.
func buildBaseCSS(s *Sheet) string {
	body := s.blocks[document.KindParagraph]
	font, color := SansFont, ColorPrimary
	if body.Font != "" {
		font, color = body.Font, body.Color
	}

	return fmt.Sprintf(`
html, body {
  margin: 0;
  padding: 0;
}
body {
  font-family: %s;
  color: %s;
  -webkit-print-color-adjust: exact;
  print-color-adjust: exact;
}
h1, h2, h3, p {
  margin: 0;
  padding: 0;
}
`, font, color)
}

// buildBlockCSS emits one rule per block kind. Space before is padding, not
// margin, so it adds to the previous block's space after instead of collapsing.
func buildBlockCSS(kind document.Kind, st Style) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "\n.%s {\n", kind)
	fmt.Fprintf(&buf, "  font-family: %s;\n", st.Font)
	fmt.Fprintf(&buf, "  font-weight: %d;\n", st.Weight)
	fmt.Fprintf(&buf, "  font-size: %s;\n", pt(st.SizePt))
	if st.LeadingPt > 0 {
		fmt.Fprintf(&buf, "  line-height: %s;\n", pt(st.LeadingPt))
	}
	fmt.Fprintf(&buf, "  color: %s;\n", st.Color)
	if st.Align != "" {
		fmt.Fprintf(&buf, "  text-align: %s;\n", st.Align)
	}
	if st.SpaceBeforePt > 0 {
		fmt.Fprintf(&buf, "  padding-top: %s;\n", pt(st.SpaceBeforePt))
	}
	fmt.Fprintf(&buf, "  margin-bottom: %s;\n", pt(st.SpaceAfterPt))
	if st.IndentPt > 0 {
		fmt.Fprintf(&buf, "  padding-left: %s;\n", pt(st.IndentPt))
	}
	if st.Rule != nil {
		fmt.Fprintf(&buf, "  border-bottom: %s solid %s;\n", pt(st.Rule.WidthPt), st.Rule.Color)
		fmt.Fprintf(&buf, "  padding-bottom: %s;\n", pt(st.Rule.PaddingPt))
	}
	if st.Glyph != "" {
		buf.WriteString("  position: relative;\n")
	}
	buf.WriteString("}\n")

	if st.Glyph != "" {
		fmt.Fprintf(&buf, `.%s .glyph {
  position: absolute;
  left: %s;
}
`, kind, pt(st.GlyphIndentPt))
	}
	if kind == document.KindContactLine {
		fmt.Fprintf(&buf, `.%s .sep {
  margin: 0 6pt;
}
`, kind)
	}

	return buf.String()
}

func buildRunCSS(code, link RunStyle) string {
	return fmt.Sprintf(`
strong {
  font-weight: %d;
}
em {
  font-style: italic;
}
code {
  font-family: %s;
  font-size: inherit;
  color: %s;
}
a {
  color: %s;
  text-decoration: none;
}
`, WeightBold, code.Font, code.Color, link.Color)
}

// buildPageBreaksCSS keeps headings with the block that follows them.
func buildPageBreaksCSS() string {
	return `
h1, h2, h3 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
p {
  orphans: 2;
  widows: 2;
}
`
}
