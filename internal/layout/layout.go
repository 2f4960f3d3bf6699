// Package layout emits a parsed résumé as the HTML document handed to the
// rendering collaborator.
//
// Each block becomes one element whose class names its kind; the style sheet's
// CSS decides how that class looks. Output is deterministic: the same document
// and sheet always produce the same bytes.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-resume2pdf/internal/assets"
	"github.com/alnah/go-resume2pdf/internal/document"
	"github.com/alnah/go-resume2pdf/internal/inline"
	"github.com/alnah/go-resume2pdf/internal/style"
)

// ErrTemplate indicates the document skeleton could not be loaded or executed.
var ErrTemplate = errors.New("html template error")

// untitled is used for the <title> of documents without a title line.
const untitled = "Resume"

// contactSep is placed between contact fragments.
const contactSep = `<span class="sep">|</span>`

var loadSkeleton = sync.OnceValues(func() (*template.Template, error) {
	src, err := assets.LoadTemplate(assets.ResumeTemplateName)
	if err != nil {
		return nil, err
	}
	return template.New(assets.ResumeTemplateName).Parse(src)
})

// page is the data passed to the skeleton.
type page struct {
	Title string
	Body  template.HTML
}

// Emit renders doc as a complete HTML5 document styled by sheet.
func Emit(doc document.Document, sheet *style.Sheet) (string, error) {
	tmpl, err := loadSkeleton()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	body, err := emitBody(doc, sheet)
	if err != nil {
		return "", err
	}

	title := doc.Title()
	if title == "" {
		title = untitled
	}

	var buf bytes.Buffer
	// #nosec G203 -- body is built from escaped runs in emitBody
	if err := tmpl.Execute(&buf, page{Title: title, Body: template.HTML(body)}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	return injectCSS(buf.String(), sheet.CSS()), nil
}

func emitBody(doc document.Document, sheet *style.Sheet) (string, error) {
	var buf bytes.Buffer

	for _, b := range doc.Blocks() {
		st, err := sheet.Lookup(b.Kind)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", b.Line, err)
		}

		tag := tagFor(b.Kind)
		fmt.Fprintf(&buf, `<%s class="%s">`, tag, b.Kind)

		switch b.Kind {
		case document.KindContactLine:
			for i, frag := range b.Fragments {
				if i > 0 {
					buf.WriteString(contactSep)
				}
				writeRuns(&buf, frag)
			}
		default:
			if st.Glyph != "" {
				buf.WriteString(`<span class="glyph">`)
				buf.Write(util.EscapeHTML([]byte(st.Glyph)))
				buf.WriteString(`</span>`)
			}
			writeRuns(&buf, b.Runs)
		}

		fmt.Fprintf(&buf, "</%s>\n", tag)
	}

	return buf.String(), nil
}

func tagFor(kind document.Kind) string {
	switch kind {
	case document.KindTitle:
		return "h1"
	case document.KindSectionHeading:
		return "h2"
	case document.KindSubsectionHeading:
		return "h3"
	default:
		return "p"
	}
}

func writeRuns(buf *bytes.Buffer, runs []inline.Run) {
	for _, r := range runs {
		text := util.EscapeHTML([]byte(r.Text))

		switch r.Kind {
		case inline.Bold:
			wrap(buf, "strong", text)
		case inline.Italic:
			wrap(buf, "em", text)
		case inline.Code:
			wrap(buf, "code", text)
		case inline.Link:
			writeLink(buf, r.URL, text)
		default:
			buf.Write(text)
		}
	}
}

func wrap(buf *bytes.Buffer, tag string, text []byte) {
	buf.WriteString("<" + tag + ">")
	buf.Write(text)
	buf.WriteString("</" + tag + ">")
}

// writeLink emits an anchor. Dangerous schemes keep the link text only.
func writeLink(buf *bytes.Buffer, url string, text []byte) {
	dest := []byte(strings.TrimSpace(url))
	if len(dest) == 0 || html.IsDangerousURL(dest) {
		buf.Write(text)
		return
	}
	buf.WriteString(`<a href="`)
	buf.Write(util.EscapeHTML(util.URLEscape(dest, true)))
	buf.WriteString(`">`)
	buf.Write(text)
	buf.WriteString(`</a>`)
}
