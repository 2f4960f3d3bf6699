// Package resume2pdf converts a résumé written in a small Markdown dialect to
// a styled, paginated PDF using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := resume2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, resume2pdf.Input{
//	    Markdown: "# Jane Doe\njane@example.com | (555) 010-0000\n\n## Experience",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("resume.pdf", result.PDF, 0644)
//
// The result contains the parsed document, the PDF bytes (result.PDF) and
// the intermediate HTML (result.HTML) for debugging. Use Input.HTMLOnly to
// skip PDF generation.
//
// # Dialect
//
// One line is one block:
//
//	# Name                      title, once per document
//	a@b.c | (555) 010 | [Web](https://x)   contact lines right after the title
//	## Section                  section heading with a rule beneath
//	### Role                    subsection heading
//	**Org** | City | 2020-2024  meta line right after a subsection
//	- item / * item             bullet
//	anything else               paragraph
//
// Inside a line, **bold**, __bold__, *italic*, _italic_, `code` and
// [text](url) are recognized. Bold and italic never nest.
//
// # Conversion Pipeline
//
//  1. Block parse (internal/document) with inline formatting per block (internal/inline)
//  2. HTML emission with the fixed style sheet as CSS (internal/layout, internal/style)
//  3. PDF rendering via headless Chrome (go-rod) on US Letter paper
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package resume2pdf
