package resume2pdf

import "errors"

// ErrRenderFailure wraps every failure of the rendering collaborator. The
// specific cause stays reachable through errors.Is.
var ErrRenderFailure = errors.New("render failed")

// Browser errors, always wrapped in ErrRenderFailure by Convert.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
