// Package assets provides the HTML templates embedded in the binary.
//
// # Directory Structure
//
//	templates/
//	└── {name}.html    # document skeletons (e.g., resume.html)
//
// # Security
//
// Asset names are validated to prevent path traversal: a name is a single
// file stem with no separators or dots.
package assets
