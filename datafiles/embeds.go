// Package datafiles carries the static files served next to the sprite
// sheets.
package datafiles

import "embed" // at least "import _ "embed"" is required

// HTMLTemplates holds the page templates: statetable.html lists a sheet's
// states and index.html lists every sheet.
//
//go:embed statetable.html index.html
var HTMLTemplates embed.FS
