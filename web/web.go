package web

import "embed"

// FS holds the upload page and its assets.
//
//go:embed index.html static
var FS embed.FS
