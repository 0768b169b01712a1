package templates

import "embed"

// FS exposes the templates cbordump renders its Go fixture output with.
//
//go:embed *.go.tpl
var FS embed.FS
