package templates

import "embed"

// FS holds the email templates rendered by the notifier.
//
//go:embed *.html
var FS embed.FS
