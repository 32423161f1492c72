package web

import _ "embed"

// NotFoundHTML is the body returned for paths missing from the serving root
//
//go:embed static/404.html
var NotFoundHTML []byte
