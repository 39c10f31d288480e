// Package templates embeds the HTML templates rendered by package view.
package templates

import "embed"

//go:embed *.html partials/*.html
var FS embed.FS
