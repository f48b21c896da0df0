// Package web embeds the browser UI assets served by the http package.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and other static files.
//
//go:embed static/*
var StaticFS embed.FS
