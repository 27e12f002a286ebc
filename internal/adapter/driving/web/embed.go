package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and feed client script).
//
//go:embed static/*
var StaticFS embed.FS
