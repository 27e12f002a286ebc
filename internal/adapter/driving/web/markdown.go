package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer      goldmark.Markdown
	inlineSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// Repository descriptions are one line of prose, so only inline markup
	// survives. Block wrappers such as <p> are dropped and their text kept.
	inlineSanitizer = bluemonday.NewPolicy()
	inlineSanitizer.AllowElements("code", "em", "strong", "del", "br")
	inlineSanitizer.AllowStandardURLs()
	inlineSanitizer.AllowAttrs("href").OnElements("a")
	inlineSanitizer.RequireNoFollowOnLinks(true)
	inlineSanitizer.AddTargetBlankToFullyQualifiedLinks(true)
}

// RenderInlineMarkdown converts a repository description to sanitized inline
// HTML. Returns empty string for empty input.
func RenderInlineMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return strings.TrimSpace(inlineSanitizer.Sanitize(src))
	}

	return strings.TrimSpace(inlineSanitizer.Sanitize(buf.String()))
}
