// Package render turns resolved article markdown into sanitized HTML.
// Heading IDs come from wiki.Slugify, so every anchor in the section tree
// and table of contents resolves to a heading on the rendered page.
package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/dgallion1/wikiparse/internal/wiki"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var idRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Citation markup is raw HTML; the policy below scrubs the result.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(idRe).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "div")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowDataAttributes()
	p.AllowRelativeURLs(true)
	return p
}

// HTML renders markdown. Heading IDs are not deduplicated: two headings with
// the same text share an ID, matching their shared anchor.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(slugIDs{}))
	if err := r.md.Convert([]byte(markdown), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// slugIDs assigns heading IDs with wiki.Slugify.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(wiki.Slugify(string(value)))
}

func (slugIDs) Put([]byte) {}
