// Package normalize converts a fetched article page from HTML into the
// markdown the cleaner expects. It isolates the main content container,
// drops page noise, and converts the remainder with html-to-markdown.
package normalize

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before conversion.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "aside",
	"img", "picture", "figure", "svg", "canvas",
	"iframe", "video", "audio",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
	"[role=navigation]", "[aria-hidden=true]",
}

// contentSelectors are tried in order; the first match is converted.
var contentSelectors = []string{"main", "article", "body"}

// Normalizer is safe for concurrent use.
type Normalizer struct {
	conv *converter.Converter
}

func New() *Normalizer {
	return &Normalizer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// ExtractContent returns the outer HTML of the page's main content with
// noise elements removed.
func ExtractContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			content = s.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	out, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return out, nil
}

// Markdown converts a full HTML page to markdown. Relative links are made
// absolute against sourceURL when it is set.
func (n *Normalizer) Markdown(html, sourceURL string) (string, error) {
	content, err := ExtractContent(html)
	if err != nil {
		return "", err
	}

	var opts []converter.ConvertOptionFunc
	if sourceURL != "" {
		opts = append(opts, converter.WithDomain(sourceURL))
	}
	md, err := n.conv.ConvertString(content, opts...)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}
