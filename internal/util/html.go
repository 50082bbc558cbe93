package util

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags whose text content is never part of the readable body.
var skipTags = map[string]bool{
	"script": true, "style": true, "head": true, "nav": true,
	"footer": true, "aside": true, "form": true, "noscript": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true, "br": true, "tr": true,
}

// ExtractText extracts readable plain text from rendered HTML, such as the
// content.rendered field of a WordPress post. Block-level boundaries become
// single spaces and whitespace runs are normalized. If the input does not
// parse as HTML it is returned with whitespace normalized only.
func ExtractText(rendered string) string {
	trimmed := strings.TrimSpace(rendered)
	if trimmed == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return normalizeSpace(trimmed)
	}

	var b strings.Builder
	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteByte(' ')
		}
	}
	traverse(doc)

	return normalizeSpace(b.String())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
