package common

import (
	"strings"

	"golang.org/x/net/html"
)

// WrapDescriptionHTML wraps plain text or markdown in a minimal HTML
// fragment. The Azure DevOps System.Description field expects HTML; no
// markdown conversion is performed, only wrapping.
func WrapDescriptionHTML(text string) string {
	if text == "" {
		return ""
	}
	return "<div>" + text + "</div>"
}

// LooksLikeHTML reports whether a response body appears to be an HTML
// document rather than JSON or plain text. Azure DevOps serves HTML error
// pages for some auth and routing failures.
func LooksLikeHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
}

// ExtractHTMLText parses an HTML document and returns its text content with
// whitespace collapsed. Used to turn HTML error pages into readable error
// detail.
func ExtractHTMLText(body string) string {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return strings.TrimSpace(body)
	}

	var text strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)

	return strings.Join(strings.Fields(text.String()), " ")
}
