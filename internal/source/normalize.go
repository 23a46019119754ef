package source

import (
	"strings"

	"golang.org/x/net/html"
)

// NormalizeDescription strips markup from an upstream HTML description and
// collapses whitespace. Returns the input unchanged when it does not parse.
func NormalizeDescription(htmlContent string) string {
	if htmlContent == "" || !strings.Contains(htmlContent, "<") {
		return strings.Join(strings.Fields(htmlContent), " ")
	}
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}
	text := extractText(doc)
	return strings.Join(strings.Fields(text), " ")
}

func extractText(n *html.Node) string {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
		sb.WriteString(" ")
	}
	return sb.String()
}
