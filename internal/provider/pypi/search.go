package pypi

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	classSnippet            = "package-snippet"
	classSnippetName        = "package-snippet__name"
	classSnippetVersion     = "package-snippet__version"
	classSnippetDescription = "package-snippet__description"
	classSnippetCreated     = "package-snippet__created"
)

// parseSearchResults extracts the package snippets of the PyPI search results page.
// PyPI has no JSON search API, so the HTML served to browsers is the only source.
func parseSearchResults(body []byte, limit int) ([]packages.Summary, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid HTML: %w", err)
	}

	var results []packages.Summary
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if len(results) >= limit {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A && hasClass(n, classSnippet) {
			if s, ok := parseSnippet(n); ok {
				results = append(results, s)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return results, nil
}

func parseSnippet(n *html.Node) (packages.Summary, bool) {
	s := packages.Summary{Index: packages.IndexPyPI}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, classSnippetName):
				s.Name = text(n)
			case hasClass(n, classSnippetVersion):
				s.Version = text(n)
			case hasClass(n, classSnippetDescription):
				s.Description = text(n)
			case n.DataAtom == atom.Time && hasClass(n.Parent, classSnippetCreated):
				s.Date = attr(n, "datetime")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return s, s.Name != ""
}

func hasClass(n *html.Node, class string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text returns the whitespace-collapsed text content of n.
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
