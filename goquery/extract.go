// Package goquery provides HTML parsing implementations of the
// sitechat.Extractor and sitechat.LinkExtractor interfaces.
package goquery

import (
	"strings"

	"github.com/fwojciec/sitechat"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitechat.Extractor at compile time.
var _ sitechat.Extractor = (*Extractor)(nil)

// Extractor normalizes page markup to plain text. Script, style, noscript,
// and template subtrees are removed entirely (including their content); the
// text of everything else is kept with whitespace runs collapsed to single
// spaces. It succeeds on any input: the HTML5 parser has no failure mode
// for malformed markup.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// skippedElements are removed wholesale during text extraction.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extract processes raw HTML and returns the page title and normalized text.
func (e *Extractor) Extract(markup string) (*sitechat.ExtractResult, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, sitechat.Errorf(sitechat.EINVALID, "failed to parse HTML: %v", err)
	}

	var title string
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "title" && title == "" {
				title = strings.TrimSpace(nodeText(n))
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return &sitechat.ExtractResult{
		Title: title,
		Text:  collapseWhitespace(sb.String()),
	}, nil
}

// nodeText returns the concatenated text of a node's children.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// collapseWhitespace reduces all whitespace runs to single spaces and trims
// the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
