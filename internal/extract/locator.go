// Package extract turns fetched psp.cz pages into typed records. Each field
// is located by an ordered list of XPath variants: the site markup changed
// across electoral terms, and the first variant with a match wins. Extraction
// failures are reported per row so that one malformed row never discards the
// rest of the page.
package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrFieldMissing is returned when a mandatory field locator matches nothing.
var ErrFieldMissing = errors.New("required field missing")

// Locator is an ordered list of XPath variants for one field or row set.
// Variants are tried in priority order; the first non-empty match wins.
type Locator []string

// All returns the nodes matched by the first variant that matches anything.
func (l Locator) All(top *html.Node) []*html.Node {
	for _, expr := range l {
		if nodes := htmlquery.Find(top, expr); len(nodes) > 0 {
			return nodes
		}
	}
	return nil
}

// First returns the first node matched by the first matching variant.
func (l Locator) First(top *html.Node) *html.Node {
	for _, expr := range l {
		if node := htmlquery.FindOne(top, expr); node != nil {
			return node
		}
	}
	return nil
}

// Parse parses an HTML document from raw bytes.
func Parse(body []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// node returns the first match of a relative XPath under n, or nil.
func node(n *html.Node, expr string) *html.Node {
	return htmlquery.FindOne(n, expr)
}

// text returns the cleaned inner text of the first match of a relative
// XPath under n. The second return value is false when nothing matched.
func text(n *html.Node, expr string) (string, bool) {
	found := htmlquery.FindOne(n, expr)
	if found == nil {
		return "", false
	}
	return CleanText(htmlquery.InnerText(found)), true
}

// innerText returns the cleaned inner text of n.
func innerText(n *html.Node) string {
	return CleanText(htmlquery.InnerText(n))
}

// attr returns the named attribute of n, or "".
func attr(n *html.Node, name string) string {
	return htmlquery.SelectAttr(n, name)
}
