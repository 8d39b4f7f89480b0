// Package htmldom adapts parsed HTML to the signals host interfaces, so
// any markup fragment or saved page can be classified without a live
// browser.
//
// Static markup has no layout, so geometry degrades to fixed defaults:
// controls report a nominal rendered box unless the markup itself hides
// them (type=hidden or the hidden attribute). Hosts with a real rendering
// engine should implement signals.Element directly instead.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/arcbjorn/formsense/pkg/signals"
)

const (
	defaultWidth    = 200
	defaultHeight   = 30
	defaultFontSize = 16
)

// Document wraps a parsed HTML document.
type Document struct {
	doc *goquery.Document
	url string
}

// Parse reads and parses an HTML document. url is the page URL recorded in
// the signal bundles; it may be empty for fragments.
func Parse(r io.Reader, url string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return &Document{doc: doc, url: url}, nil
}

// ParseString parses an HTML string.
func ParseString(markup, url string) (*Document, error) {
	return Parse(strings.NewReader(markup), url)
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.doc.Find("title").First().Text()
}

// URL returns the page URL supplied at parse time.
func (d *Document) URL() string {
	return d.url
}

// Headings returns the text of h1-h3 elements in document order.
func (d *Document) Headings() []string {
	var out []string
	d.doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

// Root returns the document's root element.
func (d *Document) Root() signals.Element {
	sel := d.doc.Find("html").First()
	if len(sel.Nodes) == 0 {
		return nil
	}
	return &element{n: sel.Nodes[0]}
}

// Controls returns every input, select and textarea in document order.
func (d *Document) Controls() []signals.Element {
	var out []signals.Element
	d.doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{n: s.Nodes[0]})
	})
	return out
}

// element implements signals.Element over an html.Node.
type element struct {
	n *html.Node
}

func (e *element) TagName() string {
	return strings.ToLower(e.n.Data)
}

func (e *element) Attr(name string) string {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (e *element) HasAttr(name string) bool {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return true
		}
	}
	return false
}

func (e *element) OwnText() string {
	var sb strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func (e *element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return sb.String()
}

func (e *element) Parent() signals.Element {
	for p := e.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return &element{n: p}
		}
	}
	return nil
}

func (e *element) Children() []signals.Element {
	var out []signals.Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &element{n: c})
		}
	}
	return out
}

func (e *element) IsFormControl() bool {
	switch e.TagName() {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func (e *element) Same(other signals.Element) bool {
	o, ok := other.(*element)
	return ok && o.n == e.n
}

// Rect reports a nominal rendered box unless the markup hides the control.
func (e *element) Rect() (float64, float64) {
	if strings.EqualFold(e.Attr("type"), "hidden") || e.HasAttr("hidden") {
		return 0, 0
	}
	return defaultWidth, defaultHeight
}

func (e *element) FontSize() float64 {
	return defaultFontSize
}

// Focused approximates focus state from the autofocus attribute; static
// markup carries no live focus information.
func (e *element) Focused() bool {
	return e.HasAttr("autofocus")
}

func (e *element) HasValue() bool {
	if e.TagName() == "select" {
		found := false
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode && strings.EqualFold(n.Data, "option") {
				for _, a := range n.Attr {
					if strings.EqualFold(a.Key, "selected") {
						found = true
						return
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(e.n)
		return found
	}
	return e.Attr("value") != ""
}
