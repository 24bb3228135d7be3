// -----------------------------------------------------------------------
// Markup - parsed snapshot documents and structural region checks
// -----------------------------------------------------------------------

package promo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MarkupNode is the minimal structural capability the extraction pipeline
// needs from a parsed markup tree: tag name, attribute access and a parent
// pointer. It decouples the region checks from the parser's node types.
type MarkupNode interface {
	Name() string
	Attr(key string) string
	Parent() MarkupNode
}

// htmlNode adapts the x/net/html nodes underlying goquery documents
type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Name() string {
	if h.n.Type == html.ElementNode {
		return h.n.Data
	}
	return ""
}

func (h htmlNode) Attr(key string) string {
	for _, a := range h.n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (h htmlNode) Parent() MarkupNode {
	if h.n.Parent == nil {
		return nil
	}
	return htmlNode{n: h.n.Parent}
}

// InNavigation reports whether a node sits inside a navigation region: a nav
// element, a navigation-indicator class token, or a navigation ARIA role,
// searched up to navAncestorDepth ancestor levels.
func InNavigation(node MarkupNode) bool {
	current := node
	for depth := 0; current != nil && depth <= navAncestorDepth; depth++ {
		if current.Name() == "nav" {
			return true
		}
		classes := strings.ToLower(current.Attr("class"))
		for _, indicator := range navIndicators {
			if strings.Contains(classes, indicator) {
				return true
			}
		}
		switch strings.ToLower(current.Attr("role")) {
		case "navigation", "menuitem":
			return true
		}
		current = current.Parent()
	}
	return false
}

// InNewsletter reports whether a node sits inside a newsletter/signup
// region: a form or input ancestor, or a signup-indicator class/id token.
// Unlike the navigation check, the walk is unbounded.
func InNewsletter(node MarkupNode) bool {
	for current := node; current != nil; current = current.Parent() {
		switch current.Name() {
		case "form", "input":
			return true
		}
		classes := strings.ToLower(current.Attr("class"))
		id := strings.ToLower(current.Attr("id"))
		for _, indicator := range newsletterIndicators {
			if strings.Contains(classes, indicator) || strings.Contains(id, indicator) {
				return true
			}
		}
	}
	return false
}

// textSpan is one visible text node and the byte range its stripped content
// occupies in the document's joined visible text
type textSpan struct {
	node  MarkupNode
	start int
	end   int
}

// Document wraps one parsed snapshot for extraction: the visible text plus
// the structural spans needed for nav/newsletter suppression. Plain-text
// snapshots (social captions, OCR blobs) have no spans; every occurrence in
// them is structurally valid.
type Document struct {
	text  string
	spans []textSpan
}

// ParseDocument parses snapshot markup into a Document. The visible text is
// the whitespace-stripped content of every non-script text node, joined by
// single spaces, matching how the page reads to a user.
func ParseDocument(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot markup: %w", err)
	}

	d := &Document{}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			stripped := strings.Join(strings.Fields(n.Data), " ")
			if stripped != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				start := b.Len()
				b.WriteString(stripped)
				d.spans = append(d.spans, textSpan{node: htmlNode{n: n}, start: start, end: b.Len()})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}

	d.text = b.String()
	return d, nil
}

// NewTextDocument builds a Document from already-plain text
func NewTextDocument(text string) *Document {
	return &Document{text: strings.Join(strings.Fields(text), " ")}
}

// Text returns the whitespace-normalized visible text
func (d *Document) Text() string {
	return d.text
}

// AppendText appends an additional text blob (e.g. OCR output from banner
// images) to the visible text. Appended text carries no markup structure,
// so occurrences in it are never suppressed.
func (d *Document) AppendText(extra string) {
	stripped := strings.Join(strings.Fields(extra), " ")
	if stripped == "" {
		return
	}
	if d.text == "" {
		d.text = stripped
		return
	}
	d.text = d.text + " " + stripped
}

// validAt reports whether the text at byte offset sits outside navigation
// and newsletter regions. Offsets past the structural spans (plain-text
// documents, appended OCR text) are always valid.
func (d *Document) validAt(offset int) bool {
	for _, s := range d.spans {
		if offset >= s.start && offset < s.end {
			return !InNavigation(s.node) && !InNewsletter(s.node)
		}
	}
	return true
}

// window extracts a bounded excerpt around [matchStart, matchEnd), taking
// size bytes either side, snapped back to rune boundaries and marked with
// ellipses where the text was truncated mid-document.
func (d *Document) window(matchStart, matchEnd, size int) string {
	start := matchStart - size
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(d.text[start]) {
		start--
	}
	end := matchEnd + size
	if end > len(d.text) {
		end = len(d.text)
	}
	for end < len(d.text) && !utf8.RuneStart(d.text[end]) {
		end++
	}

	excerpt := strings.TrimSpace(d.text[start:end])
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(d.text) {
		excerpt = excerpt + "..."
	}
	return excerpt
}
