// Package signals turns one form control and its surrounding document into
// an immutable bundle of classification signals.
//
// The package does not know how the page is rendered. Hosts supply the
// [Element] and [Document] interfaces (a browser bridge, a parsed HTML
// tree, a test fixture) and Gather only ever reads through them.
package signals

// Element is one node in the host's rendered document tree. Implementations
// must be read-only views; Gather never mutates the tree.
type Element interface {
	// TagName returns the lower-cased tag name, e.g. "input" or "label".
	TagName() string

	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string

	// HasAttr reports whether the attribute is present at all, which
	// differs from Attr for boolean attributes like required.
	HasAttr(name string) bool

	// OwnText returns text directly inside this node, excluding descendants.
	OwnText() string

	// Text returns the concatenated text of the whole subtree.
	Text() string

	// Parent returns the parent element, or nil at the document root.
	Parent() Element

	// Children returns the child elements in document order.
	Children() []Element

	// IsFormControl reports whether this is an interactive form control
	// (input, select, textarea).
	IsFormControl() bool

	// Same reports whether other is a view of the same underlying node.
	// Interface values from a host may not be comparable with ==.
	Same(other Element) bool

	// Rect returns the rendered width and height in CSS pixels, or 0,0
	// when the host cannot determine geometry.
	Rect() (width, height float64)

	// FontSize returns the computed font size in pixels, or 0 when unknown.
	FontSize() float64

	// Focused reports whether the control has received focus.
	Focused() bool

	// HasValue reports whether the control currently holds a value.
	HasValue() bool
}

// Document exposes the page-level context around an element.
type Document interface {
	// Title returns the document title.
	Title() string

	// URL returns the page URL, or "" when not applicable.
	URL() string

	// Headings returns the text of h1-h3 elements in document order.
	Headings() []string

	// Root returns the document's root element.
	Root() Element
}
