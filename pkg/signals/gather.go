package signals

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxLabelLen     = 100 // a preceding sibling longer than this is prose, not a label
	maxContainerLen = 500
	maxSiblingsLen  = 300
	maxSectionLen   = 120
	siblingWindow   = 2
	maxOptionSample = 8
)

// Gather produces the signal bundle for one form control. It never mutates
// the element or the document; missing or malformed attributes degrade to
// empty strings.
func Gather(el Element, doc Document) *Bundle {
	b := &Bundle{
		Attrs:     gatherAttrs(el),
		Context:   gatherContext(el, doc),
		Structure: gatherStructure(el),
		Visual:    gatherVisual(el),
		Behavior:  gatherBehavior(el),
	}
	return b
}

func gatherAttrs(el Element) Attributes {
	kind := el.TagName()
	if kind == "input" {
		if t := norm(el.Attr("type")); t != "" {
			kind = t
		} else {
			kind = "text"
		}
	}

	var classes []string
	for _, c := range strings.Fields(norm(el.Attr("class"))) {
		classes = append(classes, c)
	}

	return Attributes{
		Name:         norm(el.Attr("name")),
		ID:           norm(el.Attr("id")),
		Classes:      classes,
		Placeholder:  norm(el.Attr("placeholder")),
		InputKind:    kind,
		Autocomplete: norm(el.Attr("autocomplete")),
		Title:        norm(el.Attr("title")),
		AriaLabel:    norm(el.Attr("aria-label")),
		TestID:       norm(el.Attr("data-testid")),
	}
}

func gatherContext(el Element, doc Document) Context {
	ctx := Context{
		Label:     resolveLabel(el, doc),
		Container: truncate(containerText(el), maxContainerLen),
		Siblings:  truncate(siblingText(el), maxSiblingsLen),
	}

	if el.TagName() == "select" {
		ctx.Options = optionSample(el)
	}

	if doc != nil {
		ctx.PageTitle = norm(doc.Title())
		ctx.PageURL = norm(doc.URL())
		for _, h := range doc.Headings() {
			if h = norm(h); h != "" {
				ctx.Headings = append(ctx.Headings, h)
			}
		}
	}
	ctx.SectionTxt = truncate(sectionText(el), maxSectionLen)
	return ctx
}

// resolveLabel finds the text labelling the control. First match wins:
// an aria-labelledby reference, a label with a matching for attribute, an
// ancestor label wrapping the control, then the nearest preceding sibling
// with short text. The sibling scan skips empty and over-long siblings
// but never crosses an earlier form control, whose surroundings label
// that control instead.
func resolveLabel(el Element, doc Document) string {
	var root Element
	if doc != nil {
		root = doc.Root()
	}

	if root != nil {
		if ref := strings.Fields(el.Attr("aria-labelledby")); len(ref) > 0 {
			var parts []string
			for _, id := range ref {
				if n := findByID(root, id); n != nil {
					if t := norm(n.Text()); t != "" {
						parts = append(parts, t)
					}
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, " ")
			}
		}

		if id := el.Attr("id"); id != "" {
			if lbl := findLabelFor(root, id); lbl != nil {
				if t := norm(lbl.Text()); t != "" {
					return t
				}
			}
		}
	}

	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "label" {
			return norm(strippedText(p))
		}
	}

	if p := el.Parent(); p != nil {
		kids := p.Children()
		for i := indexOf(kids, el) - 1; i >= 0; i-- {
			if kids[i].IsFormControl() {
				break
			}
			if t := norm(kids[i].Text()); t != "" && len(t) < maxLabelLen {
				return t
			}
		}
	}
	return ""
}

// containerText is the parent's text with every nested form-control subtree
// removed, so sibling field values never leak into context.
func containerText(el Element) string {
	p := el.Parent()
	if p == nil {
		return ""
	}
	return norm(strippedText(p))
}

// strippedText collects subtree text, skipping form-control subtrees.
func strippedText(el Element) string {
	if el.IsFormControl() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(el.OwnText())
	for _, c := range el.Children() {
		sb.WriteString(" ")
		sb.WriteString(strippedText(c))
	}
	return sb.String()
}

// siblingText joins the text of a bounded window of elements around the
// control among its parent's children (two before, two after).
func siblingText(el Element) string {
	p := el.Parent()
	if p == nil {
		return ""
	}
	kids := p.Children()
	idx := indexOf(kids, el)
	if idx < 0 {
		return ""
	}

	var parts []string
	for i := idx - siblingWindow; i <= idx+siblingWindow; i++ {
		if i < 0 || i >= len(kids) || i == idx {
			continue
		}
		if t := norm(strippedText(kids[i])); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func optionSample(el Element) string {
	var parts []string
	var walk func(Element)
	walk = func(n Element) {
		if len(parts) >= maxOptionSample {
			return
		}
		if n.TagName() == "option" {
			if t := norm(n.OwnText()); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(el)
	return strings.Join(parts, " ")
}

func sectionText(el Element) string {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "section" {
			return norm(strippedText(p))
		}
	}
	return ""
}

func gatherStructure(el Element) Structure {
	var s Structure
	for p := el.Parent(); p != nil; p = p.Parent() {
		switch p.TagName() {
		case "form":
			if s.FormClass == "" {
				s.FormClass = norm(p.Attr("class"))
			}
		case "fieldset":
			if s.FieldsetLegend == "" {
				for _, c := range p.Children() {
					if c.TagName() == "legend" {
						s.FieldsetLegend = norm(c.Text())
						break
					}
				}
			}
		}
	}
	s.Position = controlPosition(el)
	return s
}

// controlPosition is the zero-based index of the control among its parent's
// form-control children. A detached element reports 0.
func controlPosition(el Element) int {
	p := el.Parent()
	if p == nil {
		return 0
	}
	pos := 0
	for _, c := range p.Children() {
		if c.Same(el) {
			return pos
		}
		if c.IsFormControl() {
			pos++
		}
	}
	return 0
}

func gatherVisual(el Element) Visual {
	w, h := el.Rect()
	maxLen := 0
	if raw := el.Attr("maxlength"); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
			maxLen = n
		}
	}
	return Visual{
		Width:     w,
		Height:    h,
		FontSize:  el.FontSize(),
		Visible:   w > 0 && h > 0,
		Kind:      el.TagName(),
		MaxLength: maxLen,
	}
}

func gatherBehavior(el Element) Behavior {
	return Behavior{
		Focused:       el.Focused(),
		HasValue:      el.HasValue(),
		Required:      el.HasAttr("required"),
		HasConstraint: el.HasAttr("pattern") || el.HasAttr("minlength"),
	}
}

func indexOf(kids []Element, el Element) int {
	for i, c := range kids {
		if c.Same(el) {
			return i
		}
	}
	return -1
}

func findByID(root Element, id string) Element {
	if root.Attr("id") == id {
		return root
	}
	for _, c := range root.Children() {
		if n := findByID(c, id); n != nil {
			return n
		}
	}
	return nil
}

func findLabelFor(root Element, id string) Element {
	if root.TagName() == "label" && root.Attr("for") == id {
		return root
	}
	for _, c := range root.Children() {
		if n := findLabelFor(c, id); n != nil {
			return n
		}
	}
	return nil
}

// norm lower-cases and collapses consecutive whitespace to single spaces.
func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// truncate cuts s to at most n bytes without splitting a rune, so
// truncated text from non-ASCII pages stays valid UTF-8 and survives a
// JSON round-trip byte-identical.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
