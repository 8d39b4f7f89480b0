package signals

import (
	"fmt"
)

// Bundle is the immutable snapshot of everything observable about one form
// control at classification time. All text is lower-cased and
// whitespace-collapsed at gathering time so downstream matching is
// case-insensitive by construction.
//
// Bundles round-trip through JSON: correction records persist a snapshot of
// the bundle they were recorded against.
type Bundle struct {
	Attrs     Attributes `json:"attrs"`
	Context   Context    `json:"context"`
	Structure Structure  `json:"structure"`
	Visual    Visual     `json:"visual"`
	Behavior  Behavior   `json:"behavior"`
}

// Attributes carries the control's own markup attributes.
type Attributes struct {
	Name         string   `json:"name"`
	ID           string   `json:"id"`
	Classes      []string `json:"classes,omitempty"`
	Placeholder  string   `json:"placeholder"`
	InputKind    string   `json:"input_kind"` // type attr for inputs, tag name otherwise
	Autocomplete string   `json:"autocomplete"`
	Title        string   `json:"title"`
	AriaLabel    string   `json:"aria_label"`
	TestID       string   `json:"test_id"`
}

// Context carries text surrounding the control on the page.
type Context struct {
	Label      string   `json:"label"`
	Container  string   `json:"container"` // parent text with nested controls stripped
	Siblings   string   `json:"siblings"`  // bounded window around the control
	Options    string   `json:"options,omitempty"`
	PageTitle  string   `json:"page_title"`
	PageURL    string   `json:"page_url"`
	Headings   []string `json:"headings,omitempty"`
	SectionTxt string   `json:"section_text"`
}

// Structure carries the control's position in the form hierarchy.
type Structure struct {
	FormClass      string `json:"form_class"`
	FieldsetLegend string `json:"fieldset_legend"`
	Position       int    `json:"position"` // zero-based among sibling form controls
}

// Visual carries rendered geometry and declared size constraints.
type Visual struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	FontSize  float64 `json:"font_size"`
	Visible   bool    `json:"visible"`
	Kind      string  `json:"kind"` // tag name
	MaxLength int     `json:"max_length"`
}

// Behavior carries interaction-state flags.
type Behavior struct {
	Focused       bool `json:"focused"`
	HasValue      bool `json:"has_value"`
	Required      bool `json:"required"`
	HasConstraint bool `json:"has_constraint"` // pattern/minlength validation declared
}

// Signature derives the stable identity key for the control this bundle was
// gathered from. Two controls with the same signature are treated as the
// same logical field across page reloads, so corrections recorded against
// one apply to the other.
//
// The function is pure: it reads only the bundle's name, id, label and
// structural position, all of which are lower-cased at gathering time.
func (b *Bundle) Signature() string {
	return fmt.Sprintf("%s|%s|%s|%d",
		b.Attrs.Name, b.Attrs.ID, b.Context.Label, b.Structure.Position)
}

// AttributeValues returns the attribute strings the exact-match strategy
// scans, in a fixed order.
func (b *Bundle) AttributeValues() []string {
	vals := []string{
		b.Attrs.Name,
		b.Attrs.ID,
		b.Attrs.Placeholder,
		b.Attrs.InputKind,
		b.Attrs.Autocomplete,
		b.Attrs.Title,
		b.Attrs.AriaLabel,
		b.Attrs.TestID,
	}
	return append(vals, b.Attrs.Classes...)
}

// FuzzyTexts returns the texts the fuzzy strategy matches against.
func (b *Bundle) FuzzyTexts() []string {
	return []string{
		b.Attrs.Name,
		b.Attrs.ID,
		b.Attrs.Placeholder,
		b.Context.Label,
		b.Context.Container,
	}
}

// ContextText returns the concatenated page-level text the contextual
// strategy scans for topical keywords.
func (b *Bundle) ContextText() string {
	s := b.Context.Label + " " + b.Context.Container + " " +
		b.Context.PageTitle + " " + b.Context.SectionTxt
	for _, h := range b.Context.Headings {
		s += " " + h
	}
	return s
}
