package signals_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbjorn/formsense/pkg/htmldom"
	"github.com/arcbjorn/formsense/pkg/signals"
)

// parseOne parses markup and returns its first form control plus the document.
func parseOne(t *testing.T, markup string) (signals.Element, *htmldom.Document) {
	t.Helper()
	doc, err := htmldom.ParseString(markup, "https://example.com/form")
	require.NoError(t, err)
	controls := doc.Controls()
	require.NotEmpty(t, controls, "fixture must contain a form control")
	return controls[0], doc
}

func TestGather_Attributes(t *testing.T) {
	el, doc := parseOne(t, `
		<form><input type="Email" name="User_Email" id="EmailField"
			class="Form-Input wide" placeholder="NAME@example.com"
			autocomplete="email" title="Your Email"
			aria-label="Email Address" data-testid="Signup-Email"
			maxlength="64"></form>`)

	b := signals.Gather(el, doc)

	assert.Equal(t, "user_email", b.Attrs.Name, "all text is lower-cased")
	assert.Equal(t, "emailfield", b.Attrs.ID)
	assert.Equal(t, []string{"form-input", "wide"}, b.Attrs.Classes)
	assert.Equal(t, "name@example.com", b.Attrs.Placeholder)
	assert.Equal(t, "email", b.Attrs.InputKind)
	assert.Equal(t, "email", b.Attrs.Autocomplete)
	assert.Equal(t, "your email", b.Attrs.Title)
	assert.Equal(t, "email address", b.Attrs.AriaLabel)
	assert.Equal(t, "signup-email", b.Attrs.TestID)
	assert.Equal(t, 64, b.Visual.MaxLength)
}

func TestGather_InputKindDefaultsToText(t *testing.T) {
	el, doc := parseOne(t, `<form><input name="x"></form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "text", b.Attrs.InputKind)
}

func TestGather_LabelViaForAttribute(t *testing.T) {
	el, doc := parseOne(t, `
		<form>
			<label for="fn">First Name</label>
			<input id="fn" name="fn">
		</form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "first name", b.Context.Label)
}

func TestGather_LabelViaAncestorWrap(t *testing.T) {
	el, doc := parseOne(t, `
		<form><label>Last Name <input name="ln"></label></form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "last name", b.Context.Label)
}

func TestGather_LabelViaAriaLabelledBy(t *testing.T) {
	el, doc := parseOne(t, `
		<form>
			<span id="cap">Postal Code</span>
			<input name="pc" aria-labelledby="cap">
		</form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "postal code", b.Context.Label)
}

func TestGather_LabelViaShortPrecedingSibling(t *testing.T) {
	el, doc := parseOne(t, `
		<form><div>
			<span>City</span>
			<input name="c">
		</div></form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "city", b.Context.Label)
}

func TestGather_LabelScanSkipsEmptyAndLongSiblings(t *testing.T) {
	long := "This paragraph goes on for far longer than any plausible label would, " +
		"describing terms and conditions in detail so it must be skipped over."
	el, doc := parseOne(t, `
		<form><div>
			<span>Province</span>
			<p>`+long+`</p>
			<br>
			<input name="p">
		</div></form>`)
	b := signals.Gather(el, doc)
	assert.Equal(t, "province", b.Context.Label,
		"the scan passes empty and over-long siblings to reach the label")
}

func TestGather_LabelScanStopsAtPrecedingControl(t *testing.T) {
	markup := `
		<form><div>
			<span>First Name</span>
			<input name="fn">
			<input name="mystery">
		</div></form>`
	doc, err := htmldom.ParseString(markup, "")
	require.NoError(t, err)
	controls := doc.Controls()
	require.Len(t, controls, 2)

	assert.Equal(t, "first name", signals.Gather(controls[0], doc).Context.Label)
	assert.Empty(t, signals.Gather(controls[1], doc).Context.Label,
		"text before an earlier control labels that control, not this one")
}

func TestGather_LongPrecedingSiblingIsNotALabel(t *testing.T) {
	long := "This paragraph goes on for far longer than any plausible label would, " +
		"describing terms and conditions in detail so it must be ignored."
	el, doc := parseOne(t, `
		<form><div><p>`+long+`</p><input name="x"></div></form>`)
	b := signals.Gather(el, doc)
	assert.Empty(t, b.Context.Label)
}

func TestGather_ContainerStripsNestedControls(t *testing.T) {
	el, doc := parseOne(t, `
		<form><div>
			Shipping address
			<input name="street" value="classified-value">
			<select name="state"><option>California</option></select>
		</div></form>`)
	b := signals.Gather(el, doc)

	assert.Contains(t, b.Context.Container, "shipping address")
	assert.NotContains(t, b.Context.Container, "classified-value",
		"control subtrees must not leak into container text")
	assert.NotContains(t, b.Context.Container, "california")
}

func TestGather_ContainerTruncationKeepsValidUTF8(t *testing.T) {
	// 600 bytes of 3-byte runes: a naive byte cut at the 500-byte cap
	// would land mid-rune.
	el, doc := parseOne(t, `
		<form><div>`+strings.Repeat("姓名", 100)+`<input name="n"></div></form>`)
	b := signals.Gather(el, doc)

	assert.LessOrEqual(t, len(b.Context.Container), 500)
	assert.True(t, utf8.ValidString(b.Context.Container),
		"truncation must not split a rune")

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var back signals.Bundle
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, b.Context.Container, back.Context.Container,
		"snapshot round-trips byte-identical")
}

func TestGather_SiblingWindow(t *testing.T) {
	el, doc := parseOne(t, `
		<form><div>
			<span>far before</span>
			<span>two before</span>
			<span>one before</span>
			<input name="mid">
			<span>one after</span>
			<span>two after</span>
			<span>far after</span>
		</div></form>`)
	b := signals.Gather(el, doc)

	assert.Contains(t, b.Context.Siblings, "two before")
	assert.Contains(t, b.Context.Siblings, "one before")
	assert.Contains(t, b.Context.Siblings, "one after")
	assert.Contains(t, b.Context.Siblings, "two after")
	assert.NotContains(t, b.Context.Siblings, "far before")
	assert.NotContains(t, b.Context.Siblings, "far after")
}

func TestGather_PageContext(t *testing.T) {
	el, doc := parseOne(t, `
		<html><head><title>Secure Checkout</title></head><body>
		<h1>Payment</h1><h2>Card Details</h2>
		<form><input name="cc"></form></body></html>`)
	b := signals.Gather(el, doc)

	assert.Equal(t, "secure checkout", b.Context.PageTitle)
	assert.Equal(t, "https://example.com/form", b.Context.PageURL)
	assert.Equal(t, []string{"payment", "card details"}, b.Context.Headings)
}

func TestGather_Structure(t *testing.T) {
	markup := `
		<form class="Checkout-Form">
			<fieldset>
				<legend>Billing Address</legend>
				<div>
					<input name="a">
					<span>filler</span>
					<input name="b">
					<input name="c">
				</div>
			</fieldset>
		</form>`
	doc, err := htmldom.ParseString(markup, "")
	require.NoError(t, err)
	controls := doc.Controls()
	require.Len(t, controls, 3)

	for i, want := range []int{0, 1, 2} {
		b := signals.Gather(controls[i], doc)
		assert.Equal(t, want, b.Structure.Position, "control %d", i)
		assert.Equal(t, "checkout-form", b.Structure.FormClass)
		assert.Equal(t, "billing address", b.Structure.FieldsetLegend)
	}
}

func TestGather_SelectOptions(t *testing.T) {
	el, doc := parseOne(t, `
		<form><select name="country">
			<option>United States</option>
			<option>Canada</option>
		</select></form>`)
	b := signals.Gather(el, doc)
	assert.Contains(t, b.Context.Options, "united states")
	assert.Contains(t, b.Context.Options, "canada")
}

func TestGather_BehaviorFlags(t *testing.T) {
	el, doc := parseOne(t, `<form><input name="z" required pattern="\d{5}" autofocus value="90210"></form>`)
	b := signals.Gather(el, doc)

	assert.True(t, b.Behavior.Required)
	assert.True(t, b.Behavior.HasConstraint)
	assert.True(t, b.Behavior.Focused)
	assert.True(t, b.Behavior.HasValue)
}

func TestGather_HiddenInputIsInvisible(t *testing.T) {
	el, doc := parseOne(t, `<form><input type="hidden" name="csrf"></form>`)
	b := signals.Gather(el, doc)
	assert.False(t, b.Visual.Visible)
}

func TestSignature_DeterministicAndDistinct(t *testing.T) {
	markup := `
		<form>
			<label for="e">Email</label><input id="e" name="email">
			<label for="p">Phone</label><input id="p" name="phone">
		</form>`
	doc, err := htmldom.ParseString(markup, "")
	require.NoError(t, err)
	controls := doc.Controls()
	require.Len(t, controls, 2)

	a1 := signals.Gather(controls[0], doc).Signature()
	a2 := signals.Gather(controls[0], doc).Signature()
	b1 := signals.Gather(controls[1], doc).Signature()

	assert.Equal(t, a1, a2, "signature must be deterministic")
	assert.NotEqual(t, a1, b1, "different fields must not collide")
	assert.Equal(t, "email|e|email|0", a1)
}
