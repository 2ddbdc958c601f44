package html

import (
	"strconv"
	"strings"

	"github.com/vango-dev/vela/pkg/vdom"
)

// Attr creates an arbitrary attribute.
func Attr(name, value string) vdom.Attr { return vdom.Attribute(name, value) }

// Prop creates an arbitrary live property.
func Prop(name, value string) vdom.Attr { return vdom.Property(name, value) }

// flag returns a present-but-empty attribute when on, and nothing otherwise.
func flag(name string, on bool) vdom.Attr {
	if !on {
		return vdom.Attr{}
	}
	return vdom.Attribute(name, "")
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) vdom.Attr { return Attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) vdom.Attr { return Attr("class", strings.Join(classes, " ")) }

// ClassIf sets class when cond holds.
func ClassIf(cond bool, class string) vdom.Attr {
	if !cond {
		return vdom.Attr{}
	}
	return Class(class)
}

// Style sets the style attribute.
func Style(style string) vdom.Attr { return Attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) vdom.Attr { return Attr("data-"+key, value) }

// Title sets the title attribute.
func Title(title string) vdom.Attr { return Attr("title", title) }

// Role sets the role attribute.
func Role(role string) vdom.Attr { return Attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) vdom.Attr { return Attr("aria-label", label) }

// Links

func Href(url string) vdom.Attr      { return Attr("href", url) }
func Target(target string) vdom.Attr { return Attr("target", target) }
func Rel(rel string) vdom.Attr       { return Attr("rel", rel) }
func Src(url string) vdom.Attr       { return Attr("src", url) }
func Alt(text string) vdom.Attr      { return Attr("alt", text) }

// Form attributes

func Name(name string) vdom.Attr        { return Attr("name", name) }
func Type(t string) vdom.Attr           { return Attr("type", t) }
func Placeholder(text string) vdom.Attr { return Attr("placeholder", text) }
func For(id string) vdom.Attr           { return Attr("for", id) }
func Autocomplete(v string) vdom.Attr   { return Attr("autocomplete", v) }
func Disabled(on bool) vdom.Attr        { return flag("disabled", on) }
func Readonly(on bool) vdom.Attr        { return flag("readonly", on) }
func Required(on bool) vdom.Attr        { return flag("required", on) }
func Autofocus(on bool) vdom.Attr       { return flag("autofocus", on) }
func Hidden(on bool) vdom.Attr          { return flag("hidden", on) }
func MaxLength(n int) vdom.Attr         { return Attr("maxlength", strconv.Itoa(n)) }
func TabIndex(n int) vdom.Attr          { return Attr("tabindex", strconv.Itoa(n)) }

// Value sets the live value property of an input. Unlike the value attribute
// it tracks what the user sees after editing.
func Value(value string) vdom.Attr { return Prop("value", value) }

// Checked sets the live checked property of a checkbox or radio button.
func Checked(on bool) vdom.Attr { return Prop("checked", strconv.FormatBool(on)) }

// Selected sets the live selected property of an option.
func Selected(on bool) vdom.Attr { return Prop("selected", strconv.FormatBool(on)) }

// SVG attributes

func ViewBox(minX, minY, width, height float64) vdom.Attr {
	return Attr("viewBox", strings.Join([]string{num(minX), num(minY), num(width), num(height)}, " "))
}

func Width(w float64) vdom.Attr       { return Attr("width", num(w)) }
func Height(h float64) vdom.Attr      { return Attr("height", num(h)) }
func Cx(v float64) vdom.Attr          { return Attr("cx", num(v)) }
func Cy(v float64) vdom.Attr          { return Attr("cy", num(v)) }
func R(v float64) vdom.Attr           { return Attr("r", num(v)) }
func X1(v float64) vdom.Attr          { return Attr("x1", num(v)) }
func Y1(v float64) vdom.Attr          { return Attr("y1", num(v)) }
func X2(v float64) vdom.Attr          { return Attr("x2", num(v)) }
func Y2(v float64) vdom.Attr          { return Attr("y2", num(v)) }
func Fill(color string) vdom.Attr     { return Attr("fill", color) }
func Stroke(color string) vdom.Attr   { return Attr("stroke", color) }
func StrokeWidth(w float64) vdom.Attr { return Attr("stroke-width", num(w)) }
func D(path string) vdom.Attr         { return Attr("d", path) }

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
