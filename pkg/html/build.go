package html

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vela/pkg/vdom"
)

// SVGNamespace is the namespace of elements built with S.
const SVGNamespace = "http://www.w3.org/2000/svg"

// H builds HTML elements producing messages of type Msg.
type H[Msg any] struct{}

// S builds SVG elements producing messages of type Msg.
type S[Msg any] struct{}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// parts collects the arguments of an element call.
type parts[Msg any] struct {
	attrs     []vdom.Attr
	listeners []vdom.Listener[Msg]
	children  []*vdom.VNode[Msg]
	keyed     []vdom.Child[Msg]
}

func collect[Msg any](tag string, args []any, keyed bool) parts[Msg] {
	var p parts[Msg]
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case vdom.Attr:
			if !v.IsEmpty() {
				p.attrs = append(p.attrs, v)
			}
		case []vdom.Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					p.attrs = append(p.attrs, a)
				}
			}
		case vdom.Listener[Msg]:
			p.listeners = append(p.listeners, v)
		case []vdom.Listener[Msg]:
			p.listeners = append(p.listeners, v...)
		case *vdom.VNode[Msg]:
			p.addChild(v, keyed)
		case []*vdom.VNode[Msg]:
			for _, c := range v {
				p.addChild(c, keyed)
			}
		case string:
			p.addChild(vdom.Text[Msg](v), keyed)
		case vdom.Child[Msg]:
			if !keyed {
				panic(fmt.Sprintf("html: keyed child %q passed to non-keyed <%s>", v.Key, tag))
			}
			p.keyed = append(p.keyed, v)
		case []vdom.Child[Msg]:
			if !keyed {
				panic(fmt.Sprintf("html: keyed children passed to non-keyed <%s>", tag))
			}
			p.keyed = append(p.keyed, v...)
		default:
			panic(fmt.Sprintf("html: unsupported argument %T in <%s>", arg, tag))
		}
	}
	return p
}

// addChild appends a positional child. Inside a keyed element it is keyed by
// its position among the arguments.
func (p *parts[Msg]) addChild(c *vdom.VNode[Msg], keyed bool) {
	if c == nil {
		return
	}
	if keyed {
		p.keyed = append(p.keyed, vdom.Child[Msg]{Key: "#" + strconv.Itoa(len(p.keyed)), Node: c})
		return
	}
	p.children = append(p.children, c)
}

func element[Msg any](ns, tag string, args []any) *vdom.VNode[Msg] {
	p := collect[Msg](tag, args, false)
	return vdom.ElementNS(ns, tag, p.attrs, p.listeners, p.children)
}

// El creates an element with an arbitrary tag.
func (H[Msg]) El(tag string, args ...any) *vdom.VNode[Msg] {
	return element[Msg]("", tag, args)
}

// Keyed creates an element whose children are matched by key across passes.
func (H[Msg]) Keyed(tag string, args ...any) *vdom.VNode[Msg] {
	p := collect[Msg](tag, args, true)
	return vdom.KeyedElement("", tag, p.attrs, p.listeners, p.keyed)
}

// Item pairs a key with a node for Keyed.
func (H[Msg]) Item(key string, node *vdom.VNode[Msg]) vdom.Child[Msg] {
	return vdom.Child[Msg]{Key: key, Node: node}
}

// Text creates a text node.
func (H[Msg]) Text(content string) *vdom.VNode[Msg] {
	return vdom.Text[Msg](content)
}

// Textf creates a formatted text node.
func (H[Msg]) Textf(format string, args ...any) *vdom.VNode[Msg] {
	return vdom.Text[Msg](fmt.Sprintf(format, args...))
}

// List groups children without a wrapper element.
func (H[Msg]) List(children ...*vdom.VNode[Msg]) *vdom.VNode[Msg] {
	return vdom.List(children...)
}

// SVG returns the SVG builder for the same message type.
func (H[Msg]) SVG() S[Msg] {
	return S[Msg]{}
}

// El creates an SVG element with an arbitrary tag.
func (S[Msg]) El(tag string, args ...any) *vdom.VNode[Msg] {
	return element[Msg](SVGNamespace, tag, args)
}

// Keyed creates a keyed SVG element.
func (S[Msg]) Keyed(tag string, args ...any) *vdom.VNode[Msg] {
	p := collect[Msg](tag, args, true)
	return vdom.KeyedElement(SVGNamespace, tag, p.attrs, p.listeners, p.keyed)
}
