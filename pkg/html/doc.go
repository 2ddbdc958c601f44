// Package html is a small builder DSL on top of vdom.
//
// Builders are methods on the zero-size value H[Msg], so the message type is
// named once per view instead of once per element:
//
//	var h html.H[Msg]
//	h.Div(html.Class("counter"),
//		h.Button(html.OnClick(Decrement), "-"),
//		h.Span(h.Textf("%d", count)),
//		h.Button(html.OnClick(Increment), "+"),
//	)
//
// Arguments may be nil, vdom.Attr, []vdom.Attr, vdom.Listener[Msg],
// []vdom.Listener[Msg], *vdom.VNode[Msg], []*vdom.VNode[Msg] or string
// (a text child). Keyed additionally accepts vdom.Child[Msg] and
// []vdom.Child[Msg]. Any other argument type panics, since it is always a
// programming error in a view function.
package html
