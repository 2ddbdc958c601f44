package vdom

import "github.com/vango-dev/vela/pkg/surface"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindText    VKind = iota // Plain text node
	KindElement              // Element with positional children
	KindKeyed                // Element with keyed children
	KindList                 // Sibling group without wrapper
	KindLazy                 // Memoized subtree
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindKeyed:
		return "Keyed"
	case KindList:
		return "List"
	case KindLazy:
		return "Lazy"
	default:
		return "Unknown"
	}
}

// Event is the raw event handed to listeners.
type Event = surface.Event

// VNode is a virtual DOM node producing messages of type Msg.
type VNode[Msg any] struct {
	Kind      VKind
	Namespace string          // Element namespace ("" for HTML)
	Tag       string          // Element tag name (e.g., "div")
	Text      string          // For KindText
	Attrs     []Attr          // Attributes and properties, in order
	Listeners []Listener[Msg] // Event listeners
	Children  []*VNode[Msg]   // For KindElement and KindList
	Keyed     []Child[Msg]    // For KindKeyed

	lazy  *lazyState[Msg]
	node  surface.NodeID
	cells []*cell
}

// Child is one entry of a keyed child set.
type Child[Msg any] struct {
	Key  string
	Node *VNode[Msg]
}

// AttrKind distinguishes attributes from live properties.
type AttrKind uint8

const (
	AttrAttribute AttrKind = iota // Serialized attribute (class, href, ...)
	AttrProperty                  // Live property (value, checked, ...)
)

// Attr is a single attribute or property.
type Attr struct {
	Kind  AttrKind
	Name  string
	Value string
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Name == ""
}

// Listener turns a raw event into a message.
type Listener[Msg any] struct {
	Event   string // Event name without "on" (e.g., "click")
	Handler func(Event) Msg
}

// Attribute creates a serialized attribute.
func Attribute(name, value string) Attr {
	return Attr{Kind: AttrAttribute, Name: name, Value: value}
}

// Property creates a live property.
func Property(name, value string) Attr {
	return Attr{Kind: AttrProperty, Name: name, Value: value}
}

// On creates a listener for the named event.
func On[Msg any](event string, handler func(Event) Msg) Listener[Msg] {
	return Listener[Msg]{Event: event, Handler: handler}
}

// Text creates a text node.
func Text[Msg any](content string) *VNode[Msg] {
	return &VNode[Msg]{Kind: KindText, Text: content}
}

// Element creates an HTML element with positional children. Nil children are dropped.
func Element[Msg any](tag string, attrs []Attr, listeners []Listener[Msg], children []*VNode[Msg]) *VNode[Msg] {
	return ElementNS("", tag, attrs, listeners, children)
}

// ElementNS creates a namespaced element with positional children.
func ElementNS[Msg any](namespace, tag string, attrs []Attr, listeners []Listener[Msg], children []*VNode[Msg]) *VNode[Msg] {
	return &VNode[Msg]{
		Kind:      KindElement,
		Namespace: namespace,
		Tag:       tag,
		Attrs:     attrs,
		Listeners: listeners,
		Children:  compact(children),
	}
}

// KeyedElement creates an element whose children are matched by key.
// Entries with a nil node are dropped.
func KeyedElement[Msg any](namespace, tag string, attrs []Attr, listeners []Listener[Msg], children []Child[Msg]) *VNode[Msg] {
	kept := children[:0:0]
	for _, c := range children {
		if c.Node != nil {
			kept = append(kept, c)
		}
	}
	return &VNode[Msg]{
		Kind:      KindKeyed,
		Namespace: namespace,
		Tag:       tag,
		Attrs:     attrs,
		Listeners: listeners,
		Keyed:     kept,
	}
}

// List groups siblings without a wrapping element.
func List[Msg any](children ...*VNode[Msg]) *VNode[Msg] {
	return &VNode[Msg]{Kind: KindList, Children: compact(children)}
}

// Handle returns the live node backing v, if v is materialized.
func (v *VNode[Msg]) Handle() (surface.NodeID, bool) {
	if v == nil {
		return surface.NoNode, false
	}
	if v.Kind == KindLazy {
		if v.lazy == nil || v.lazy.cached == nil {
			return surface.NoNode, false
		}
		return v.lazy.cached.Handle()
	}
	return v.node, v.node != surface.NoNode
}

// IsElement reports whether v is an element of either child flavor.
func (v *VNode[Msg]) IsElement() bool {
	return v != nil && (v.Kind == KindElement || v.Kind == KindKeyed)
}

// ChildCount returns the number of direct children.
func (v *VNode[Msg]) ChildCount() int {
	if v == nil {
		return 0
	}
	if v.Kind == KindKeyed {
		return len(v.Keyed)
	}
	return len(v.Children)
}

func compact[Msg any](children []*VNode[Msg]) []*VNode[Msg] {
	for _, c := range children {
		if c == nil {
			kept := make([]*VNode[Msg], 0, len(children))
			for _, c := range children {
				if c != nil {
					kept = append(kept, c)
				}
			}
			return kept
		}
	}
	return children
}
