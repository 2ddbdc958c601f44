package surface

import "errors"

// NodeID identifies a live node on a surface. The zero value is never a valid node.
type NodeID uint32

// NoNode is the invalid node id.
const NoNode NodeID = 0

// Surface errors.
var (
	// ErrCapacity is returned when the surface cannot allocate another node.
	ErrCapacity = errors.New("surface: node capacity exceeded")

	// ErrNotChild is returned when a move or remove names a node that is not a child of the parent.
	ErrNotChild = errors.New("surface: node is not a child of parent")

	// ErrWrongKind is returned when an operation does not apply to the node's kind.
	ErrWrongKind = errors.New("surface: operation not valid for node kind")
)

// Event is a raw event delivered by the surface to a registered listener.
type Event struct {
	// Type is the event name without the "on" prefix (e.g., "click").
	Type string `json:"type"`

	// Value is the target's current value for input-like events.
	Value string `json:"value,omitempty"`

	// Checked is the target's checked state for checkbox-like events.
	Checked bool `json:"checked,omitempty"`

	// Key is the key name for keyboard events (e.g., "Enter").
	Key string `json:"key,omitempty"`

	// Data carries any additional backend-specific fields.
	Data map[string]string `json:"data,omitempty"`
}

// Surface is the node-mutation and listener-registration capability the
// reconciler consumes. Implementations are not required to be safe for
// concurrent use; the reconciler never calls them concurrently.
type Surface interface {
	// CreateElement allocates a detached element node.
	CreateElement(namespace, tag string) (NodeID, error)

	// CreateText allocates a detached text node.
	CreateText(text string) (NodeID, error)

	// CreateFragment allocates a detached fragment node. A fragment groups
	// children without contributing an element of its own.
	CreateFragment() (NodeID, error)

	// SetAttribute sets an attribute on an element.
	SetAttribute(id NodeID, name, value string) error

	// RemoveAttribute removes an attribute from an element.
	RemoveAttribute(id NodeID, name string) error

	// SetProperty sets a live property (value, checked, ...) on an element.
	SetProperty(id NodeID, name, value string) error

	// SetText overwrites the content of a text node.
	SetText(id NodeID, text string) error

	// InsertChild inserts child under parent at index. An index outside
	// [0, len(children)] appends.
	InsertChild(parent, child NodeID, index int) error

	// MoveChild relocates an existing child of parent so that it ends up at index.
	MoveChild(parent, child NodeID, index int) error

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child NodeID) error

	// Listen registers fn for the named event on id, replacing any previous
	// registration for the same name.
	Listen(id NodeID, event string, fn func(Event)) error

	// Unlisten removes the registration for the named event.
	Unlisten(id NodeID, event string) error

	// Release frees a node and its descendants. The node is detached first if needed.
	Release(id NodeID) error

	// Parent returns the parent of id, or NoNode if it is detached or unknown.
	Parent(id NodeID) NodeID

	// ChildIndex returns the position of child under parent, or -1.
	ChildIndex(parent, child NodeID) int
}
