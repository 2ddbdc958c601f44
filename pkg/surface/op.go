package surface

import "fmt"

// OpCode is the type of a recorded surface operation.
type OpCode uint8

const (
	OpCreateElement  OpCode = 0x01 // Allocate element node
	OpCreateText     OpCode = 0x02 // Allocate text node
	OpCreateFragment OpCode = 0x03 // Allocate fragment node
	OpSetAttr        OpCode = 0x04 // Set/update attribute
	OpRemoveAttr     OpCode = 0x05 // Remove attribute
	OpSetProp        OpCode = 0x06 // Set live property
	OpSetText        OpCode = 0x07 // Update text content
	OpInsert         OpCode = 0x08 // Insert child at index
	OpMove           OpCode = 0x09 // Move child to index
	OpRemove         OpCode = 0x0A // Detach child
	OpListen         OpCode = 0x0B // Register listener
	OpUnlisten       OpCode = 0x0C // Unregister listener
	OpRelease        OpCode = 0x0D // Free node subtree
)

// String returns the string representation of the OpCode.
func (c OpCode) String() string {
	switch c {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateFragment:
		return "CreateFragment"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetProp:
		return "SetProp"
	case OpSetText:
		return "SetText"
	case OpInsert:
		return "Insert"
	case OpMove:
		return "Move"
	case OpRemove:
		return "Remove"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpRelease:
		return "Release"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known op code.
func (c OpCode) Valid() bool {
	return c >= OpCreateElement && c <= OpRelease
}

// Op is a single recorded surface mutation.
//
// Field use by code:
//
//	CreateElement  Node, Namespace, Name (tag)
//	CreateText     Node, Value
//	CreateFragment Node
//	SetAttr        Node, Name, Value
//	RemoveAttr     Node, Name
//	SetProp        Node, Name, Value
//	SetText        Node, Value
//	Insert, Move   Parent, Node, Index
//	Remove         Parent, Node
//	Listen         Node, Name (event)
//	Unlisten       Node, Name (event)
//	Release        Node
type Op struct {
	Code      OpCode
	Node      NodeID
	Parent    NodeID
	Index     int
	Namespace string
	Name      string
	Value     string
}

// String returns a compact human-readable form used in logs and test failures.
func (o Op) String() string {
	switch o.Code {
	case OpCreateElement:
		if o.Namespace != "" {
			return fmt.Sprintf("%s(%d, %s:%s)", o.Code, o.Node, o.Namespace, o.Name)
		}
		return fmt.Sprintf("%s(%d, %s)", o.Code, o.Node, o.Name)
	case OpCreateText, OpSetText:
		return fmt.Sprintf("%s(%d, %q)", o.Code, o.Node, o.Value)
	case OpCreateFragment, OpRelease:
		return fmt.Sprintf("%s(%d)", o.Code, o.Node)
	case OpSetAttr, OpSetProp:
		return fmt.Sprintf("%s(%d, %s=%q)", o.Code, o.Node, o.Name, o.Value)
	case OpRemoveAttr, OpListen, OpUnlisten:
		return fmt.Sprintf("%s(%d, %s)", o.Code, o.Node, o.Name)
	case OpInsert, OpMove:
		return fmt.Sprintf("%s(%d -> %d@%d)", o.Code, o.Node, o.Parent, o.Index)
	case OpRemove:
		return fmt.Sprintf("%s(%d from %d)", o.Code, o.Node, o.Parent)
	default:
		return fmt.Sprintf("%s(%d)", o.Code, o.Node)
	}
}
