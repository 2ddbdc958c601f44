package surface

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	velaerrors "github.com/vango-dev/vela/internal/errors"
)

// NodeKind is the kind of a live node.
type NodeKind uint8

const (
	NodeRoot     NodeKind = iota // Document root / mount point
	NodeElement                  // <div>, <svg:circle>, ...
	NodeText                     // Text node
	NodeFragment                 // Childless wrapper for sibling groups
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "Root"
	case NodeElement:
		return "Element"
	case NodeText:
		return "Text"
	case NodeFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// node is one arena slot.
type node struct {
	kind      NodeKind
	namespace string
	tag       string
	text      string
	attrs     map[string]string
	props     map[string]string
	parent    NodeID
	children  []NodeID
	listeners map[string]func(Event)
}

// NodeView is a read-only snapshot of a live node.
type NodeView struct {
	ID        NodeID
	Kind      NodeKind
	Namespace string
	Tag       string
	Text      string
	Attrs     []Attribute // sorted by name
	Props     []Attribute // sorted by name
	Parent    NodeID
	Children  []NodeID
	Listeners []string // sorted
}

// Attribute is a name/value pair in a NodeView.
type Attribute struct {
	Name  string
	Value string
}

// MemoryOption configures a Memory surface.
type MemoryOption func(*Memory)

// WithCapacity limits the number of live nodes (excluding the root).
// Zero means unlimited.
func WithCapacity(n int) MemoryOption {
	return func(m *Memory) {
		m.capacity = n
	}
}

// WithoutRecording disables the op log.
func WithoutRecording() MemoryOption {
	return func(m *Memory) {
		m.record = false
	}
}

// Memory is an in-process Surface backed by an arena of nodes.
// It is safe for concurrent use; listeners are invoked without the lock held.
type Memory struct {
	mu       sync.Mutex
	nodes    map[NodeID]*node
	next     NodeID
	root     NodeID
	ops      []Op
	record   bool
	capacity int
	failures map[OpCode]error
}

// NewMemory creates an empty surface with a root node.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		nodes:  make(map[NodeID]*node),
		record: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.root = m.alloc(&node{kind: NodeRoot, tag: "body"})
	return m
}

// Root returns the id of the root node. The root is never released.
func (m *Memory) Root() NodeID {
	return m.root
}

// FailOn makes every subsequent op with the given code fail with err.
// Passing a nil error clears the injected failure.
func (m *Memory) FailOn(code OpCode, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, code)
		return
	}
	if m.failures == nil {
		m.failures = make(map[OpCode]error)
	}
	m.failures[code] = err
}

func (m *Memory) alloc(n *node) NodeID {
	m.next++
	m.nodes[m.next] = n
	return m.next
}

func (m *Memory) log(op Op) {
	if m.record {
		m.ops = append(m.ops, op)
	}
}

// check returns an injected failure for code, if any.
func (m *Memory) check(code OpCode) error {
	if err, ok := m.failures[code]; ok {
		return err
	}
	return nil
}

func (m *Memory) lookup(id NodeID, op OpCode) (*node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, velaerrors.New("E102").WithOp(op.String()).WithDetailf("node %d is not live", id)
	}
	return n, nil
}

func (m *Memory) create(code OpCode, n *node) (NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(code); err != nil {
		return NoNode, err
	}
	if m.capacity > 0 && len(m.nodes)-1 >= m.capacity {
		return NoNode, ErrCapacity
	}
	id := m.alloc(n)
	m.log(Op{Code: code, Node: id, Namespace: n.namespace, Name: n.tag, Value: n.text})
	return id, nil
}

// CreateElement implements Surface.
func (m *Memory) CreateElement(namespace, tag string) (NodeID, error) {
	return m.create(OpCreateElement, &node{kind: NodeElement, namespace: namespace, tag: tag})
}

// CreateText implements Surface.
func (m *Memory) CreateText(text string) (NodeID, error) {
	return m.create(OpCreateText, &node{kind: NodeText, text: text})
}

// CreateFragment implements Surface.
func (m *Memory) CreateFragment() (NodeID, error) {
	return m.create(OpCreateFragment, &node{kind: NodeFragment})
}

func (m *Memory) element(id NodeID, code OpCode) (*node, error) {
	if err := m.check(code); err != nil {
		return nil, err
	}
	n, err := m.lookup(id, code)
	if err != nil {
		return nil, err
	}
	if n.kind != NodeElement {
		return nil, ErrWrongKind
	}
	return n, nil
}

// SetAttribute implements Surface.
func (m *Memory) SetAttribute(id NodeID, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.element(id, OpSetAttr)
	if err != nil {
		return err
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	m.log(Op{Code: OpSetAttr, Node: id, Name: name, Value: value})
	return nil
}

// RemoveAttribute implements Surface.
func (m *Memory) RemoveAttribute(id NodeID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.element(id, OpRemoveAttr)
	if err != nil {
		return err
	}
	delete(n.attrs, name)
	m.log(Op{Code: OpRemoveAttr, Node: id, Name: name})
	return nil
}

// SetProperty implements Surface.
func (m *Memory) SetProperty(id NodeID, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.element(id, OpSetProp)
	if err != nil {
		return err
	}
	if n.props == nil {
		n.props = make(map[string]string)
	}
	n.props[name] = value
	m.log(Op{Code: OpSetProp, Node: id, Name: name, Value: value})
	return nil
}

// SetText implements Surface.
func (m *Memory) SetText(id NodeID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpSetText); err != nil {
		return err
	}
	n, err := m.lookup(id, OpSetText)
	if err != nil {
		return err
	}
	if n.kind != NodeText {
		return ErrWrongKind
	}
	n.text = text
	m.log(Op{Code: OpSetText, Node: id, Value: text})
	return nil
}

// InsertChild implements Surface. A child that is still attached elsewhere is detached first.
func (m *Memory) InsertChild(parent, child NodeID, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpInsert); err != nil {
		return err
	}
	p, err := m.lookup(parent, OpInsert)
	if err != nil {
		return err
	}
	c, err := m.lookup(child, OpInsert)
	if err != nil {
		return err
	}
	if p.kind == NodeText || c.kind == NodeRoot {
		return ErrWrongKind
	}
	if c.parent != NoNode {
		m.detach(child, c)
	}
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = insertAt(p.children, index, child)
	c.parent = parent
	m.log(Op{Code: OpInsert, Parent: parent, Node: child, Index: index})
	return nil
}

// MoveChild implements Surface.
func (m *Memory) MoveChild(parent, child NodeID, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpMove); err != nil {
		return err
	}
	p, err := m.lookup(parent, OpMove)
	if err != nil {
		return err
	}
	from := indexOf(p.children, child)
	if from < 0 {
		return ErrNotChild
	}
	p.children = append(p.children[:from], p.children[from+1:]...)
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = insertAt(p.children, index, child)
	m.log(Op{Code: OpMove, Parent: parent, Node: child, Index: index})
	return nil
}

// RemoveChild implements Surface.
func (m *Memory) RemoveChild(parent, child NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpRemove); err != nil {
		return err
	}
	c, err := m.lookup(child, OpRemove)
	if err != nil {
		return err
	}
	if c.parent != parent {
		return ErrNotChild
	}
	m.detach(child, c)
	m.log(Op{Code: OpRemove, Parent: parent, Node: child})
	return nil
}

// listenable returns an element or the root, the nodes that take listeners.
func (m *Memory) listenable(id NodeID, code OpCode) (*node, error) {
	if err := m.check(code); err != nil {
		return nil, err
	}
	n, err := m.lookup(id, code)
	if err != nil {
		return nil, err
	}
	if n.kind != NodeElement && n.kind != NodeRoot {
		return nil, ErrWrongKind
	}
	return n, nil
}

// Listen implements Surface. The root takes listeners too; the client
// reports page-level events such as navigation on it.
func (m *Memory) Listen(id NodeID, event string, fn func(Event)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.listenable(id, OpListen)
	if err != nil {
		return err
	}
	if n.listeners == nil {
		n.listeners = make(map[string]func(Event))
	}
	n.listeners[event] = fn
	m.log(Op{Code: OpListen, Node: id, Name: event})
	return nil
}

// Unlisten implements Surface.
func (m *Memory) Unlisten(id NodeID, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.listenable(id, OpUnlisten)
	if err != nil {
		return err
	}
	delete(n.listeners, event)
	m.log(Op{Code: OpUnlisten, Node: id, Name: event})
	return nil
}

// Release implements Surface.
func (m *Memory) Release(id NodeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(OpRelease); err != nil {
		return err
	}
	n, err := m.lookup(id, OpRelease)
	if err != nil {
		return err
	}
	if n.kind == NodeRoot {
		return ErrWrongKind
	}
	if n.parent != NoNode {
		m.detach(id, n)
	}
	m.free(id, n)
	m.log(Op{Code: OpRelease, Node: id})
	return nil
}

func (m *Memory) free(id NodeID, n *node) {
	for _, c := range n.children {
		if cn, ok := m.nodes[c]; ok {
			m.free(c, cn)
		}
	}
	delete(m.nodes, id)
}

func (m *Memory) detach(id NodeID, n *node) {
	if p, ok := m.nodes[n.parent]; ok {
		if i := indexOf(p.children, id); i >= 0 {
			p.children = append(p.children[:i], p.children[i+1:]...)
		}
	}
	n.parent = NoNode
}

// Parent implements Surface.
func (m *Memory) Parent(id NodeID) NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[id]; ok {
		return n.parent
	}
	return NoNode
}

// ChildIndex implements Surface.
func (m *Memory) ChildIndex(parent, child NodeID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.nodes[parent]; ok {
		return indexOf(p.children, child)
	}
	return -1
}

// Fire delivers ev to the listener registered on id for ev.Type.
// It reports whether a listener was found.
func (m *Memory) Fire(id NodeID, ev Event) bool {
	m.mu.Lock()
	var fn func(Event)
	if n, ok := m.nodes[id]; ok {
		fn = n.listeners[ev.Type]
	}
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(ev)
	return true
}

// Node returns a snapshot of a live node.
func (m *Memory) Node(id NodeID) (NodeView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return NodeView{}, false
	}
	v := NodeView{
		ID:        id,
		Kind:      n.kind,
		Namespace: n.namespace,
		Tag:       n.tag,
		Text:      n.text,
		Attrs:     sortedAttrs(n.attrs),
		Props:     sortedAttrs(n.props),
		Parent:    n.parent,
		Children:  append([]NodeID(nil), n.children...),
	}
	v.Listeners = slices.Sorted(maps.Keys(n.listeners))
	return v, true
}

// Find returns the first node under root, in document order, whose
// attribute name equals value, or NoNode.
func (m *Memory) Find(root NodeID, name, value string) NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(root, name, value)
}

func (m *Memory) find(id NodeID, name, value string) NodeID {
	n, ok := m.nodes[id]
	if !ok {
		return NoNode
	}
	if v, ok := n.attrs[name]; ok && v == value {
		return id
	}
	for _, c := range n.children {
		if found := m.find(c, name, value); found != NoNode {
			return found
		}
	}
	return NoNode
}

// Len returns the number of live nodes, excluding the root.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes) - 1
}

// ListenerCount returns the number of registered listeners across all live nodes.
func (m *Memory) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.nodes {
		total += len(n.listeners)
	}
	return total
}

// Ops returns a copy of the op log.
func (m *Memory) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.ops...)
}

// Drain returns the op log and clears it.
func (m *Memory) Drain() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := m.ops
	m.ops = nil
	return ops
}

// ResetOps clears the op log.
func (m *Memory) ResetOps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}

// Snapshot returns an op sequence that rebuilds the subtree under id
// (excluding id itself) on an empty peer that already knows id. Listeners
// on id itself are included.
func (m *Memory) Snapshot(id NodeID) []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ops []Op
	if n, ok := m.nodes[id]; ok {
		for i, c := range n.children {
			ops = m.snapshot(ops, id, c, i)
		}
		for _, name := range slices.Sorted(maps.Keys(n.listeners)) {
			ops = append(ops, Op{Code: OpListen, Node: id, Name: name})
		}
	}
	return ops
}

func (m *Memory) snapshot(ops []Op, parent, id NodeID, index int) []Op {
	n, ok := m.nodes[id]
	if !ok {
		return ops
	}
	switch n.kind {
	case NodeElement:
		ops = append(ops, Op{Code: OpCreateElement, Node: id, Namespace: n.namespace, Name: n.tag})
		for _, a := range sortedAttrs(n.attrs) {
			ops = append(ops, Op{Code: OpSetAttr, Node: id, Name: a.Name, Value: a.Value})
		}
		for _, p := range sortedAttrs(n.props) {
			ops = append(ops, Op{Code: OpSetProp, Node: id, Name: p.Name, Value: p.Value})
		}
		for _, name := range slices.Sorted(maps.Keys(n.listeners)) {
			ops = append(ops, Op{Code: OpListen, Node: id, Name: name})
		}
	case NodeText:
		ops = append(ops, Op{Code: OpCreateText, Node: id, Value: n.text})
	case NodeFragment:
		ops = append(ops, Op{Code: OpCreateFragment, Node: id})
	}
	for i, c := range n.children {
		ops = m.snapshot(ops, id, c, i)
	}
	return append(ops, Op{Code: OpInsert, Parent: parent, Node: id, Index: index})
}

func sortedAttrs(m map[string]string) []Attribute {
	if len(m) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(m))
	for k, v := range m {
		out = append(out, Attribute{Name: k, Value: v})
	}
	slices.SortFunc(out, func(a, b Attribute) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}

func insertAt(ids []NodeID, index int, id NodeID) []NodeID {
	ids = append(ids, NoNode)
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}

var _ Surface = (*Memory)(nil)
