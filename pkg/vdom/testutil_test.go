package vdom

import (
	"strings"
	"testing"

	"github.com/vango-dev/vela/pkg/surface"
)

type msg string

func el(tag string, children ...*VNode[msg]) *VNode[msg] {
	return Element[msg](tag, nil, nil, children)
}

func txt(s string) *VNode[msg] {
	return Text[msg](s)
}

func item(key, label string) Child[msg] {
	return Child[msg]{Key: key, Node: el("li", txt(label))}
}

func keyedList(items ...Child[msg]) *VNode[msg] {
	return KeyedElement[msg]("", "ul", nil, nil, items)
}

// harness bundles a memory surface with a reconciler that records dispatched messages.
type harness struct {
	t    *testing.T
	mem  *surface.Memory
	r    *Reconciler[msg]
	msgs []msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, mem: surface.NewMemory()}
	h.r = NewReconciler[msg](h.mem, func(m msg) { h.msgs = append(h.msgs, m) })
	return h
}

// mount creates v and attaches it to the surface root, then clears the op log.
func (h *harness) mount(v *VNode[msg]) surface.NodeID {
	h.t.Helper()
	id, err := h.r.Create(v)
	if err != nil {
		h.t.Fatalf("Create() error: %v", err)
	}
	if err := h.mem.InsertChild(h.mem.Root(), id, 0); err != nil {
		h.t.Fatalf("InsertChild() error: %v", err)
	}
	h.mem.ResetOps()
	h.r.ResetStats()
	return id
}

func (h *harness) patch(next, prev *VNode[msg]) surface.NodeID {
	h.t.Helper()
	id, err := h.r.Patch(next, prev)
	if err != nil {
		h.t.Fatalf("Patch() error: %v", err)
	}
	return id
}

// text returns the concatenated text content under id.
func (h *harness) text(id surface.NodeID) string {
	var b strings.Builder
	var walk func(surface.NodeID)
	walk = func(id surface.NodeID) {
		v, ok := h.mem.Node(id)
		if !ok {
			return
		}
		if v.Kind == surface.NodeText {
			b.WriteString(v.Text)
		}
		for _, c := range v.Children {
			walk(c)
		}
	}
	walk(id)
	return b.String()
}

func (h *harness) children(id surface.NodeID) []surface.NodeID {
	h.t.Helper()
	v, ok := h.mem.Node(id)
	if !ok {
		h.t.Fatalf("node %d is not live", id)
	}
	return v.Children
}

func countOps(ops []surface.Op, code surface.OpCode) int {
	n := 0
	for _, op := range ops {
		if op.Code == code {
			n++
		}
	}
	return n
}

func handleOf(t *testing.T, v *VNode[msg]) surface.NodeID {
	t.Helper()
	id, ok := v.Handle()
	if !ok {
		t.Fatalf("node %s has no handle", v.Kind)
	}
	return id
}
