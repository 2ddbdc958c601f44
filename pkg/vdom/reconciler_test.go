package vdom

import (
	"errors"
	"testing"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/surface"
)

func button(label string, m msg, attrs ...Attr) *VNode[msg] {
	return Element("button", attrs,
		[]Listener[msg]{On("click", func(Event) msg { return m })},
		[]*VNode[msg]{txt(label)})
}

func page(label string, m msg) *VNode[msg] {
	return Element[msg]("div", []Attr{Attribute("class", "page")}, nil, []*VNode[msg]{
		Element[msg]("h1", nil, nil, []*VNode[msg]{txt("Title")}),
		button(label, m),
		List(txt("a"), txt("b")),
		Lazy("static", func(s string) *VNode[msg] { return el("p", txt(s)) }),
	})
}

func TestCreateBuildsTree(t *testing.T) {
	h := newHarness(t)
	v := page("Go", "go")
	id := h.mount(v)

	if got := handleOf(t, v); got != id {
		t.Errorf("Handle() = %d, want %d", got, id)
	}
	node, _ := h.mem.Node(id)
	if node.Tag != "div" || len(node.Attrs) != 1 || node.Attrs[0].Value != "page" {
		t.Errorf("root node = %+v", node)
	}
	if len(node.Children) != 4 {
		t.Fatalf("root children = %d, want 4", len(node.Children))
	}
	if got := h.text(id); got != "TitleGoabstatic" {
		t.Errorf("text = %q, want %q", got, "TitleGoabstatic")
	}
	for _, c := range v.Children {
		if _, ok := c.Handle(); !ok {
			t.Errorf("child %s has no handle after Create", c.Kind)
		}
	}
}

func TestCreateRegistersListeners(t *testing.T) {
	h := newHarness(t)
	v := button("Inc", "inc")
	id := h.mount(v)

	if !h.mem.Fire(id, surface.Event{Type: "click"}) {
		t.Fatal("Fire(click) found no listener")
	}
	if len(h.msgs) != 1 || h.msgs[0] != "inc" {
		t.Errorf("messages = %v, want [inc]", h.msgs)
	}
}

func TestPatchIdenticalTreeIsNoOp(t *testing.T) {
	h := newHarness(t)
	prev := page("Go", "go")
	id := h.mount(prev)

	next := page("Go", "go")
	got := h.patch(next, prev)

	if got != id {
		t.Errorf("Patch() handle = %d, want %d", got, id)
	}
	if ops := h.mem.Ops(); len(ops) != 0 {
		t.Errorf("no-op patch produced %d ops: %v", len(ops), ops)
	}
	if _, ok := prev.Handle(); ok {
		t.Error("old tree should not keep its handle after patch")
	}
	if st := h.r.Stats(); st.LazyHits != 1 || st.LazyMisses != 0 {
		t.Errorf("lazy stats = %+v, want 1 hit", st)
	}
}

func TestPatchListenerSwapWithoutSurfaceOps(t *testing.T) {
	h := newHarness(t)
	prev := button("Go", "first")
	id := h.mount(prev)

	next := button("Go", "second")
	h.patch(next, prev)
	if len(h.mem.Ops()) != 0 {
		t.Errorf("listener swap produced ops: %v", h.mem.Ops())
	}

	h.mem.Fire(id, surface.Event{Type: "click"})
	if len(h.msgs) != 1 || h.msgs[0] != "second" {
		t.Errorf("messages = %v, want [second]", h.msgs)
	}
}

func TestPatchListenerAddRemove(t *testing.T) {
	h := newHarness(t)
	prev := Element("input", nil, []Listener[msg]{
		On("input", func(ev Event) msg { return msg("in:" + ev.Value) }),
	}, nil)
	id := h.mount(prev)

	next := Element("input", nil, []Listener[msg]{
		On("change", func(ev Event) msg { return msg("ch:" + ev.Value) }),
	}, nil)
	h.patch(next, prev)

	ops := h.mem.Ops()
	if countOps(ops, surface.OpListen) != 1 || countOps(ops, surface.OpUnlisten) != 1 {
		t.Errorf("ops = %v, want one listen and one unlisten", ops)
	}
	if h.mem.Fire(id, surface.Event{Type: "input", Value: "x"}) {
		t.Error("old input listener should be gone")
	}
	h.mem.Fire(id, surface.Event{Type: "change", Value: "y"})
	if len(h.msgs) != 1 || h.msgs[0] != "ch:y" {
		t.Errorf("messages = %v, want [ch:y]", h.msgs)
	}
}

func TestPatchText(t *testing.T) {
	h := newHarness(t)
	prev := txt("Hello")
	id := h.mount(prev)

	next := txt("World")
	if got := h.patch(next, prev); got != id {
		t.Errorf("handle = %d, want %d", got, id)
	}
	ops := h.mem.Ops()
	if len(ops) != 1 || ops[0].Code != surface.OpSetText || ops[0].Value != "World" {
		t.Errorf("ops = %v, want single SetText(World)", ops)
	}
}

func TestPatchAttributes(t *testing.T) {
	h := newHarness(t)
	prev := Element[msg]("input", []Attr{
		Attribute("class", "a"),
		Attribute("id", "name"),
		Property("value", "old"),
	}, nil, nil)
	id := h.mount(prev)

	next := Element[msg]("input", []Attr{
		Attribute("class", "b"),
		Attribute("type", "text"),
		Property("value", "old"),
	}, nil, nil)
	h.patch(next, prev)

	ops := h.mem.Ops()
	if countOps(ops, surface.OpSetAttr) != 2 {
		t.Errorf("SetAttr ops = %d, want 2: %v", countOps(ops, surface.OpSetAttr), ops)
	}
	if countOps(ops, surface.OpRemoveAttr) != 1 {
		t.Errorf("RemoveAttr ops = %d, want 1: %v", countOps(ops, surface.OpRemoveAttr), ops)
	}
	if countOps(ops, surface.OpSetProp) != 0 {
		t.Errorf("unchanged property was written: %v", ops)
	}

	node, _ := h.mem.Node(id)
	want := []surface.Attribute{{Name: "class", Value: "b"}, {Name: "type", Value: "text"}}
	if len(node.Attrs) != len(want) {
		t.Fatalf("attrs = %v, want %v", node.Attrs, want)
	}
	for i := range want {
		if node.Attrs[i] != want[i] {
			t.Errorf("attrs[%d] = %v, want %v", i, node.Attrs[i], want[i])
		}
	}
}

func TestPatchRemovedPropertyIsReset(t *testing.T) {
	h := newHarness(t)
	prev := Element[msg]("input", []Attr{Property("checked", "true")}, nil, nil)
	id := h.mount(prev)

	h.patch(Element[msg]("input", nil, nil, nil), prev)

	node, _ := h.mem.Node(id)
	if len(node.Props) != 1 || node.Props[0].Value != "" {
		t.Errorf("props = %v, want checked reset to empty", node.Props)
	}
}

func TestPatchReplaceOnKindMismatch(t *testing.T) {
	h := newHarness(t)
	prev := Element[msg]("div", []Attr{Attribute("class", "old")}, nil, []*VNode[msg]{
		button("Nested", "nested"),
	})
	oldID := h.mount(prev)
	nestedID := handleOf(t, prev.Children[0])

	next := txt("plain")
	newID := h.patch(next, prev)

	if newID == oldID {
		t.Fatal("replacement reused the old handle")
	}
	if _, ok := h.mem.Node(oldID); ok {
		t.Error("old element still live")
	}
	if _, ok := h.mem.Node(nestedID); ok {
		t.Error("nested button still live")
	}
	if h.mem.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", h.mem.ListenerCount())
	}

	ops := h.mem.Ops()
	release, create := -1, -1
	for i, op := range ops {
		switch op.Code {
		case surface.OpRelease:
			release = i
		case surface.OpCreateText:
			create = i
		}
	}
	if release < 0 || create < 0 || release > create {
		t.Errorf("ops = %v, want release before create", ops)
	}
	if countOps(ops, surface.OpUnlisten) != 1 {
		t.Errorf("unlisten ops = %d, want 1", countOps(ops, surface.OpUnlisten))
	}

	node, _ := h.mem.Node(newID)
	if node.Kind != surface.NodeText || node.Text != "plain" || len(node.Attrs) != 0 {
		t.Errorf("new node = %+v", node)
	}
	if rootKids := h.children(h.mem.Root()); len(rootKids) != 1 || rootKids[0] != newID {
		t.Errorf("root children = %v, want [%d]", rootKids, newID)
	}
}

func TestPatchReplaceKeepsPosition(t *testing.T) {
	h := newHarness(t)
	prev := el("div", txt("a"), el("span", txt("b")), txt("c"))
	id := h.mount(prev)

	next := el("div", txt("a"), el("em", txt("b")), txt("c"))
	h.patch(next, prev)

	kids := h.children(id)
	if len(kids) != 3 {
		t.Fatalf("children = %d, want 3", len(kids))
	}
	mid, _ := h.mem.Node(kids[1])
	if mid.Tag != "em" {
		t.Errorf("middle child tag = %q, want em", mid.Tag)
	}
	if h.r.Stats().Replaced != 1 {
		t.Errorf("Replaced = %d, want 1", h.r.Stats().Replaced)
	}
}

func TestPatchNamespaceMismatchReplaces(t *testing.T) {
	h := newHarness(t)
	prev := ElementNS[msg]("", "a", nil, nil, nil)
	oldID := h.mount(prev)

	next := ElementNS[msg]("http://www.w3.org/2000/svg", "a", nil, nil, nil)
	if newID := h.patch(next, prev); newID == oldID {
		t.Error("namespace change should replace the element")
	}
}

func TestPatchKeyedToNonKeyedReplacesChildren(t *testing.T) {
	h := newHarness(t)
	prev := keyedList(item("a", "A"), item("b", "B"))
	id := h.mount(prev)

	next := el("ul", el("li", txt("A")), el("li", txt("B")))
	if got := h.patch(next, prev); got != id {
		t.Errorf("element handle = %d, want %d (element reused)", got, id)
	}
	ops := h.mem.Ops()
	if countOps(ops, surface.OpRelease) != 2 {
		t.Errorf("releases = %d, want 2", countOps(ops, surface.OpRelease))
	}
	if countOps(ops, surface.OpCreateElement) != 2 {
		t.Errorf("element creates = %d, want 2", countOps(ops, surface.OpCreateElement))
	}
	if got := h.text(id); got != "AB" {
		t.Errorf("text = %q, want AB", got)
	}
}

func TestPatchListReusesFragment(t *testing.T) {
	h := newHarness(t)
	prev := List(txt("a"), txt("b"))
	id := h.mount(prev)

	next := List(txt("a"), txt("c"), txt("d"))
	if got := h.patch(next, prev); got != id {
		t.Errorf("fragment handle = %d, want %d", got, id)
	}
	if got := h.text(id); got != "acd" {
		t.Errorf("text = %q, want acd", got)
	}
}

func TestPatchUnmaterializedCreates(t *testing.T) {
	h := newHarness(t)
	next := el("div")
	id, err := h.r.Patch(next, el("div"))
	if err != nil {
		t.Fatalf("Patch() error: %v", err)
	}
	if got := handleOf(t, next); got != id {
		t.Errorf("handle = %d, want %d", got, id)
	}
}

func TestPatchSameNodeIsNoOp(t *testing.T) {
	h := newHarness(t)
	v := el("div", txt("x"))
	id := h.mount(v)
	if got := h.patch(v, v); got != id {
		t.Errorf("handle = %d, want %d", got, id)
	}
	if len(h.mem.Ops()) != 0 {
		t.Errorf("ops = %v, want none", h.mem.Ops())
	}
}

func TestSurfaceFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	prev := el("ul", el("li", txt("a")))
	h.mount(prev)

	boom := errors.New("capacity exceeded")
	h.mem.FailOn(surface.OpInsert, boom)

	_, err := h.r.Patch(el("ul", el("li", txt("a")), el("li", txt("b"))), prev)
	if err == nil {
		t.Fatal("Patch() error = nil, want surface failure")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not wrap the surface error", err)
	}
	if !velaerrors.HasCode(err, "E100") {
		t.Errorf("error %v is not E100", err)
	}
}

func TestCreateNilNode(t *testing.T) {
	h := newHarness(t)
	if _, err := h.r.Create(nil); !velaerrors.HasCode(err, "E101") {
		t.Errorf("Create(nil) error = %v, want E101", err)
	}
	if _, err := h.r.Patch(nil, el("div")); !velaerrors.HasCode(err, "E101") {
		t.Errorf("Patch(nil) error = %v, want E101", err)
	}
}

func TestDestroyUnmaterializedIsNoOp(t *testing.T) {
	h := newHarness(t)
	if err := h.r.Destroy(el("div")); err != nil {
		t.Errorf("Destroy() error = %v", err)
	}
	if len(h.mem.Ops()) != 0 {
		t.Error("Destroy of unmaterialized node produced ops")
	}
}

func TestDuplicateListenerLastWins(t *testing.T) {
	h := newHarness(t)
	v := Element("button", nil, []Listener[msg]{
		On("click", func(Event) msg { return "first" }),
		On("click", func(Event) msg { return "second" }),
	}, nil)
	id := h.mount(v)

	h.mem.Fire(id, surface.Event{Type: "click"})
	if len(h.msgs) != 1 || h.msgs[0] != "second" {
		t.Errorf("messages = %v, want [second]", h.msgs)
	}
	if h.mem.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", h.mem.ListenerCount())
	}
}
