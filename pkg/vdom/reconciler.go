package vdom

import (
	"log/slog"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/surface"
)

// Stats counts the work done by a reconciler since the last ResetStats.
type Stats struct {
	Created    int // Nodes allocated on the surface
	Destroyed  int // Subtrees released from the surface
	Replaced   int // Nodes replaced because their kind or tag changed
	Moved      int // Keyed children relocated
	TextWrites int // Text nodes overwritten
	AttrWrites int // Attributes and properties set or removed
	LazyHits   int // Lazy nodes reused without rendering
	LazyMisses int // Lazy nodes rendered
}

// Option configures a Reconciler.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Reconciler materializes and patches VNode trees on a surface.
//
// A Reconciler is not safe for concurrent use. Create and Patch run to
// completion synchronously and must not be re-entered from a listener.
type Reconciler[Msg any] struct {
	surface  surface.Surface
	dispatch func(Msg)
	logger   *slog.Logger
	stats    Stats
}

// NewReconciler creates a reconciler that mutates s and forwards every
// message produced by a listener to dispatch.
func NewReconciler[Msg any](s surface.Surface, dispatch func(Msg), opts ...Option) *Reconciler[Msg] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "vdom")
	}
	return &Reconciler[Msg]{
		surface:  s,
		dispatch: dispatch,
		logger:   o.logger,
	}
}

// Surface returns the surface this reconciler mutates.
func (r *Reconciler[Msg]) Surface() surface.Surface {
	return r.surface
}

// Stats returns the counters accumulated since the last reset.
func (r *Reconciler[Msg]) Stats() Stats {
	return r.stats
}

// ResetStats clears the counters.
func (r *Reconciler[Msg]) ResetStats() {
	r.stats = Stats{}
}

// fail wraps a surface error so that callers can recognize it as fatal to the pass.
func fail(op string, err error) error {
	return velaerrors.New("E100").WithOp(op).Wrap(err)
}

// Create materializes v, which must not have been created before, and
// returns its live handle. The node is left detached; the caller inserts it.
func (r *Reconciler[Msg]) Create(v *VNode[Msg]) (surface.NodeID, error) {
	if v == nil {
		return surface.NoNode, velaerrors.New("E101").WithOp("create").WithDetail("nil node")
	}

	switch v.Kind {
	case KindText:
		id, err := r.surface.CreateText(v.Text)
		if err != nil {
			return surface.NoNode, fail("create text", err)
		}
		r.stats.Created++
		v.node = id
		return id, nil

	case KindElement, KindKeyed:
		return r.createElement(v)

	case KindList:
		id, err := r.surface.CreateFragment()
		if err != nil {
			return surface.NoNode, fail("create fragment", err)
		}
		r.stats.Created++
		v.node = id
		if err := r.createChildren(id, v.Children); err != nil {
			return surface.NoNode, err
		}
		return id, nil

	case KindLazy:
		if v.lazy == nil {
			return surface.NoNode, velaerrors.New("E101").WithOp("create").WithDetail("lazy node without view")
		}
		tree := v.lazy.view()
		id, err := r.Create(tree)
		if err != nil {
			return surface.NoNode, err
		}
		r.stats.LazyMisses++
		v.lazy.cached = tree
		return id, nil

	default:
		return surface.NoNode, velaerrors.New("E101").WithOp("create").WithDetailf("unknown kind %s", v.Kind)
	}
}

func (r *Reconciler[Msg]) createElement(v *VNode[Msg]) (surface.NodeID, error) {
	id, err := r.surface.CreateElement(v.Namespace, v.Tag)
	if err != nil {
		return surface.NoNode, fail("create element", err)
	}
	r.stats.Created++
	v.node = id

	for _, a := range v.Attrs {
		if a.IsEmpty() {
			continue
		}
		if err := r.setAttr(id, a); err != nil {
			return surface.NoNode, err
		}
	}
	for _, l := range v.Listeners {
		if err := r.attach(v, l); err != nil {
			return surface.NoNode, err
		}
	}

	if v.Kind == KindKeyed {
		for i, c := range v.Keyed {
			if err := r.createAt(id, c.Node, i); err != nil {
				return surface.NoNode, err
			}
		}
		return id, nil
	}
	if err := r.createChildren(id, v.Children); err != nil {
		return surface.NoNode, err
	}
	return id, nil
}

func (r *Reconciler[Msg]) createChildren(parent surface.NodeID, children []*VNode[Msg]) error {
	for i, c := range children {
		if err := r.createAt(parent, c, i); err != nil {
			return err
		}
	}
	return nil
}

// createAt creates v and inserts it under parent at index.
func (r *Reconciler[Msg]) createAt(parent surface.NodeID, v *VNode[Msg], index int) error {
	id, err := r.Create(v)
	if err != nil {
		return err
	}
	if err := r.surface.InsertChild(parent, id, index); err != nil {
		return fail("insert", err)
	}
	return nil
}

func (r *Reconciler[Msg]) setAttr(id surface.NodeID, a Attr) error {
	r.stats.AttrWrites++
	if a.Kind == AttrProperty {
		if err := r.surface.SetProperty(id, a.Name, a.Value); err != nil {
			return fail("set property", err)
		}
		return nil
	}
	if err := r.surface.SetAttribute(id, a.Name, a.Value); err != nil {
		return fail("set attribute", err)
	}
	return nil
}

// Patch reconciles next against prev, which must be materialized, and
// returns the handle that now represents next. prev must not be used
// afterwards: its handle has either moved to next or been destroyed.
//
// If prev was replaced and had a parent, the new node takes its position.
func (r *Reconciler[Msg]) Patch(next, prev *VNode[Msg]) (surface.NodeID, error) {
	if next == nil {
		return surface.NoNode, velaerrors.New("E101").WithOp("patch").WithDetail("nil node")
	}
	if next == prev {
		id, _ := next.Handle()
		return id, nil
	}
	if _, ok := prev.Handle(); !ok {
		r.logger.Debug("patch against unmaterialized node, creating", "kind", next.Kind)
		return r.Create(next)
	}
	if !sameShape(next, prev) {
		return r.replace(next, prev)
	}

	switch next.Kind {
	case KindText:
		id := prev.node
		next.node = id
		prev.node = surface.NoNode
		if next.Text != prev.Text {
			r.stats.TextWrites++
			if err := r.surface.SetText(id, next.Text); err != nil {
				return surface.NoNode, fail("set text", err)
			}
		}
		return id, nil

	case KindElement, KindKeyed:
		return r.patchElement(next, prev)

	case KindList:
		id := prev.node
		next.node = id
		prev.node = surface.NoNode
		if err := r.patchChildren(id, next.Children, prev.Children); err != nil {
			return surface.NoNode, err
		}
		return id, nil

	case KindLazy:
		return r.patchLazy(next, prev)
	}
	return surface.NoNode, velaerrors.New("E101").WithOp("patch").WithDetailf("unknown kind %s", next.Kind)
}

// sameShape reports whether prev's live node can be reused for next.
func sameShape[Msg any](next, prev *VNode[Msg]) bool {
	if next.IsElement() && prev.IsElement() {
		return next.Tag == prev.Tag && next.Namespace == prev.Namespace
	}
	return next.Kind == prev.Kind
}

// replace destroys prev and creates next in its position.
func (r *Reconciler[Msg]) replace(next, prev *VNode[Msg]) (surface.NodeID, error) {
	old, _ := prev.Handle()
	parent := r.surface.Parent(old)
	index := -1
	if parent != surface.NoNode {
		index = r.surface.ChildIndex(parent, old)
	}
	r.logger.Debug("replacing node", "from", prev.Kind, "to", next.Kind, "tag", next.Tag)

	if err := r.Destroy(prev); err != nil {
		return surface.NoNode, err
	}
	id, err := r.Create(next)
	if err != nil {
		return surface.NoNode, err
	}
	r.stats.Replaced++
	if parent != surface.NoNode {
		if err := r.surface.InsertChild(parent, id, index); err != nil {
			return surface.NoNode, fail("insert", err)
		}
	}
	return id, nil
}

func (r *Reconciler[Msg]) patchElement(next, prev *VNode[Msg]) (surface.NodeID, error) {
	id := prev.node
	next.node = id
	prev.node = surface.NoNode

	if err := r.patchAttrs(id, next.Attrs, prev.Attrs); err != nil {
		return surface.NoNode, err
	}
	if err := r.patchListeners(next, prev); err != nil {
		return surface.NoNode, err
	}

	var err error
	switch {
	case next.Kind == KindKeyed && prev.Kind == KindKeyed:
		err = r.patchKeyed(id, next.Keyed, prev.Keyed)
	case next.Kind == KindElement && prev.Kind == KindElement:
		err = r.patchChildren(id, next.Children, prev.Children)
	default:
		err = r.replaceChildren(id, next, prev)
	}
	if err != nil {
		return surface.NoNode, err
	}
	return id, nil
}

type attrKey struct {
	kind AttrKind
	name string
}

func (r *Reconciler[Msg]) patchAttrs(id surface.NodeID, next, prev []Attr) error {
	if len(next) == 0 && len(prev) == 0 {
		return nil
	}
	old := make(map[attrKey]string, len(prev))
	for _, a := range prev {
		if !a.IsEmpty() {
			old[attrKey{a.Kind, a.Name}] = a.Value
		}
	}
	seen := make(map[attrKey]struct{}, len(next))
	for _, a := range next {
		if a.IsEmpty() {
			continue
		}
		k := attrKey{a.Kind, a.Name}
		seen[k] = struct{}{}
		if v, ok := old[k]; ok && v == a.Value {
			continue
		}
		if err := r.setAttr(id, a); err != nil {
			return err
		}
	}
	for _, a := range prev {
		if a.IsEmpty() {
			continue
		}
		k := attrKey{a.Kind, a.Name}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		r.stats.AttrWrites++
		// Properties cannot be removed from a live node; they are reset instead.
		if a.Kind == AttrProperty {
			if err := r.surface.SetProperty(id, a.Name, ""); err != nil {
				return fail("set property", err)
			}
			continue
		}
		if err := r.surface.RemoveAttribute(id, a.Name); err != nil {
			return fail("remove attribute", err)
		}
	}
	return nil
}

// replaceChildren swaps the whole child region when the child flavor changed.
func (r *Reconciler[Msg]) replaceChildren(id surface.NodeID, next, prev *VNode[Msg]) error {
	for _, c := range prev.Children {
		if err := r.Destroy(c); err != nil {
			return err
		}
	}
	for _, c := range prev.Keyed {
		if err := r.Destroy(c.Node); err != nil {
			return err
		}
	}
	if next.Kind == KindKeyed {
		for i, c := range next.Keyed {
			if err := r.createAt(id, c.Node, i); err != nil {
				return err
			}
		}
		return nil
	}
	return r.createChildren(id, next.Children)
}

func (r *Reconciler[Msg]) patchLazy(next, prev *VNode[Msg]) (surface.NodeID, error) {
	if next.lazy == nil || prev.lazy == nil {
		return r.replace(next, prev)
	}
	old := prev.lazy.cached
	prev.lazy.cached = nil

	if next.lazy.hash == prev.lazy.hash {
		r.stats.LazyHits++
		next.lazy.cached = old
		id, _ := old.Handle()
		return id, nil
	}

	r.stats.LazyMisses++
	tree := next.lazy.view()
	id, err := r.Patch(tree, old)
	if err != nil {
		return surface.NoNode, err
	}
	next.lazy.cached = tree
	return id, nil
}

// Destroy unregisters every listener in v's subtree, detaches v's live node
// and releases it. Destroying an unmaterialized node is a no-op.
func (r *Reconciler[Msg]) Destroy(v *VNode[Msg]) error {
	id, ok := v.Handle()
	if !ok {
		return nil
	}
	if err := r.unlistenAll(v); err != nil {
		return err
	}
	if parent := r.surface.Parent(id); parent != surface.NoNode {
		if err := r.surface.RemoveChild(parent, id); err != nil {
			return fail("remove", err)
		}
	}
	if err := r.surface.Release(id); err != nil {
		return fail("release", err)
	}
	r.stats.Destroyed++
	forget(v)
	return nil
}

// unlistenAll walks v and removes every registered listener.
func (r *Reconciler[Msg]) unlistenAll(v *VNode[Msg]) error {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindLazy:
		if v.lazy != nil {
			return r.unlistenAll(v.lazy.cached)
		}
		return nil
	case KindKeyed:
		if err := r.detachCells(v); err != nil {
			return err
		}
		for _, c := range v.Keyed {
			if err := r.unlistenAll(c.Node); err != nil {
				return err
			}
		}
		return nil
	case KindElement:
		if err := r.detachCells(v); err != nil {
			return err
		}
	}
	for _, c := range v.Children {
		if err := r.unlistenAll(c); err != nil {
			return err
		}
	}
	return nil
}

// forget clears every handle in v's subtree.
func forget[Msg any](v *VNode[Msg]) {
	if v == nil {
		return
	}
	v.node = surface.NoNode
	v.cells = nil
	if v.lazy != nil {
		forget(v.lazy.cached)
		v.lazy.cached = nil
	}
	for _, c := range v.Children {
		forget(c)
	}
	for _, c := range v.Keyed {
		forget(c.Node)
	}
}
