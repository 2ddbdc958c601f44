package vdom

// Map converts a tree producing messages of type A into an equivalent tree
// producing messages of type B. Kinds, keys and attributes are preserved;
// every listener first computes its A and then applies f.
//
// Map works on unmaterialized trees: the result has no live handles of its
// own. Map(Map(t, f), g) behaves like Map(t, func(a A) C { return g(f(a)) }).
//
// For lazy nodes the identity of f (its code pointer) is mixed into the
// content hash, so swapping the mapping function invalidates the cache.
// A code pointer says nothing about captured values, and whether two
// closures share one depends on inlining. Use MapKey for closures that
// capture values which change between passes.
func Map[A any, B any](v *VNode[A], f func(A) B) *VNode[B] {
	return mapNode(v, f, uint64(funcID(f)))
}

// MapKey is Map with an explicit identity for f. key is hashed the same way
// Lazy inputs are and replaces f's code pointer in lazy hashes.
func MapKey[A any, B any](v *VNode[A], f func(A) B, key any) *VNode[B] {
	return mapNode(v, f, HashValue(key))
}

func mapNode[A any, B any](v *VNode[A], f func(A) B, id uint64) *VNode[B] {
	if v == nil {
		return nil
	}
	out := &VNode[B]{
		Kind:      v.Kind,
		Namespace: v.Namespace,
		Tag:       v.Tag,
		Text:      v.Text,
		Attrs:     v.Attrs,
	}

	if len(v.Listeners) > 0 {
		out.Listeners = make([]Listener[B], len(v.Listeners))
		for i, l := range v.Listeners {
			out.Listeners[i] = Listener[B]{Event: l.Event, Handler: mapHandler(l.Handler, f)}
		}
	}
	if len(v.Children) > 0 {
		out.Children = make([]*VNode[B], len(v.Children))
		for i, c := range v.Children {
			out.Children[i] = mapNode(c, f, id)
		}
	}
	if len(v.Keyed) > 0 {
		out.Keyed = make([]Child[B], len(v.Keyed))
		for i, c := range v.Keyed {
			out.Keyed[i] = Child[B]{Key: c.Key, Node: mapNode(c.Node, f, id)}
		}
	}
	if v.lazy != nil {
		view := v.lazy.view
		out.lazy = &lazyState[B]{
			hash: mix(v.lazy.hash, id),
			view: func() *VNode[B] { return mapNode(view(), f, id) },
		}
	}
	return out
}

func mapHandler[A any, B any](h func(Event) A, f func(A) B) func(Event) B {
	if h == nil {
		return nil
	}
	return func(ev Event) B {
		return f(h(ev))
	}
}
