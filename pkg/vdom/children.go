package vdom

import "github.com/vango-dev/vela/pkg/surface"

// patchChildren reconciles positional children under parent.
//
// Children are matched by index only: the common prefix is patched, extra
// new children are created and appended, extra old children are destroyed
// in order. Reordering is seen as a change at every position after the
// first divergence.
func (r *Reconciler[Msg]) patchChildren(parent surface.NodeID, next, prev []*VNode[Msg]) error {
	n := min(len(next), len(prev))
	for i := 0; i < n; i++ {
		if _, err := r.Patch(next[i], prev[i]); err != nil {
			return err
		}
	}
	for i := n; i < len(next); i++ {
		if err := r.createAt(parent, next[i], i); err != nil {
			return err
		}
	}
	for i := n; i < len(prev); i++ {
		if err := r.Destroy(prev[i]); err != nil {
			return err
		}
	}
	return nil
}

// patchKeyed reconciles keyed children under parent in a single forward pass.
//
// Old children are indexed by key, and the ones whose key no longer appears
// are destroyed first so they do not push survivors out of place. Walking
// the new set with a cursor, a key hit is patched and relocated to the
// cursor if it is elsewhere; a miss is created and inserted at the cursor.
// After the walk, the parent's children are exactly the new set in order.
//
// Duplicate keys are a caller error. The first old entry for a key is the
// one matched and later old duplicates are destroyed; later new duplicates
// are created as fresh nodes.
func (r *Reconciler[Msg]) patchKeyed(parent surface.NodeID, next, prev []Child[Msg]) error {
	index := make(map[string]int, len(prev))
	for i, c := range prev {
		if _, dup := index[c.Key]; dup {
			r.logger.Debug("duplicate key in keyed children", "key", c.Key)
			continue
		}
		index[c.Key] = i
	}
	wanted := make(map[string]struct{}, len(next))
	for _, c := range next {
		wanted[c.Key] = struct{}{}
	}

	consumed := make([]bool, len(prev))
	for i, c := range prev {
		_, keep := wanted[c.Key]
		if keep && index[c.Key] == i {
			continue
		}
		consumed[i] = true
		if err := r.Destroy(c.Node); err != nil {
			return err
		}
	}

	// The surface now holds the survivors in prev order. Each step below
	// inserts at cursor or moves a survivor there, so the unplaced
	// survivors always trail the placed prefix in their old order. A
	// survivor is already in position when it heads that remainder.
	survivors := make([]int, 0, len(prev))
	for i := range prev {
		if !consumed[i] {
			survivors = append(survivors, i)
		}
	}
	head := 0

	for cursor, c := range next {
		i, ok := index[c.Key]
		if !ok || consumed[i] {
			if err := r.createAt(parent, c.Node, cursor); err != nil {
				return err
			}
			continue
		}
		for head < len(survivors) && consumed[survivors[head]] {
			head++
		}
		inPlace := survivors[head] == i
		consumed[i] = true

		id, err := r.Patch(c.Node, prev[i].Node)
		if err != nil {
			return err
		}
		if inPlace {
			continue
		}
		if err := r.surface.MoveChild(parent, id, cursor); err != nil {
			return fail("move", err)
		}
		r.stats.Moved++
	}
	return nil
}
