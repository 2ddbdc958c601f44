package vdom

import "github.com/vango-dev/vela/pkg/surface"

// cell is a live listener registration. The surface holds a closure over
// the cell, so swapping fire re-targets the listener without touching the
// surface. Cells move from the old tree to the new tree along with the node.
type cell struct {
	event string
	fire  func(surface.Event)
}

func (c *cell) handle(ev surface.Event) {
	if c.fire != nil {
		c.fire(ev)
	}
}

// wrap turns a message producer into a surface callback that dispatches.
func (r *Reconciler[Msg]) wrap(handler func(Event) Msg) func(surface.Event) {
	if handler == nil {
		return nil
	}
	dispatch := r.dispatch
	return func(ev surface.Event) {
		msg := handler(ev)
		if dispatch != nil {
			dispatch(msg)
		}
	}
}

func findCell(cells []*cell, event string) *cell {
	for _, c := range cells {
		if c != nil && c.event == event {
			return c
		}
	}
	return nil
}

// attach registers l on v's node. A second listener for the same event on
// the same node replaces the first.
func (r *Reconciler[Msg]) attach(v *VNode[Msg], l Listener[Msg]) error {
	if l.Event == "" || l.Handler == nil {
		return nil
	}
	if c := findCell(v.cells, l.Event); c != nil {
		c.fire = r.wrap(l.Handler)
		return nil
	}
	c := &cell{event: l.Event, fire: r.wrap(l.Handler)}
	if err := r.surface.Listen(v.node, l.Event, c.handle); err != nil {
		return fail("listen", err)
	}
	v.cells = append(v.cells, c)
	return nil
}

// patchListeners moves prev's registrations to next. Events present in both
// keep their surface registration and only swap the producer; new events are
// registered and vanished ones unregistered.
func (r *Reconciler[Msg]) patchListeners(next, prev *VNode[Msg]) error {
	old := prev.cells
	prev.cells = nil
	next.cells = nil

	for _, l := range next.Listeners {
		if l.Event == "" || l.Handler == nil {
			continue
		}
		if c := findCell(next.cells, l.Event); c != nil {
			c.fire = r.wrap(l.Handler)
			continue
		}
		taken := false
		for i, c := range old {
			if c != nil && c.event == l.Event {
				c.fire = r.wrap(l.Handler)
				next.cells = append(next.cells, c)
				old[i] = nil
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		if err := r.attach(next, l); err != nil {
			return err
		}
	}

	for _, c := range old {
		if c == nil {
			continue
		}
		c.fire = nil
		if err := r.surface.Unlisten(next.node, c.event); err != nil {
			return fail("unlisten", err)
		}
	}
	return nil
}

// detachCells unregisters every listener on v's own node.
func (r *Reconciler[Msg]) detachCells(v *VNode[Msg]) error {
	for _, c := range v.cells {
		c.fire = nil
		if err := r.surface.Unlisten(v.node, c.event); err != nil {
			return fail("unlisten", err)
		}
	}
	v.cells = nil
	return nil
}
