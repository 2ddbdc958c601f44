// Package surface defines the rendering surface that Vela's reconciler mutates.
//
// A Surface is the live side of the virtual DOM: it owns real nodes, their
// attributes and properties, their child order and the event listeners
// attached to them. The reconciler in package vdom is the only writer; it
// talks to the surface exclusively through the Surface interface so that any
// backend (a browser DOM bridge, a terminal, a remote client) can be plugged
// in.
//
// # Memory
//
// Memory is the in-process implementation. Nodes live in an arena keyed by
// NodeID, with parent/child links expressed as ids, which keeps keyed moves
// cheap and free of pointer aliasing. Every mutation is appended to an op
// log; the log is what package protocol ships to remote clients and what
// tests use to count mutations.
//
//	mem := surface.NewMemory()
//	id, _ := mem.CreateElement("", "div")
//	_ = mem.InsertChild(mem.Root(), id, 0)
//	_ = mem.Listen(id, "click", func(ev surface.Event) { ... })
//	mem.Fire(id, surface.Event{Type: "click"})
package surface
