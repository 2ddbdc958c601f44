// Package vtest provides testing helpers for Vela apps.
//
// A Harness mounts an app on an in-memory surface and drives it
// synchronously: every interaction queues work on the instance and then
// drains it, so assertions always see the settled DOM.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount[Msg](t, &Counter{})
//	    h.Click("data-action", "inc")
//	    h.ExpectContains("<p>1</p>")
//	}
//
// # Finding Nodes
//
// Interactions address elements by attribute, usually a data-* attribute
// the view sets for the purpose:
//
//	h.Input("name", "email", "ada@example.com")
//	h.Fire("id", "form", surface.Event{Type: "submit"})
//
// # Counting Mutations
//
// Each pass's reconcile counters are kept, which makes tests for minimal
// updates direct:
//
//	h.Click("data-action", "inc")
//	if s := h.Stats(); s.Created != 0 {
//	    t.Errorf("Created = %d, want 0", s.Created)
//	}
package vtest
