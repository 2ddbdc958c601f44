package vtest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/render"
	"github.com/vango-dev/vela/pkg/router"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
)

// Harness runs one app instance on a memory surface.
type Harness[Msg any] struct {
	tb   testing.TB
	mem  *surface.Memory
	inst *app.Instance[Msg]
	last app.Pass
}

// Mount starts a on a fresh memory surface and drains its initial work.
// The instance is stopped when the test ends.
func Mount[Msg any](tb testing.TB, a app.App[Msg], opts ...app.Option) *Harness[Msg] {
	tb.Helper()
	h := &Harness[Msg]{tb: tb, mem: surface.NewMemory()}
	opts = append([]app.Option{app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	opts = append(opts, app.OnPass(func(p app.Pass) { h.last = p }))

	inst, err := app.Start(a, h.mem, h.mem.Root(), opts...)
	if err != nil {
		tb.Fatalf("vtest: Start() error: %v", err)
	}
	h.inst = inst
	tb.Cleanup(inst.Stop)
	h.Drain()
	return h
}

// Surface returns the memory surface the app renders into.
func (h *Harness[Msg]) Surface() *surface.Memory {
	return h.mem
}

// Instance returns the running instance.
func (h *Harness[Msg]) Instance() *app.Instance[Msg] {
	return h.inst
}

// Drain processes every queued message and task.
func (h *Harness[Msg]) Drain() {
	h.tb.Helper()
	if err := h.inst.Drain(context.Background()); err != nil {
		h.tb.Fatalf("vtest: pass failed: %v", err)
	}
}

// Send delivers msg and drains.
func (h *Harness[Msg]) Send(msg Msg) {
	h.tb.Helper()
	if err := h.inst.Send(msg); err != nil {
		h.tb.Fatalf("vtest: Send() error: %v", err)
	}
	h.Drain()
}

// Find returns the first node whose attribute name equals value.
// It fails the test when there is none.
func (h *Harness[Msg]) Find(name, value string) surface.NodeID {
	h.tb.Helper()
	id := h.mem.Find(h.mem.Root(), name, value)
	if id == surface.NoNode {
		h.tb.Fatalf("vtest: no element with %s=%q in:\n%s", name, value, truncate(h.HTML(), 500))
	}
	return id
}

// Fire dispatches ev on the element found by attribute and drains.
func (h *Harness[Msg]) Fire(name, value string, ev surface.Event) {
	h.tb.Helper()
	id := h.Find(name, value)
	var handled bool
	if err := h.inst.Do(func() { handled = h.mem.Fire(id, ev) }); err != nil {
		h.tb.Fatalf("vtest: Do() error: %v", err)
	}
	h.Drain()
	if !handled {
		h.tb.Errorf("vtest: no %q listener on %s=%q", ev.Type, name, value)
	}
}

// Navigate reports a browser location change on the mount node, the way
// the client does, and drains.
func (h *Harness[Msg]) Navigate(location string) {
	h.tb.Helper()
	ev := surface.Event{Type: router.EventNavigate, Value: location}
	var handled bool
	if err := h.inst.Do(func() { handled = h.mem.Fire(h.mem.Root(), ev) }); err != nil {
		h.tb.Fatalf("vtest: Do() error: %v", err)
	}
	h.Drain()
	if !handled {
		h.tb.Errorf("vtest: app does not listen for %q", location)
	}
}

// Click fires a click on the element found by attribute.
func (h *Harness[Msg]) Click(name, value string) {
	h.tb.Helper()
	h.Fire(name, value, surface.Event{Type: "click"})
}

// Input fires an input event carrying text.
func (h *Harness[Msg]) Input(name, value, text string) {
	h.tb.Helper()
	h.Fire(name, value, surface.Event{Type: "input", Value: text})
}

// Stats returns the reconcile counters of the latest pass.
func (h *Harness[Msg]) Stats() vdom.Stats {
	return h.last.Stats
}

// Passes returns the sequence number of the latest pass.
func (h *Harness[Msg]) Passes() uint64 {
	return h.last.Seq
}

// HTML renders the mounted tree.
func (h *Harness[Msg]) HTML() string {
	h.tb.Helper()
	return RenderToString(h.tb, h.mem, h.mem.Root())
}

// ExpectContains asserts that the rendered tree contains expected.
func (h *Harness[Msg]) ExpectContains(expected string) {
	h.tb.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.tb.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered tree does not contain unexpected.
func (h *Harness[Msg]) ExpectNotContains(unexpected string) {
	h.tb.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.tb.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the element found by name=value carries attr.
func (h *Harness[Msg]) ExpectAttribute(name, value, attr, want string) {
	h.tb.Helper()
	n, _ := h.mem.Node(h.Find(name, value))
	for _, a := range n.Attrs {
		if a.Name == attr {
			if a.Value != want {
				h.tb.Errorf("%s on %s=%q = %q, want %q", attr, name, value, a.Value, want)
			}
			return
		}
	}
	h.tb.Errorf("attribute %s not found on %s=%q", attr, name, value)
}

// RenderToString renders the subtree under id.
func RenderToString(tb testing.TB, src render.Source, id surface.NodeID) string {
	tb.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(src, id)
	if err != nil {
		tb.Fatalf("vtest: render error: %v", err)
	}
	return html
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
