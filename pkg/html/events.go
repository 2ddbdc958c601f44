package html

import "github.com/vango-dev/vela/pkg/vdom"

// On listens for an arbitrary event.
func On[Msg any](event string, fn func(vdom.Event) Msg) vdom.Listener[Msg] {
	return vdom.On(event, fn)
}

// send returns a listener that always produces m.
func send[Msg any](event string, m Msg) vdom.Listener[Msg] {
	return vdom.On(event, func(vdom.Event) Msg { return m })
}

// Mouse events

// OnClick sends m on click.
func OnClick[Msg any](m Msg) vdom.Listener[Msg] { return send("click", m) }

// OnDblClick sends m on double click.
func OnDblClick[Msg any](m Msg) vdom.Listener[Msg] { return send("dblclick", m) }

func OnMouseEnter[Msg any](m Msg) vdom.Listener[Msg] { return send("mouseenter", m) }
func OnMouseLeave[Msg any](m Msg) vdom.Listener[Msg] { return send("mouseleave", m) }

// Form events

// OnInput maps the current value of an input to a message on every edit.
func OnInput[Msg any](fn func(value string) Msg) vdom.Listener[Msg] {
	return vdom.On("input", func(ev vdom.Event) Msg { return fn(ev.Value) })
}

// OnChange maps the committed value of an input to a message.
func OnChange[Msg any](fn func(value string) Msg) vdom.Listener[Msg] {
	return vdom.On("change", func(ev vdom.Event) Msg { return fn(ev.Value) })
}

// OnChecked maps the checked state of a checkbox to a message.
func OnChecked[Msg any](fn func(checked bool) Msg) vdom.Listener[Msg] {
	return vdom.On("change", func(ev vdom.Event) Msg { return fn(ev.Checked) })
}

// OnSubmit sends m when a form is submitted. The client prevents the default
// navigation for forms with a submit listener.
func OnSubmit[Msg any](m Msg) vdom.Listener[Msg] { return send("submit", m) }

func OnFocus[Msg any](m Msg) vdom.Listener[Msg] { return send("focus", m) }
func OnBlur[Msg any](m Msg) vdom.Listener[Msg]  { return send("blur", m) }

// Keyboard events

// OnKeyDown maps the pressed key name (e.g. "Enter", "Escape", "a") to a message.
func OnKeyDown[Msg any](fn func(key string) Msg) vdom.Listener[Msg] {
	return vdom.On("keydown", func(ev vdom.Event) Msg { return fn(ev.Key) })
}

func OnKeyUp[Msg any](fn func(key string) Msg) vdom.Listener[Msg] {
	return vdom.On("keyup", func(ev vdom.Event) Msg { return fn(ev.Key) })
}
