package demo

import (
	"strconv"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/vdom"
)

type counterMsg int

const (
	increment counterMsg = iota + 1
	decrement
	reset
)

type counter struct {
	count int
}

func (c *counter) Update(_ *app.Mailbox[counterMsg], msg counterMsg) {
	switch msg {
	case increment:
		c.count++
	case decrement:
		c.count--
	case reset:
		c.count = 0
	}
}

func (c *counter) Render() *vdom.VNode[counterMsg] {
	var h html.H[counterMsg]
	class := "count"
	if c.count < 0 {
		class += " negative"
	}
	return h.Div(html.Class("counter"),
		h.H1("Counter"),
		h.P(html.Class(class), strconv.Itoa(c.count)),
		h.Div(html.Class("buttons"),
			h.Button(html.Data("action", "dec"), html.OnClick(decrement), "-"),
			h.Button(html.Data("action", "inc"), html.OnClick(increment), "+"),
			h.Button(html.Data("action", "reset"), html.Disabled(c.count == 0), html.OnClick(reset), "Reset"),
		),
	)
}

// Counter is the smallest demo: plain messages and a text update.
func Counter() Demo {
	return Demo{
		Name:        "counter",
		Description: "Increment and decrement a number",
		Factory:     app.NewFactory(func() app.App[counterMsg] { return &counter{} }),
		Script: []Step{
			click("increment", "inc"),
			click("increment", "inc"),
			click("increment", "inc"),
			click("decrement", "dec"),
			click("reset", "reset"),
		},
	}
}
