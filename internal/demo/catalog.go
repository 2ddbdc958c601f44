package demo

import (
	"context"
	"net/url"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/fetch"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/vdom"
)

// CatalogPath is the server endpoint listing the mounted apps.
const CatalogPath = "/api/apps"

type catalogMsg struct {
	reload bool
	demos  []Demo
	err    error
}

type catalog struct {
	env     Env
	loading bool
	demos   []Demo
	err     error
}

func (c *catalog) Init(mb *app.Mailbox[catalogMsg]) {
	c.load(mb)
}

func (c *catalog) load(mb *app.Mailbox[catalogMsg]) {
	if c.env.BaseURL == "" {
		return
	}
	c.loading = true
	endpoint, err := url.JoinPath(c.env.BaseURL, CatalogPath)
	if err != nil {
		c.loading = false
		c.err = err
		return
	}
	client := c.env.Client
	mb.Spawn(func(ctx context.Context) (catalogMsg, error) {
		demos, err := fetch.Get[[]Demo](ctx, client, endpoint)
		return catalogMsg{demos: demos, err: err}, nil
	})
}

func (c *catalog) Update(mb *app.Mailbox[catalogMsg], msg catalogMsg) {
	if msg.reload {
		c.load(mb)
		return
	}
	c.loading = false
	c.demos, c.err = msg.demos, msg.err
}

func (c *catalog) Render() *vdom.VNode[catalogMsg] {
	var h html.H[catalogMsg]

	var body *vdom.VNode[catalogMsg]
	switch {
	case c.env.BaseURL == "":
		body = h.P(html.Class("offline"), "The catalog needs a running server.")
	case c.loading:
		body = h.P(html.Class("loading"), "Loading…")
	case c.err != nil:
		body = h.P(html.Class("error"), c.err.Error())
	default:
		body = h.Keyed("ul", html.Class("demos"),
			html.RangeKeyed(c.demos, func(d Demo) string { return d.Name },
				func(d Demo, _ int) *vdom.VNode[catalogMsg] {
					return h.Li(
						h.A(html.Href("/?app="+url.QueryEscape(d.Name)), d.Name),
						h.Span(html.Class("description"), " "+d.Description),
					)
				}))
	}

	return h.Div(html.Class("catalog"),
		h.H1("Demos"),
		body,
		h.Button(html.Data("action", "reload"), html.Disabled(c.loading || c.env.BaseURL == ""),
			html.OnClick(catalogMsg{reload: true}), "Reload"),
	)
}

// Catalog lists the demos served by the host, fetched from its API.
func Catalog(env Env) Demo {
	return Demo{
		Name:        "catalog",
		Description: "Demo list loaded from the server API",
		Factory: app.NewFactory(func() app.App[catalogMsg] {
			return &catalog{env: env}
		}),
	}
}
