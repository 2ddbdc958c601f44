package router_test

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/router"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
	"github.com/vango-dev/vela/pkg/vtest"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		mode     router.Mode
		location string
		want     router.URL
	}{
		{"hash root", router.Hash, "/app#/", router.URL{}},
		{"hash missing", router.Hash, "/app", router.URL{}},
		{"hash segments", router.Hash, "/app?x=1#/todos/3", router.URL{Path: []string{"todos", "3"}}},
		{"hash query", router.Hash, "/#/todos?filter=done&filter=all",
			router.URL{Path: []string{"todos"}, Query: url.Values{"filter": {"done", "all"}}}},
		{"hash escapes", router.Hash, "/#/a%20b/c%2Fd", router.URL{Path: []string{"a b", "c/d"}}},
		{"hash bad escape kept", router.Hash, "/#/100%", router.URL{Path: []string{"100%"}}},
		{"history path", router.History, "/todos/3?tab=notes#top",
			router.URL{Path: []string{"todos", "3"}, Query: url.Values{"tab": {"notes"}}, Fragment: "top"}},
		{"history ignores empty segments", router.History, "//a///b/", router.URL{Path: []string{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := router.Parse(tt.mode, tt.location); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%s, %q) = %+v, want %+v", tt.mode, tt.location, got, tt.want)
			}
		})
	}
}

func TestHref(t *testing.T) {
	u := router.URL{Path: []string{"a b", "c/d"}, Query: url.Values{"q": {"x&y"}}, Fragment: "f"}
	tests := []struct {
		mode router.Mode
		want string
	}{
		{router.Hash, "#/a%20b/c%2Fd?q=x%26y"},
		{router.History, "/a%20b/c%2Fd?q=x%26y#f"},
	}
	for _, tt := range tests {
		got := u.Href(tt.mode)
		if got != tt.want {
			t.Errorf("Href(%s) = %q, want %q", tt.mode, got, tt.want)
		}
		back := router.Parse(tt.mode, got)
		if !reflect.DeepEqual(back.Path, u.Path) || !reflect.DeepEqual(back.Query, u.Query) {
			t.Errorf("Parse(Href(%s)) = %+v, want %+v", tt.mode, back, u)
		}
	}

	if got := router.Href(router.Hash); got != "#/" {
		t.Errorf("Href(Hash) = %q, want #/", got)
	}
	if got := router.Href(router.History, "todos", "3"); got != "/todos/3" {
		t.Errorf("Href(History, todos, 3) = %q, want /todos/3", got)
	}
}

func TestSegment(t *testing.T) {
	u := router.URL{Path: []string{"a"}}
	if u.Segment(0) != "a" || u.Segment(1) != "" || u.Segment(-1) != "" {
		t.Errorf("Segment() = %q %q %q", u.Segment(0), u.Segment(1), u.Segment(-1))
	}
}

type routeMsg struct {
	route  string
	follow bool
	stop   bool
}

// pages shows the first route segment and can stop following the location.
type pages struct {
	route  string
	visits int
	stop   app.Unsubscribe
}

func (p *pages) Init(mb *app.Mailbox[routeMsg]) {
	p.follow(mb)
}

func (p *pages) follow(mb *app.Mailbox[routeMsg]) {
	p.stop = router.Subscribe(mb, router.Hash, func(u router.URL) routeMsg {
		return routeMsg{route: u.Segment(0)}
	})
}

func (p *pages) Update(mb *app.Mailbox[routeMsg], m routeMsg) {
	switch {
	case m.stop:
		p.stop()
	case m.follow:
		p.follow(mb)
	default:
		p.route = m.route
		p.visits++
	}
}

func (p *pages) Render() *vdom.VNode[routeMsg] {
	var h html.H[routeMsg]
	return h.Div(
		h.Nav(
			h.A(router.Link(router.Href(router.Hash)), "Home"),
			h.A(router.Link(router.Href(router.Hash, "about")), "About"),
		),
		h.P(html.ID("page"), "page:"+p.route),
	)
}

func TestSubscribe(t *testing.T) {
	p := &pages{}
	h := vtest.Mount[routeMsg](t, p)
	h.ExpectContains(`<a data-link="true" href="#/about">About</a>`)

	h.Navigate("/#/about")
	h.ExpectContains("page:about")
	h.Navigate("/")
	h.ExpectContains("page:</p>")
	if p.visits != 2 {
		t.Errorf("visits = %d, want 2", p.visits)
	}
}

func TestSubscribeStop(t *testing.T) {
	p := &pages{}
	h := vtest.Mount[routeMsg](t, p)
	h.Send(routeMsg{stop: true})

	mem := h.Surface()
	var handled bool
	ev := surface.Event{Type: router.EventNavigate, Value: "/#/gone"}
	if err := h.Instance().Do(func() { handled = mem.Fire(mem.Root(), ev) }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	h.Drain()
	if handled || p.visits != 0 {
		t.Errorf("navigate after stop: handled=%v visits=%d", handled, p.visits)
	}

	h.Send(routeMsg{follow: true})
	h.Navigate("/#/back")
	h.ExpectContains("page:back")
}
