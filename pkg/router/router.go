// Package router turns browser location changes into app messages.
//
// The browser client reports the page location as a navigate event on the
// mount node: once when an app starts listening, then on every popstate,
// hashchange or click on a Link anchor. Subscribe parses that location in
// the app's Mode and sends the message the app maps it to.
//
//	func (t *todo) Init(mb *app.Mailbox[msg]) {
//		router.Subscribe(mb, router.Hash, func(u router.URL) msg {
//			return msg{route: u.Segment(0)}
//		})
//	}
package router

import (
	"net/url"
	"strings"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
)

// EventNavigate is the surface event the client fires on the mount node.
// Its Value is the location as path, query and fragment.
const EventNavigate = "navigate"

// Mode selects which part of the location carries the route.
type Mode uint8

const (
	// Hash routes on the fragment, as in /app#/todos/3?tab=notes.
	Hash Mode = iota

	// History routes on the path and query. Link anchors update the
	// address bar with pushState instead of loading a page.
	History
)

// String returns the mode name.
func (m Mode) String() string {
	if m == History {
		return "history"
	}
	return "hash"
}

// URL is a parsed route.
type URL struct {
	// Path holds the decoded, non-empty path segments.
	Path []string

	// Query is nil when the route has no query.
	Query url.Values

	// Fragment is the part after '#' in History mode. Hash mode routes on
	// the fragment, so it is always empty there.
	Fragment string
}

// Parse reads location in the given mode. Malformed escapes are kept
// verbatim rather than rejected.
func Parse(mode Mode, location string) URL {
	before, fragment, _ := strings.Cut(location, "#")
	if mode == Hash {
		return parseRoute(fragment)
	}
	u := parseRoute(before)
	u.Fragment = fragment
	return u
}

func parseRoute(route string) URL {
	path, query, _ := strings.Cut(route, "?")
	var u URL
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if dec, err := url.PathUnescape(seg); err == nil {
			seg = dec
		}
		u.Path = append(u.Path, seg)
	}
	if query != "" {
		// ParseQuery keeps every pair it could decode.
		u.Query, _ = url.ParseQuery(query)
	}
	return u
}

// Segment returns the i-th path segment, or "" past the end.
func (u URL) Segment(i int) string {
	if i < 0 || i >= len(u.Path) {
		return ""
	}
	return u.Path[i]
}

// Href formats u as a link target for mode. Parse(mode, u.Href(mode))
// returns an equal URL.
func (u URL) Href(mode Mode) string {
	var b strings.Builder
	if mode == Hash {
		b.WriteByte('#')
	}
	b.WriteByte('/')
	for i, seg := range u.Path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(url.PathEscape(seg))
	}
	if len(u.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(u.Query.Encode())
	}
	if mode == History && u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Href returns the link target for a route made of segments.
func Href(mode Mode, segments ...string) string {
	return URL{Path: segments}.Href(mode)
}

// Link returns the attributes of an anchor that navigates to href without
// a page load. Pass them to an html builder: h.A(router.Link(href), "Home").
func Link(href string) []vdom.Attr {
	return []vdom.Attr{html.Href(href), html.Data("link", "true")}
}

// Subscribe sends f(u) for the current location and for every later
// location change. Call it from Init or Update; the returned func stops it
// and must also run in Update.
func Subscribe[Msg any](mb *app.Mailbox[Msg], mode Mode, f func(URL) Msg) app.Unsubscribe {
	return mb.Listen(EventNavigate, func(ev surface.Event) Msg {
		return f(Parse(mode, ev.Value))
	})
}
