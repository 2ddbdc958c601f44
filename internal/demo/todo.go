package demo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/router"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
)

// Item is one todo entry.
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type filter int

const (
	showAll filter = iota
	showActive
	showDone
)

func (f filter) String() string {
	switch f {
	case showActive:
		return "active"
	case showDone:
		return "done"
	default:
		return "all"
	}
}

// filterFor maps the first route segment to a filter. Unknown routes show
// everything.
func filterFor(u router.URL) filter {
	switch u.Segment(0) {
	case "active":
		return showActive
	case "done":
		return showDone
	}
	return showAll
}

func (f filter) href() string {
	if f == showAll {
		return router.Href(router.Hash)
	}
	return router.Href(router.Hash, f.String())
}

func (f filter) keep(it Item) bool {
	switch f {
	case showActive:
		return !it.Done
	case showDone:
		return it.Done
	}
	return true
}

// itemMsg is the message type of the item component. It knows nothing
// about the list it is rendered in.
type itemMsg struct {
	toggle  bool
	checked bool
	remove  bool
}

// itemView renders one entry. It is wrapped by Lazy so unchanged items are
// skipped, and by Map so its messages reach the list.
func itemView(it Item) *vdom.VNode[itemMsg] {
	var h html.H[itemMsg]
	id := strconv.Itoa(it.ID)
	class := "item"
	if it.Done {
		class += " done"
	}
	return h.Li(html.Class(class),
		h.Input(html.Type("checkbox"), html.Checked(it.Done), html.Data("action", "toggle-"+id),
			html.OnChecked(func(on bool) itemMsg { return itemMsg{toggle: true, checked: on} })),
		h.Span(html.Class("title"), it.Title),
		h.Button(html.Data("action", "remove-"+id), html.AriaLabel("Remove"),
			html.OnClick(itemMsg{remove: true}), "×"),
	)
}

type todoKind int

const (
	todoNoop todoKind = iota
	todoDraft
	todoAdd
	todoItem
	todoFilter
	todoClear
)

type todoMsg struct {
	kind   todoKind
	text   string
	id     int
	item   itemMsg
	filter filter
}

type todo struct {
	items  []Item
	draft  string
	nextID int
	filter filter
}

// Init follows the hash route, which selects the filter.
func (t *todo) Init(mb *app.Mailbox[todoMsg]) {
	router.Subscribe(mb, router.Hash, func(u router.URL) todoMsg {
		return todoMsg{kind: todoFilter, filter: filterFor(u)}
	})
}

func (t *todo) Update(_ *app.Mailbox[todoMsg], msg todoMsg) {
	switch msg.kind {
	case todoDraft:
		t.draft = msg.text
	case todoAdd:
		title := strings.TrimSpace(t.draft)
		if title == "" {
			return
		}
		t.nextID++
		t.items = append(t.items, Item{ID: t.nextID, Title: title})
		t.draft = ""
	case todoItem:
		t.updateItem(msg.id, msg.item)
	case todoFilter:
		t.filter = msg.filter
	case todoClear:
		kept := t.items[:0]
		for _, it := range t.items {
			if !it.Done {
				kept = append(kept, it)
			}
		}
		t.items = kept
	}
}

func (t *todo) updateItem(id int, msg itemMsg) {
	for i, it := range t.items {
		if it.ID != id {
			continue
		}
		switch {
		case msg.remove:
			t.items = append(t.items[:i], t.items[i+1:]...)
		case msg.toggle:
			t.items[i].Done = msg.checked
		}
		return
	}
}

func (t *todo) remaining() int {
	n := 0
	for _, it := range t.items {
		if !it.Done {
			n++
		}
	}
	return n
}

func (t *todo) Render() *vdom.VNode[todoMsg] {
	var h html.H[todoMsg]

	var rows []vdom.Child[todoMsg]
	for _, it := range t.items {
		if !t.filter.keep(it) {
			continue
		}
		id := it.ID
		row := vdom.MapKey(vdom.Lazy(it, itemView), func(m itemMsg) todoMsg {
			return todoMsg{kind: todoItem, id: id, item: m}
		}, id)
		rows = append(rows, h.Item(strconv.Itoa(id), row))
	}

	left := t.remaining()
	noun := "items"
	if left == 1 {
		noun = "item"
	}

	return h.Div(html.Class("todo"),
		h.H1("Todo"),
		h.Form(html.OnSubmit(todoMsg{kind: todoAdd}),
			h.Input(html.Type("text"), html.Placeholder("What needs doing?"), html.Value(t.draft),
				html.Data("action", "draft"),
				html.OnInput(func(v string) todoMsg { return todoMsg{kind: todoDraft, text: v} }),
				html.OnKeyDown(func(key string) todoMsg {
					if key == "Enter" {
						return todoMsg{kind: todoAdd}
					}
					return todoMsg{}
				})),
			h.Button(html.Type("button"), html.Data("action", "add"), html.OnClick(todoMsg{kind: todoAdd}), "Add"),
		),
		h.Keyed("ul", html.Class("items"), rows),
		h.Footer(
			h.Span(html.Class("count"), fmt.Sprintf("%d %s left", left, noun)),
			t.filterButton(showAll),
			t.filterButton(showActive),
			t.filterButton(showDone),
			html.If(left < len(t.items),
				h.Button(html.Data("action", "clear"), html.OnClick(todoMsg{kind: todoClear}), "Clear done")),
		),
	)
}

func (t *todo) filterButton(f filter) *vdom.VNode[todoMsg] {
	var h html.H[todoMsg]
	class := "filter"
	if t.filter == f {
		class += " selected"
	}
	return h.A(router.Link(f.href()), html.Class(class), html.Data("action", "filter-"+f.String()), f.String())
}

func input(label, action, value string) Step {
	return Step{Label: label, Action: action, Event: surface.Event{Type: "input", Value: value}}
}

// Todo is a keyed list whose rows are a separate component.
func Todo() Demo {
	return Demo{
		Name:        "todo",
		Description: "Keyed list with an embedded item component",
		Factory:     app.NewFactory(func() app.App[todoMsg] { return &todo{} }),
		Script: []Step{
			input("type first item", "draft", "Buy milk"),
			{Label: "press enter", Action: "draft", Event: surface.Event{Type: "keydown", Key: "Enter"}},
			input("type second item", "draft", "Walk the dog"),
			click("add", "add"),
			input("type third item", "draft", "Write report"),
			click("add", "add"),
			{Label: "complete first", Action: "toggle-1", Event: surface.Event{Type: "change", Checked: true}},
			{Label: "show active", Navigate: "/#/active"},
			{Label: "show all", Navigate: "/#/"},
			click("remove second", "remove-2"),
			click("clear done", "clear"),
		},
	}
}
