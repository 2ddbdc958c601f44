package html

import "github.com/vango-dev/vela/pkg/vdom"

// Document structure

func (h H[Msg]) Header(args ...any) *vdom.VNode[Msg]  { return h.El("header", args...) }
func (h H[Msg]) Footer(args ...any) *vdom.VNode[Msg]  { return h.El("footer", args...) }
func (h H[Msg]) Main(args ...any) *vdom.VNode[Msg]    { return h.El("main", args...) }
func (h H[Msg]) Nav(args ...any) *vdom.VNode[Msg]     { return h.El("nav", args...) }
func (h H[Msg]) Section(args ...any) *vdom.VNode[Msg] { return h.El("section", args...) }
func (h H[Msg]) Article(args ...any) *vdom.VNode[Msg] { return h.El("article", args...) }
func (h H[Msg]) Aside(args ...any) *vdom.VNode[Msg]   { return h.El("aside", args...) }
func (h H[Msg]) H1(args ...any) *vdom.VNode[Msg]      { return h.El("h1", args...) }
func (h H[Msg]) H2(args ...any) *vdom.VNode[Msg]      { return h.El("h2", args...) }
func (h H[Msg]) H3(args ...any) *vdom.VNode[Msg]      { return h.El("h3", args...) }
func (h H[Msg]) H4(args ...any) *vdom.VNode[Msg]      { return h.El("h4", args...) }
func (h H[Msg]) H5(args ...any) *vdom.VNode[Msg]      { return h.El("h5", args...) }
func (h H[Msg]) H6(args ...any) *vdom.VNode[Msg]      { return h.El("h6", args...) }

// Content

func (h H[Msg]) Div(args ...any) *vdom.VNode[Msg]        { return h.El("div", args...) }
func (h H[Msg]) P(args ...any) *vdom.VNode[Msg]          { return h.El("p", args...) }
func (h H[Msg]) Span(args ...any) *vdom.VNode[Msg]       { return h.El("span", args...) }
func (h H[Msg]) Pre(args ...any) *vdom.VNode[Msg]        { return h.El("pre", args...) }
func (h H[Msg]) Blockquote(args ...any) *vdom.VNode[Msg] { return h.El("blockquote", args...) }
func (h H[Msg]) Ul(args ...any) *vdom.VNode[Msg]         { return h.El("ul", args...) }
func (h H[Msg]) Ol(args ...any) *vdom.VNode[Msg]         { return h.El("ol", args...) }
func (h H[Msg]) Li(args ...any) *vdom.VNode[Msg]         { return h.El("li", args...) }
func (h H[Msg]) Dl(args ...any) *vdom.VNode[Msg]         { return h.El("dl", args...) }
func (h H[Msg]) Dt(args ...any) *vdom.VNode[Msg]         { return h.El("dt", args...) }
func (h H[Msg]) Dd(args ...any) *vdom.VNode[Msg]         { return h.El("dd", args...) }
func (h H[Msg]) Hr(args ...any) *vdom.VNode[Msg]         { return h.El("hr", args...) }
func (h H[Msg]) Br(args ...any) *vdom.VNode[Msg]         { return h.El("br", args...) }
func (h H[Msg]) Figure(args ...any) *vdom.VNode[Msg]     { return h.El("figure", args...) }
func (h H[Msg]) Figcaption(args ...any) *vdom.VNode[Msg] { return h.El("figcaption", args...) }

// Inline

func (h H[Msg]) A(args ...any) *vdom.VNode[Msg]      { return h.El("a", args...) }
func (h H[Msg]) Strong(args ...any) *vdom.VNode[Msg] { return h.El("strong", args...) }
func (h H[Msg]) Em(args ...any) *vdom.VNode[Msg]     { return h.El("em", args...) }
func (h H[Msg]) B(args ...any) *vdom.VNode[Msg]      { return h.El("b", args...) }
func (h H[Msg]) I(args ...any) *vdom.VNode[Msg]      { return h.El("i", args...) }
func (h H[Msg]) Small(args ...any) *vdom.VNode[Msg]  { return h.El("small", args...) }
func (h H[Msg]) Mark(args ...any) *vdom.VNode[Msg]   { return h.El("mark", args...) }
func (h H[Msg]) Code(args ...any) *vdom.VNode[Msg]   { return h.El("code", args...) }
func (h H[Msg]) Kbd(args ...any) *vdom.VNode[Msg]    { return h.El("kbd", args...) }
func (h H[Msg]) Time(args ...any) *vdom.VNode[Msg]   { return h.El("time", args...) }
func (h H[Msg]) Label(args ...any) *vdom.VNode[Msg]  { return h.El("label", args...) }
func (h H[Msg]) Img(args ...any) *vdom.VNode[Msg]    { return h.El("img", args...) }

// Forms

func (h H[Msg]) Form(args ...any) *vdom.VNode[Msg]     { return h.El("form", args...) }
func (h H[Msg]) Input(args ...any) *vdom.VNode[Msg]    { return h.El("input", args...) }
func (h H[Msg]) Textarea(args ...any) *vdom.VNode[Msg] { return h.El("textarea", args...) }
func (h H[Msg]) Button(args ...any) *vdom.VNode[Msg]   { return h.El("button", args...) }
func (h H[Msg]) Select(args ...any) *vdom.VNode[Msg]   { return h.El("select", args...) }
func (h H[Msg]) Option(args ...any) *vdom.VNode[Msg]   { return h.El("option", args...) }
func (h H[Msg]) Fieldset(args ...any) *vdom.VNode[Msg] { return h.El("fieldset", args...) }
func (h H[Msg]) Legend(args ...any) *vdom.VNode[Msg]   { return h.El("legend", args...) }
func (h H[Msg]) Progress(args ...any) *vdom.VNode[Msg] { return h.El("progress", args...) }

// Tables

func (h H[Msg]) Table(args ...any) *vdom.VNode[Msg]   { return h.El("table", args...) }
func (h H[Msg]) Thead(args ...any) *vdom.VNode[Msg]   { return h.El("thead", args...) }
func (h H[Msg]) Tbody(args ...any) *vdom.VNode[Msg]   { return h.El("tbody", args...) }
func (h H[Msg]) Tfoot(args ...any) *vdom.VNode[Msg]   { return h.El("tfoot", args...) }
func (h H[Msg]) Tr(args ...any) *vdom.VNode[Msg]      { return h.El("tr", args...) }
func (h H[Msg]) Th(args ...any) *vdom.VNode[Msg]      { return h.El("th", args...) }
func (h H[Msg]) Td(args ...any) *vdom.VNode[Msg]      { return h.El("td", args...) }
func (h H[Msg]) Caption(args ...any) *vdom.VNode[Msg] { return h.El("caption", args...) }

// Interactive

func (h H[Msg]) Details(args ...any) *vdom.VNode[Msg] { return h.El("details", args...) }
func (h H[Msg]) Summary(args ...any) *vdom.VNode[Msg] { return h.El("summary", args...) }
func (h H[Msg]) Dialog(args ...any) *vdom.VNode[Msg]  { return h.El("dialog", args...) }

// SVG

func (s S[Msg]) Svg(args ...any) *vdom.VNode[Msg]      { return s.El("svg", args...) }
func (s S[Msg]) G(args ...any) *vdom.VNode[Msg]        { return s.El("g", args...) }
func (s S[Msg]) Circle(args ...any) *vdom.VNode[Msg]   { return s.El("circle", args...) }
func (s S[Msg]) Ellipse(args ...any) *vdom.VNode[Msg]  { return s.El("ellipse", args...) }
func (s S[Msg]) Line(args ...any) *vdom.VNode[Msg]     { return s.El("line", args...) }
func (s S[Msg]) Rect(args ...any) *vdom.VNode[Msg]     { return s.El("rect", args...) }
func (s S[Msg]) Path(args ...any) *vdom.VNode[Msg]     { return s.El("path", args...) }
func (s S[Msg]) Polyline(args ...any) *vdom.VNode[Msg] { return s.El("polyline", args...) }
func (s S[Msg]) Polygon(args ...any) *vdom.VNode[Msg]  { return s.El("polygon", args...) }
func (s S[Msg]) Text(args ...any) *vdom.VNode[Msg]     { return s.El("text", args...) }
