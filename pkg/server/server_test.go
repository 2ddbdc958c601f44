package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/protocol"
	"github.com/vango-dev/vela/pkg/router"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
)

type tally struct{ n int }

func (c *tally) Update(_ *app.Mailbox[int], delta int) { c.n += delta }

func (c *tally) Render() *vdom.VNode[int] {
	var h html.H[int]
	return h.Div(html.Class("tally"),
		h.Span(h.Textf("%d", c.n)),
		h.Button(html.Data("action", "inc"), html.OnClick(1), "+"),
	)
}

// blob renders a text node too large for one frame once clicked.
type blob struct{ big bool }

func (b *blob) Update(_ *app.Mailbox[bool], big bool) { b.big = big }

func (b *blob) Render() *vdom.VNode[bool] {
	var h html.H[bool]
	text := "0"
	if b.big {
		text = strings.Repeat("x", 70000)
	}
	return h.Div(
		h.Span(h.Text(text)),
		h.Button(html.Data("action", "inc"), html.OnClick(true), "grow"),
	)
}

// where shows the hash route it is told about.
type where struct{ route string }

func (w *where) Init(mb *app.Mailbox[string]) {
	router.Subscribe(mb, router.Hash, func(u router.URL) string { return u.Segment(0) })
}

func (w *where) Update(_ *app.Mailbox[string], route string) { w.route = route }

func (w *where) Render() *vdom.VNode[string] {
	var h html.H[string]
	return h.P("at:" + w.route)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s := New(nil, opts...)
	s.Mount("tally", "Counts clicks", app.NewFactory(func() app.App[int] { return &tally{} }))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	for _, want := range []string{
		`<div class="tally"><span>0</span><button data-action="inc">+</button></div>`,
		`src="/_vela/client.js"`,
		`data-socket="/ws?app=tally"`,
		"<title>Vela · tally</title>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q:\n%s", want, body)
		}
	}
}

func TestPageUnknownApp(t *testing.T) {
	_, ts := newTestServer(t)
	if status, _ := get(t, ts.URL+"/?app=nope"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestClientScript(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/_vela/client.js")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("Content-Type = %q, want text/javascript", ct)
	}
}

func TestAppsList(t *testing.T) {
	s, ts := newTestServer(t)
	s.Mount("other", "Another app", app.NewFactory(func() app.App[int] { return &tally{} }))

	status, body := get(t, ts.URL+"/api/apps")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var apps []AppInfo
	if err := json.Unmarshal([]byte(body), &apps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(apps) != 2 || apps[0].Name != "other" || apps[1].Name != "tally" {
		t.Errorf("apps = %+v, want other then tally", apps)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, ts := newTestServer(t, WithMetrics(reg, "vela"))
	get(t, ts.URL+"/")

	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	for _, want := range []string{
		"vela_sessions_total",
		`vela_http_requests_total{method="GET",route="/",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s:\n%s", want, body)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	_, ts := newTestServer(t)
	if status, _ := get(t, ts.URL+"/metrics"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

// dial opens a socket to app and returns it with the decoded snapshot ops.
func dial(t *testing.T, ts *httptest.Server, app string) (*websocket.Conn, []surface.Op) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?app=" + app
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	f := readFrame(t, conn)
	if f.Type != protocol.FrameOps {
		t.Fatalf("first frame = %s, want ops", f.Type)
	}
	if !f.Flags.Has(protocol.FlagSnapshot) || !f.Flags.Has(protocol.FlagFinal) {
		t.Errorf("snapshot flags = %#x, want snapshot|final", f.Flags)
	}
	batch, err := protocol.DecodeOps(f.Payload)
	if err != nil {
		t.Fatalf("DecodeOps() error: %v", err)
	}
	return conn, batch.Ops
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error: %v", err)
	}
	return f
}

func click(t *testing.T, conn *websocket.Conn, seq uint64, node surface.NodeID) {
	t.Helper()
	fire(t, conn, seq, node, surface.Event{Type: "click"})
}

func fire(t *testing.T, conn *websocket.Conn, seq uint64, node surface.NodeID, ev surface.Event) {
	t.Helper()
	payload := protocol.EncodeEvent(&protocol.EventFrame{Seq: seq, Node: node, Event: ev})
	data, err := protocol.NewFrame(protocol.FrameEvent, payload).Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("WriteMessage() error: %v", err)
	}
}

// button returns the node carrying data-action=inc and the count text node.
func button(t *testing.T, ops []surface.Op) (btn, text surface.NodeID) {
	t.Helper()
	for _, op := range ops {
		switch {
		case op.Code == surface.OpSetAttr && op.Name == "data-action" && op.Value == "inc":
			btn = op.Node
		case op.Code == surface.OpCreateText && op.Value == "0":
			text = op.Node
		}
	}
	if btn == surface.NoNode || text == surface.NoNode {
		t.Fatalf("snapshot lacks button or count text: %+v", ops)
	}
	return btn, text
}

func expectText(t *testing.T, conn *websocket.Conn, node surface.NodeID, want string) {
	t.Helper()
	f := readFrame(t, conn)
	if f.Type != protocol.FrameOps {
		t.Fatalf("frame = %s, want ops", f.Type)
	}
	batch, err := protocol.DecodeOps(f.Payload)
	if err != nil {
		t.Fatalf("DecodeOps() error: %v", err)
	}
	for _, op := range batch.Ops {
		if op.Code == surface.OpSetText && op.Node == node {
			if op.Value != want {
				t.Errorf("SetText = %q, want %q", op.Value, want)
			}
			return
		}
	}
	t.Errorf("ops %+v lack SetText on %d", batch.Ops, node)
}

func TestSocketSnapshot(t *testing.T) {
	_, ts := newTestServer(t)
	_, ops := dial(t, ts, "tally")

	if len(ops) == 0 {
		t.Fatal("snapshot is empty")
	}
	last := ops[len(ops)-1]
	if last.Code != surface.OpInsert {
		t.Errorf("last snapshot op = %v, want insert into the mount", last.Code)
	}
	var listens int
	for _, op := range ops {
		if op.Code == surface.OpListen {
			listens++
		}
	}
	if listens != 1 {
		t.Errorf("listen ops = %d, want 1", listens)
	}
}

func TestSocketEventRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	conn, ops := dial(t, ts, "tally")
	btn, text := button(t, ops)

	click(t, conn, 1, btn)
	expectText(t, conn, text, "1")
	click(t, conn, 2, btn)
	expectText(t, conn, text, "2")
}

func TestSocketBadFrame(t *testing.T) {
	_, ts := newTestServer(t)
	conn, ops := dial(t, ts, "tally")
	btn, text := button(t, ops)

	truncated, _ := protocol.NewFrame(protocol.FrameEvent, []byte{0x01}).Encode()
	if err := conn.WriteMessage(websocket.BinaryMessage, truncated); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame = %s, want error", f.Type)
	}
	ef, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("DecodeError() error: %v", err)
	}
	if ef.Code != "E140" {
		t.Errorf("error code = %s, want E140", ef.Code)
	}

	// The session survives a bad frame.
	click(t, conn, 1, btn)
	expectText(t, conn, text, "1")
}

func TestSocketUnexpectedFrameType(t *testing.T) {
	_, ts := newTestServer(t)
	conn, _ := dial(t, ts, "tally")

	ops, _ := protocol.NewFrame(protocol.FrameOps, protocol.EncodeOps(&protocol.OpsBatch{})).Encode()
	if err := conn.WriteMessage(websocket.BinaryMessage, ops); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	ef, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("DecodeError() error: %v", err)
	}
	if ef.Code != "E141" {
		t.Errorf("error code = %s, want E141", ef.Code)
	}
}

func TestSocketNavigate(t *testing.T) {
	s, ts := newTestServer(t)
	s.Mount("where", "Follows the hash route", app.NewFactory(func() app.App[string] { return &where{} }))
	conn, ops := dial(t, ts, "where")

	var root, text surface.NodeID
	for _, op := range ops {
		switch {
		case op.Code == surface.OpListen && op.Name == router.EventNavigate:
			root = op.Node
		case op.Code == surface.OpCreateText && op.Value == "at:":
			text = op.Node
		}
	}
	if root == surface.NoNode || text == surface.NoNode {
		t.Fatalf("snapshot lacks navigate listener or text: %+v", ops)
	}

	fire(t, conn, 1, root, surface.Event{Type: router.EventNavigate, Value: "/?app=where#/settings"})
	expectText(t, conn, text, "at:settings")
}

func TestSocketOversizedOp(t *testing.T) {
	s, ts := newTestServer(t)
	s.Mount("blob", "Grows past one frame", app.NewFactory(func() app.App[bool] { return &blob{} }))
	conn, ops := dial(t, ts, "blob")
	btn, _ := button(t, ops)

	click(t, conn, 1, btn)
	f := readFrame(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame = %s, want error", f.Type)
	}
	ef, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("DecodeError() error: %v", err)
	}
	if ef.Code != "E142" {
		t.Errorf("error code = %s, want E142", ef.Code)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseInternalServerErr) {
		t.Errorf("ReadMessage() error = %v, want internal error close", err)
	}
}

func TestSocketUnknownApp(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?app=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() succeeded for unknown app")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %v, want 404", resp)
	}
}

func TestSocketMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, ts := newTestServer(t, WithMetrics(reg, "vela"))
	conn, ops := dial(t, ts, "tally")
	btn, text := button(t, ops)

	click(t, conn, 1, btn)
	expectText(t, conn, text, "1")

	if got := testutil.ToFloat64(s.metrics.sessionsTotal); got != 1 {
		t.Errorf("sessions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.framesReceived.WithLabelValues("event")); got != 1 {
		t.Errorf("frames_received_total{event} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.framesSent.WithLabelValues("ops")); got < 1 {
		t.Errorf("frames_sent_total{ops} = %v, want >= 1", got)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	s, ts := newTestServer(t)
	conn, _ := dial(t, ts, "tally")

	if n := s.SessionCount(); n != 1 {
		t.Fatalf("SessionCount() = %d, want 1", n)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("ReadMessage() error = %v, want normal closure", err)
	}
	if n := s.SessionCount(); n != 0 {
		t.Errorf("SessionCount() = %d, want 0", n)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := (&Config{ReadTimeout: 10 * time.Second, PingInterval: time.Minute}).withDefaults()
	if c.Address != ":3000" || c.SocketPath != "/ws" {
		t.Errorf("defaults = %+v", c)
	}
	if c.PingInterval >= c.ReadTimeout {
		t.Errorf("PingInterval = %v, want below ReadTimeout %v", c.PingInterval, c.ReadTimeout)
	}
}
