package demo

import (
	"math"
	"time"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/html"
	"github.com/vango-dev/vela/pkg/vdom"
)

// Face is the slow-moving part of the clock. It changes once a minute, so
// the dial is rebuilt once a minute however often the clock ticks.
type Face struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

const (
	faceSize   = 200.0
	faceCenter = faceSize / 2
)

// hand returns the end point of a hand at fraction f of a turn.
func hand(f, length float64) (x, y float64) {
	a := 2*math.Pi*f - math.Pi/2
	return faceCenter + length*math.Cos(a), faceCenter + length*math.Sin(a)
}

func faceView(f Face) *vdom.VNode[clockMsg] {
	s := html.H[clockMsg]{}.SVG()
	marks := make([]*vdom.VNode[clockMsg], 12)
	for i := range marks {
		x1, y1 := hand(float64(i)/12, 84)
		x2, y2 := hand(float64(i)/12, 92)
		marks[i] = s.Line(html.X1(x1), html.Y1(y1), html.X2(x2), html.Y2(y2), html.Stroke("#555"), html.StrokeWidth(2))
	}
	hx, hy := hand((float64(f.Hour%12)+float64(f.Minute)/60)/12, 50)
	mx, my := hand(float64(f.Minute)/60, 75)
	return s.G(html.Class("face"),
		s.Circle(html.Cx(faceCenter), html.Cy(faceCenter), html.R(96), html.Fill("#fafafa"), html.Stroke("#333"), html.StrokeWidth(3)),
		marks,
		s.Line(html.Class("hour"), html.X1(faceCenter), html.Y1(faceCenter), html.X2(hx), html.Y2(hy), html.Stroke("#333"), html.StrokeWidth(6)),
		s.Line(html.Class("minute"), html.X1(faceCenter), html.Y1(faceCenter), html.X2(mx), html.Y2(my), html.Stroke("#333"), html.StrokeWidth(4)),
	)
}

type clockMsg struct {
	tick   bool
	now    time.Time
	toggle bool
}

type clock struct {
	interval time.Duration
	now      time.Time
	unsub    app.Unsubscribe
}

func (c *clock) Init(mb *app.Mailbox[clockMsg]) {
	c.start(mb)
}

func (c *clock) start(mb *app.Mailbox[clockMsg]) {
	c.unsub = mb.Subscribe(app.Interval(c.interval, func(t time.Time) clockMsg {
		return clockMsg{tick: true, now: t}
	}))
}

func (c *clock) Update(mb *app.Mailbox[clockMsg], msg clockMsg) {
	switch {
	case msg.tick:
		c.now = msg.now
	case msg.toggle:
		if c.unsub != nil {
			c.unsub()
			c.unsub = nil
		} else {
			c.start(mb)
		}
	}
}

func (c *clock) Render() *vdom.VNode[clockMsg] {
	var h html.H[clockMsg]
	s := h.SVG()
	sx, sy := hand(float64(c.now.Second())/60, 85)
	label := "Pause"
	if c.unsub == nil {
		label = "Resume"
	}
	return h.Div(html.Class("clock"),
		h.H1("Clock"),
		s.Svg(html.ViewBox(0, 0, faceSize, faceSize), html.Width(faceSize), html.Height(faceSize),
			vdom.Lazy(Face{Hour: c.now.Hour(), Minute: c.now.Minute()}, faceView),
			s.Line(html.Class("second"), html.X1(faceCenter), html.Y1(faceCenter), html.X2(sx), html.Y2(sy), html.Stroke("#c00"), html.StrokeWidth(1)),
		),
		h.P(h.Time(c.now.Format("15:04:05"))),
		h.Button(html.Data("action", "toggle"), html.OnClick(clockMsg{toggle: true}), label),
	)
}

// Clock ticks on an interval subscription and draws an SVG face.
func Clock(env Env) Demo {
	interval := env.Tick
	return Demo{
		Name:        "clock",
		Description: "Interval subscription and a lazily rebuilt SVG face",
		Factory: app.NewFactory(func() app.App[clockMsg] {
			return &clock{interval: interval, now: time.Now()}
		}),
		Script: []Step{
			{Label: "tick", Wait: interval + interval/2},
			click("pause", "toggle"),
			{Label: "paused", Wait: interval},
			click("resume", "toggle"),
		},
	}
}
