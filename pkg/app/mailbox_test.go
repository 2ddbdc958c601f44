package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-dev/vela/pkg/surface"
)

func TestSpawnSendsResult(t *testing.T) {
	passes := make(chan Pass, 10)
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "load" {
			mb.Spawn(func(ctx context.Context) (msg, error) {
				return "inc", nil
			})
		}
	}}
	inst, mem := start(t, a, OnPass(func(p Pass) { passes <- p }))
	stop := runInBackground(inst)

	_ = inst.Send("load")
	waitPass(t, passes)
	waitPass(t, passes)

	stop()
	if got := textOf(mem, inst.Root()); got != "1+-" {
		t.Errorf("text = %q, want %q", got, "1+-")
	}
}

func TestSpawnErrorSendsNothing(t *testing.T) {
	done := make(chan struct{})
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "load" {
			mb.Spawn(func(ctx context.Context) (msg, error) {
				defer close(done)
				return "inc", errors.New("unreachable")
			})
		}
	}}
	inst, _ := start(t, a)
	_ = inst.Send("load")
	if err := inst.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	<-done
	if err := inst.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if a.n != 0 {
		t.Errorf("n = %d, want 0", a.n)
	}
}

func TestStopCancelsTasks(t *testing.T) {
	var cancelled atomic.Bool
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "load" {
			mb.Spawn(func(ctx context.Context) (msg, error) {
				<-ctx.Done()
				cancelled.Store(true)
				return "", ctx.Err()
			})
		}
	}}
	inst, _ := start(t, a)
	_ = inst.Send("load")
	if err := inst.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	inst.Stop()
	if !cancelled.Load() {
		t.Error("task not cancelled by Stop")
	}
	if inst.Mailbox().Spawn(func(context.Context) (msg, error) { return "inc", nil }) {
		t.Error("Spawn() after stop = true, want false")
	}
}

func TestIntervalSubscription(t *testing.T) {
	passes := make(chan Pass, 100)
	var unsub Unsubscribe
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "watch" {
			unsub = mb.Subscribe(Interval(time.Millisecond, func(time.Time) msg { return "inc" }))
		}
	}}
	inst, _ := start(t, a, OnPass(func(p Pass) {
		select {
		case passes <- p:
		default:
		}
	}))
	stop := runInBackground(inst)

	_ = inst.Send("watch")
	for i := 0; i < 4; i++ {
		waitPass(t, passes)
	}
	// unsub is assigned by the first pass, which happened before its OnPass.
	unsub()
	stop()
	if a.n < 3 {
		t.Errorf("n = %d, want at least 3", a.n)
	}
}

func TestSubscriptionEndsOnStop(t *testing.T) {
	ended := make(chan struct{})
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "watch" {
			mb.Subscribe(func(ctx context.Context, send func(msg)) {
				<-ctx.Done()
				close(ended)
			})
		}
	}}
	inst, _ := start(t, a)
	_ = inst.Send("watch")
	if err := inst.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	inst.Stop()
	select {
	case <-ended:
	default:
		t.Error("subscription still running after Stop")
	}
}

func TestMailboxListen(t *testing.T) {
	var stop Unsubscribe
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		switch m {
		case "watch":
			stop = mb.Listen("ping", func(ev surface.Event) msg { return msg(ev.Value) })
		case "unwatch":
			stop()
		}
	}}
	inst, mem := start(t, a)
	drain := func() {
		t.Helper()
		if err := inst.Drain(context.Background()); err != nil {
			t.Fatalf("Drain() error = %v", err)
		}
	}

	_ = inst.Send("watch")
	drain()
	if !mem.Fire(mem.Root(), surface.Event{Type: "ping", Value: "inc"}) {
		t.Fatal("Fire(ping) = false, want mount listener")
	}
	drain()
	if a.n != 1 {
		t.Errorf("n = %d, want 1", a.n)
	}

	_ = inst.Send("unwatch")
	drain()
	if mem.Fire(mem.Root(), surface.Event{Type: "ping", Value: "inc"}) {
		t.Error("Fire(ping) after unsubscribe = true, want false")
	}
}

type childMsg int

func TestMapMailbox(t *testing.T) {
	var got []msg
	parent := &Mailbox[msg]{send: func(m msg) error {
		got = append(got, m)
		return nil
	}}
	child := MapMailbox(parent, func(c childMsg) msg {
		return msg("child:" + string(rune('0'+int(c))))
	})
	_ = child.Send(1)
	_ = child.Send(2)

	if len(got) != 2 || got[0] != "child:1" || got[1] != "child:2" {
		t.Errorf("parent received %v, want [child:1 child:2]", got)
	}
}

func TestMapMailboxSpawn(t *testing.T) {
	a := &counter{hook: func(mb *Mailbox[msg], m msg) {
		if m == "load" {
			child := MapMailbox(mb, func(c childMsg) msg {
				if c > 0 {
					return "inc"
				}
				return "dec"
			})
			child.Spawn(func(context.Context) (childMsg, error) { return 1, nil })
		}
	}}
	inst, _ := start(t, a)
	_ = inst.Send("load")
	if err := inst.Drain(context.Background()); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for a.n == 0 && time.Now().Before(deadline) {
		if err := inst.Drain(context.Background()); err != nil {
			t.Fatalf("Drain() error = %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if a.n != 1 {
		t.Errorf("n = %d, want 1", a.n)
	}
}

// runInBackground runs inst and returns a func that cancels the run and
// waits for it to return.
func runInBackground(inst *Instance[msg]) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = inst.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
