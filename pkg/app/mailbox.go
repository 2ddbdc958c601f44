package app

import (
	"context"
	"errors"
	"time"

	"github.com/vango-dev/vela/pkg/surface"
)

// runtime is the part of an Instance a Mailbox needs, independent of the
// message type.
type runtime interface {
	spawn(task func(ctx context.Context) error) bool
	subscribe(run func(ctx context.Context)) Unsubscribe
	listen(event string, fn func(surface.Event)) (Unsubscribe, error)
	warn(msg string, args ...any)
}

// Mailbox is handed to Update. It sends messages back into the loop and
// starts background work whose results arrive as messages.
type Mailbox[Msg any] struct {
	rt   runtime
	send func(Msg) error
}

// Send queues msg. See Instance.Send.
func (mb *Mailbox[Msg]) Send(msg Msg) error {
	return mb.send(msg)
}

// Spawn runs task in the background and sends its result. A task that fails
// sends nothing; the error is logged. Tasks are cancelled when the instance
// stops. Spawn reports false if the instance has already stopped.
func (mb *Mailbox[Msg]) Spawn(task func(ctx context.Context) (Msg, error)) bool {
	return mb.rt.spawn(func(ctx context.Context) error {
		msg, err := task(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				mb.rt.warn("task failed", "error", err)
			}
			return nil
		}
		if err := mb.send(msg); err != nil {
			mb.rt.warn("dropped task result", "error", err)
		}
		return nil
	})
}

// Unsubscribe cancels a subscription and waits for its source to return.
type Unsubscribe func()

// Subscription is a long-lived message source. It runs until ctx is done,
// calling send for every message it produces.
type Subscription[Msg any] func(ctx context.Context, send func(Msg))

// Subscribe starts s. The subscription ends when the returned func is called
// or the instance stops, whichever comes first.
func (mb *Mailbox[Msg]) Subscribe(s Subscription[Msg]) Unsubscribe {
	return mb.rt.subscribe(func(ctx context.Context) {
		s(ctx, func(msg Msg) {
			if ctx.Err() != nil {
				return
			}
			if err := mb.send(msg); err != nil {
				mb.rt.warn("dropped subscription message", "error", err)
			}
		})
	})
}

// Listen sends f(ev) for every surface event of the given type fired on the
// mount node, such as the navigate events the browser client reports. Call
// it from Init or Update and call the returned func from Update as well, so
// the surface is only touched on the loop.
func (mb *Mailbox[Msg]) Listen(event string, f func(surface.Event) Msg) Unsubscribe {
	stop, err := mb.rt.listen(event, func(ev surface.Event) {
		if err := mb.send(f(ev)); err != nil {
			mb.rt.warn("dropped surface event", "event", ev.Type, "error", err)
		}
	})
	if err != nil {
		mb.rt.warn("listen failed", "event", event, "error", err)
		return func() {}
	}
	return stop
}

// Interval returns a subscription that sends tick(t) every d.
func Interval[Msg any](d time.Duration, tick func(time.Time) Msg) Subscription[Msg] {
	return func(ctx context.Context, send func(Msg)) {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				send(tick(now))
			}
		}
	}
}

// MapMailbox adapts a parent mailbox for a child component whose messages
// are wrapped by f. It is the mailbox counterpart of vdom.Map.
func MapMailbox[A, B any](mb *Mailbox[B], f func(A) B) *Mailbox[A] {
	return &Mailbox[A]{
		rt: mb.rt,
		send: func(a A) error {
			return mb.send(f(a))
		},
	}
}

func (i *Instance[Msg]) spawn(task func(ctx context.Context) error) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.stopped {
		return false
	}
	i.tasks.Go(task)
	return true
}

func (i *Instance[Msg]) subscribe(run func(ctx context.Context)) Unsubscribe {
	ctx, cancel := context.WithCancel(i.ctx)
	done := make(chan struct{})
	started := i.spawn(func(context.Context) error {
		defer close(done)
		run(ctx)
		return nil
	})
	if !started {
		cancel()
		return func() {}
	}
	return func() {
		cancel()
		<-done
	}
}

func (i *Instance[Msg]) warn(msg string, args ...any) {
	i.logger.Warn(msg, args...)
}
