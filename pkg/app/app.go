package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/surface"
	"github.com/vango-dev/vela/pkg/vdom"
)

const tracerName = "vela"

// App is an application: a model that changes in response to messages and
// a pure view of that model.
type App[Msg any] interface {
	// Update applies msg to the model. Blocking work must be handed to mb.
	Update(mb *Mailbox[Msg], msg Msg)

	// Render returns the view of the current model.
	Render() *vdom.VNode[Msg]
}

// Initializer is implemented by apps that start work before the first
// message, such as subscriptions or an initial fetch.
type Initializer[Msg any] interface {
	Init(mb *Mailbox[Msg])
}

// Pass describes one completed reconciliation pass.
type Pass struct {
	Seq      uint64
	Duration time.Duration
	Stats    vdom.Stats
	Root     surface.NodeID
}

// Option configures an Instance.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	onPass   func(Pass)
	maxQueue int
}

// WithLogger sets the logger for the instance and its reconciler.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records passes in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for pass spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// OnPass registers fn to run on the loop goroutine after every successful pass.
func OnPass(fn func(Pass)) Option {
	return func(o *options) {
		o.onPass = fn
	}
}

// WithMaxQueue bounds the number of pending messages. Send fails with E122
// once n are queued. Zero means unbounded.
func WithMaxQueue(n int) Option {
	return func(o *options) {
		o.maxQueue = n
	}
}

// item is a queued message or a task to run on the loop goroutine.
type item[Msg any] struct {
	msg Msg
	fn  func()
}

// Instance is a running App bound to a surface.
type Instance[Msg any] struct {
	app     App[Msg]
	surface surface.Surface
	rec     *vdom.Reconciler[Msg]
	mount   surface.NodeID
	opts    options
	logger  *slog.Logger
	mailbox *Mailbox[Msg]

	// Owned by the loop goroutine.
	current *vdom.VNode[Msg]
	root    surface.NodeID
	seq     uint64

	mu      sync.Mutex
	queue   []item[Msg]
	stopped bool
	err     error
	notify  chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	tasks    *pool.ContextPool
	done     chan struct{}
	stopOnce sync.Once
}

// Start renders a and materializes the first tree as the last child of mount.
// The instance processes no messages until Run is called.
func Start[Msg any](a App[Msg], s surface.Surface, mount surface.NodeID, opts ...Option) (*Instance[Msg], error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "app")
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	ctx, cancel := context.WithCancel(context.Background())
	inst := &Instance[Msg]{
		app:     a,
		surface: s,
		mount:   mount,
		opts:    o,
		logger:  o.logger,
		notify:  make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		tasks:   pool.New().WithContext(ctx),
		done:    make(chan struct{}),
	}
	inst.rec = vdom.NewReconciler[Msg](s, inst.dispatch, vdom.WithLogger(o.logger))
	inst.mailbox = &Mailbox[Msg]{rt: inst, send: inst.Send}

	if init, ok := a.(Initializer[Msg]); ok {
		if err := guard(func() { init.Init(inst.mailbox) }); err != nil {
			inst.abort()
			return nil, err
		}
	}

	tree, err := inst.render()
	if err != nil {
		inst.abort()
		return nil, err
	}
	root, err := inst.rec.Create(tree)
	if err != nil {
		inst.abort()
		return nil, err
	}
	if err := s.InsertChild(mount, root, -1); err != nil {
		inst.abort()
		return nil, velaerrors.New("E100").WithOp("mount").Wrap(err)
	}
	inst.current = tree
	inst.root = root
	o.metrics.instanceStarted()
	return inst, nil
}

// abort releases background work of an instance that failed to start.
func (i *Instance[Msg]) abort() {
	i.mu.Lock()
	i.stopped = true
	i.mu.Unlock()
	i.cancel()
	_ = i.tasks.Wait()
	close(i.done)
}

// Root returns the handle of the materialized root.
func (i *Instance[Msg]) Root() surface.NodeID {
	return i.root
}

// Mailbox returns the mailbox handed to Update.
func (i *Instance[Msg]) Mailbox() *Mailbox[Msg] {
	return i.mailbox
}

// Send queues msg for processing. It fails with E120 after the instance
// stopped and with E122 when the queue is full.
func (i *Instance[Msg]) Send(msg Msg) error {
	return i.enqueue(item[Msg]{msg: msg})
}

// Do queues fn to run on the loop goroutine, in order with messages. Use it
// to deliver surface events so listeners never race a pass.
func (i *Instance[Msg]) Do(fn func()) error {
	return i.enqueue(item[Msg]{fn: fn})
}

func (i *Instance[Msg]) enqueue(it item[Msg]) error {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return velaerrors.New("E120")
	}
	if i.opts.maxQueue > 0 && len(i.queue) >= i.opts.maxQueue {
		i.mu.Unlock()
		return velaerrors.New("E122").WithDetailf("%d messages pending", i.opts.maxQueue)
	}
	i.queue = append(i.queue, it)
	i.mu.Unlock()

	select {
	case i.notify <- struct{}{}:
	default:
	}
	return nil
}

// dispatch receives messages produced by listeners.
func (i *Instance[Msg]) dispatch(msg Msg) {
	if err := i.Send(msg); err != nil {
		i.logger.Warn("dropped listener message", "error", err)
	}
}

func (i *Instance[Msg]) pop() (item[Msg], bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.queue) == 0 {
		return item[Msg]{}, false
	}
	it := i.queue[0]
	i.queue[0] = item[Msg]{}
	i.queue = i.queue[1:]
	return it, true
}

// Run processes messages until ctx is cancelled, Stop is called, or a pass
// fails. It returns the error of the failed pass, or nil. The instance is
// stopped when Run returns.
func (i *Instance[Msg]) Run(ctx context.Context) error {
	defer i.Stop()
	for {
		if err := i.Drain(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-i.ctx.Done():
			return i.Err()
		case <-i.notify:
		}
	}
}

// Drain processes queued messages and tasks until the queue is empty.
// It is what Run does on every wakeup; call it directly only when nothing
// else is running the instance (tests, scripted demos).
func (i *Instance[Msg]) Drain(ctx context.Context) error {
	for {
		if ctx.Err() != nil || i.ctx.Err() != nil {
			return nil
		}
		it, ok := i.pop()
		if !ok {
			return nil
		}
		var err error
		if it.fn != nil {
			err = guard(it.fn)
		} else {
			err = i.process(ctx, it.msg)
		}
		if err != nil {
			i.mu.Lock()
			i.err = err
			i.mu.Unlock()
			i.Stop()
			return err
		}
	}
}

// process runs one update and reconciliation pass.
func (i *Instance[Msg]) process(ctx context.Context, msg Msg) error {
	start := time.Now()
	i.seq++
	_, span := i.opts.tracer.Start(ctx, "vela.pass",
		trace.WithAttributes(
			attribute.Int64("vela.seq", int64(i.seq)),
			attribute.String("vela.msg", fmt.Sprintf("%T", msg)),
		),
	)
	defer span.End()

	i.rec.ResetStats()
	err := guard(func() { i.app.Update(i.mailbox, msg) })

	var next *vdom.VNode[Msg]
	if err == nil {
		next, err = i.render()
	}
	var root surface.NodeID
	if err == nil {
		root, err = i.rec.Patch(next, i.current)
	}
	if err == nil {
		err = i.remount(root)
	}

	stats := i.rec.Stats()
	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("vela.created", stats.Created),
		attribute.Int("vela.destroyed", stats.Destroyed),
		attribute.Int("vela.moved", stats.Moved),
		attribute.Int("vela.lazy_hits", stats.LazyHits),
	)
	i.opts.metrics.observePass(elapsed, stats, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.logger.Error("pass failed", "seq", i.seq, "error", err)
		return err
	}

	i.current = next
	i.root = root
	if i.opts.onPass != nil {
		i.opts.onPass(Pass{Seq: i.seq, Duration: elapsed, Stats: stats, Root: root})
	}
	return nil
}

func (i *Instance[Msg]) listen(event string, fn func(surface.Event)) (Unsubscribe, error) {
	if err := i.surface.Listen(i.mount, event, fn); err != nil {
		return nil, velaerrors.New("E100").WithOp("listen").Wrap(err)
	}
	return func() {
		if err := i.surface.Unlisten(i.mount, event); err != nil {
			i.logger.Debug("unlisten failed", "event", event, "error", err)
		}
	}, nil
}

// remount attaches a new root to the mount if reconciliation left it detached.
func (i *Instance[Msg]) remount(root surface.NodeID) error {
	if root == i.root || i.surface.Parent(root) == i.mount {
		return nil
	}
	i.logger.Debug("remounting root", "old", i.root, "new", root)
	if err := i.surface.InsertChild(i.mount, root, -1); err != nil {
		return velaerrors.New("E100").WithOp("mount").Wrap(err)
	}
	return nil
}

func (i *Instance[Msg]) render() (*vdom.VNode[Msg], error) {
	var v *vdom.VNode[Msg]
	if err := guard(func() { v = i.app.Render() }); err != nil {
		return nil, err
	}
	return v, nil
}

// guard runs fn and converts a panic into an E121 error.
func guard(fn func()) error {
	if r := panics.Try(fn); r != nil {
		return velaerrors.New("E121").WithDetail(fmt.Sprint(r.Value)).Wrap(r.AsError())
	}
	return nil
}

// Stop stops the instance: pending messages are dropped, subscriptions and
// spawned tasks are cancelled and waited for. The surface is left as the
// last pass produced it. Stop is idempotent.
func (i *Instance[Msg]) Stop() {
	i.stopOnce.Do(func() {
		i.mu.Lock()
		i.stopped = true
		i.queue = nil
		i.mu.Unlock()

		i.cancel()
		if err := i.tasks.Wait(); err != nil {
			i.logger.Warn("background task failed", "error", err)
		}
		i.opts.metrics.instanceStopped()
		close(i.done)
	})
}

// Done is closed once the instance has stopped.
func (i *Instance[Msg]) Done() <-chan struct{} {
	return i.done
}

// Err returns the error that stopped the instance, if any.
func (i *Instance[Msg]) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}
