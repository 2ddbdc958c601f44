package app

import (
	"context"

	"github.com/vango-dev/vela/pkg/surface"
)

// Runner is an Instance with its message type erased, for hosts that run
// apps without knowing their messages.
type Runner interface {
	Run(ctx context.Context) error
	Drain(ctx context.Context) error
	Do(fn func()) error
	Stop()
	Done() <-chan struct{}
	Err() error
	Root() surface.NodeID
}

var _ Runner = (*Instance[int])(nil)

// Factory starts a fresh app instance on s under mount.
type Factory func(s surface.Surface, mount surface.NodeID, opts ...Option) (Runner, error)

// NewFactory returns a Factory that starts a new App from newApp every time.
func NewFactory[Msg any](newApp func() App[Msg]) Factory {
	return func(s surface.Surface, mount surface.NodeID, opts ...Option) (Runner, error) {
		inst, err := Start(newApp(), s, mount, opts...)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
}
