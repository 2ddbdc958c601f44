package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/render"
	"github.com/vango-dev/vela/pkg/router"
	"github.com/vango-dev/vela/pkg/surface"
)

// Play runs d headless on a memory surface, writing the HTML of the mount
// before the script and after every step.
func Play(ctx context.Context, d Demo, w io.Writer, r *render.Renderer, opts ...app.Option) error {
	mem := surface.NewMemory(surface.WithoutRecording())
	run, err := d.Factory(mem, mem.Root(), opts...)
	if err != nil {
		return err
	}
	defer run.Stop()

	if err := run.Drain(ctx); err != nil {
		return err
	}
	if err := snapshot(w, r, mem, "initial"); err != nil {
		return err
	}

	for i, step := range d.Script {
		if step.Wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step.Wait):
			}
		}
		switch {
		case step.Navigate != "":
			ev := surface.Event{Type: router.EventNavigate, Value: step.Navigate}
			if err := run.Do(func() { mem.Fire(mem.Root(), ev) }); err != nil {
				return err
			}
		case step.Action != "":
			id := mem.Find(mem.Root(), "data-action", step.Action)
			if id == surface.NoNode {
				return fmt.Errorf("step %d (%s): no element with data-action=%q", i+1, step.Label, step.Action)
			}
			ev := step.Event
			if err := run.Do(func() { mem.Fire(id, ev) }); err != nil {
				return err
			}
		}
		if err := run.Drain(ctx); err != nil {
			return err
		}
		if err := snapshot(w, r, mem, fmt.Sprintf("%d. %s", i+1, step.Label)); err != nil {
			return err
		}
	}
	return nil
}

func snapshot(w io.Writer, r *render.Renderer, mem *surface.Memory, label string) error {
	if _, err := fmt.Fprintf(w, "<!-- %s -->\n", label); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, mem, mem.Root()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
