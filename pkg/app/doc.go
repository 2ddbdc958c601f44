// Package app runs an Elm-style application against a rendering surface.
//
// An App owns its model. The runtime calls Update with one message at a
// time, renders a fresh virtual tree and reconciles it against the previous
// one, so the surface always reflects the model after the latest message.
//
//	inst, err := app.Start[Msg](&Counter{}, mem, mem.Root())
//	if err != nil {
//		return err
//	}
//	go inst.Run(ctx)
//	inst.Send(Increment)
//
// # Threading
//
// Update, Render and every reconciliation pass run on the goroutine that
// calls Run. Send is safe from any goroutine and never blocks: messages are
// queued FIFO and processed in order. Listeners fire on the loop goroutine
// when events are delivered through Do, so a listener can send without
// re-entering a pass.
//
// Work that blocks (network calls, timers) goes through the Mailbox handed
// to Update: Spawn runs a task on a background pool and feeds its result
// back as a message, and Subscribe runs a long-lived source until it is
// cancelled or the instance stops.
//
// # Observability
//
// Each pass is traced as a "vela.pass" span on the configured OpenTelemetry
// tracer (the global provider by default) and, when WithMetrics is given,
// recorded in Prometheus counters and a duration histogram.
package app
