// Package errors provides coded, categorized errors for Vela.
//
// Every error raised by the runtime carries a short code (e.g. "E100") that
// maps to a registered template with a message, a longer explanation and a
// documentation link. Errors are built fluently and may wrap an underlying
// cause, so errors.Is and errors.As keep working across package boundaries.
//
// # Error Categories
//
//   - surface: the rendering surface refused a mutation
//   - runtime: app loop, mailbox and fetch failures
//   - protocol: malformed or oversized wire frames
//   - config: unreadable or invalid project configuration
//
// # Usage
//
//	err := errors.New("E100").
//	    WithDetail("insert child 12 into 3").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// ERROR E100: Surface operation failed
//	//
//	//   insert child 12 into 3
//	//
//	//   Learn more: https://vela.dev/docs/errors/E100
package errors
