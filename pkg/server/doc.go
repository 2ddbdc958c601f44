// Package server serves apps to browsers over HTTP and WebSocket.
//
// GET / renders the requested app to HTML on a throwaway memory surface so
// the page has content before any script runs. The page loads the client,
// which opens a socket; each socket gets its own app instance on its own
// memory surface. The first frame on the socket is a snapshot that rebuilds
// the mount from scratch, and every pass after that sends the ops it
// recorded. Events travel the other way as event frames and are fired on
// the loop goroutine of the instance.
//
// Routes:
//
//	GET /                   page for ?app=<name> (or the default app)
//	GET /_vela/client.js    browser client
//	GET /ws?app=<name>      live session
//	GET /api/apps           mounted apps as JSON
//	GET /metrics            Prometheus metrics, when enabled
package server
