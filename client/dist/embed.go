package clientdist

import _ "embed"

// VelaJS is the browser client. It applies op frames to the DOM and sends
// event frames back over the socket.
//
// It is served by the server at "/_vela/client.js".
//
//go:embed vela.js
var VelaJS []byte
