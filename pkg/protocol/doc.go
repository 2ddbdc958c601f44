// Package protocol implements the binary wire protocol between a live
// server session and the browser client.
//
// The server owns the retained tree and reconciles it against a memory
// surface; the ops that reconciliation records are shipped to the client,
// which replays them against the real DOM. The client in turn reports
// events on nodes that carry listeners.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameEvent (0x01): Client → Server events
//   - FrameOps (0x02): Server → Client op batches
//   - FrameError (0x05): Server → Client fatal error
//
// An op batch larger than one frame is split by EncodeOpsFrames; every
// frame but the last omits FlagFinal. Ops are applied in order as they
// arrive, so the client does not need to buffer a split batch. A single op
// that cannot fit a frame is rejected with E142; the session reports it and
// closes rather than let the client drift from the server tree.
//
// # Encoding
//
// Integers are varints, node indexes are ZigZag varints (negative means
// append) and strings are varint-length-prefixed UTF-8.
package protocol
