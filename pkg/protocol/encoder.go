package protocol

import (
	"encoding/binary"
	"maps"
	"slices"

	"github.com/vango-dev/vela/pkg/surface"
)

// MaxVarintLen is the widest a uint64 varint gets.
const MaxVarintLen = binary.MaxVarintLen64

// Encoder builds a frame payload. Op and event fields each have a write
// method so the payload layout is spelled out once, here and in Decoder.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with room for a typical op batch.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the encoder, keeping its buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the payload so far. It aliases the encoder's buffer until
// the next Reset or write.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the payload size so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteOpCode writes the one-byte op code that starts every op.
func (e *Encoder) WriteOpCode(c surface.OpCode) {
	e.buf = append(e.buf, byte(c))
}

// WriteNode writes a node id. NoNode encodes as zero.
func (e *Encoder) WriteNode(id surface.NodeID) {
	e.WriteUvarint(uint64(id))
}

// WriteIndex writes a child index ZigZag-encoded, so -1 (append) is one byte.
func (e *Encoder) WriteIndex(i int) {
	e.buf = binary.AppendVarint(e.buf, int64(i))
}

// WriteUvarint writes a sequence number or count.
func (e *Encoder) WriteUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

// WriteString writes a varint length followed by the bytes of s.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteFlag writes b as 0x00 or 0x01.
func (e *Encoder) WriteFlag(b bool) {
	if b {
		e.buf = append(e.buf, 0x01)
	} else {
		e.buf = append(e.buf, 0x00)
	}
}

// WriteStringMap writes a count and then the pairs of m in key order, so
// equal maps always encode to equal bytes.
func (e *Encoder) WriteStringMap(m map[string]string) {
	e.WriteUvarint(uint64(len(m)))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		e.WriteString(k)
		e.WriteString(m[k])
	}
}
