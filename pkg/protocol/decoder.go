package protocol

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/vango-dev/vela/pkg/surface"
)

// Decoding limits. A peer controls every length prefix it sends.
const (
	// MaxStringLen caps a single decoded string (4MB).
	MaxStringLen = 4 * 1024 * 1024

	// MaxCollectionCount caps the op count of a batch and the entry count
	// of a string map.
	MaxCollectionCount = 100_000
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidFlag        = errors.New("protocol: flag byte is neither 0 nor 1")
	ErrStringTooLarge     = errors.New("protocol: string length exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrNodeRange          = errors.New("protocol: node id out of range")
	ErrIndexRange         = errors.New("protocol: child index out of range")
	ErrUnknownOp          = errors.New("protocol: unknown op code")
)

// Decoder reads the fields Encoder writes, in the same order.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether every byte has been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadOpCode reads an op code. An unknown code is returned together with
// ErrUnknownOp so the caller can report it.
func (d *Decoder) ReadOpCode() (surface.OpCode, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	c := surface.OpCode(b)
	if !c.Valid() {
		return c, ErrUnknownOp
	}
	return c, nil
}

// ReadNode reads a node id. Zero (NoNode) is accepted; ids wider than
// 32 bits are not.
func (d *Decoder) ReadNode() (surface.NodeID, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return surface.NoNode, err
	}
	if v > math.MaxUint32 {
		return surface.NoNode, ErrNodeRange
	}
	return surface.NodeID(v), nil
}

// ReadIndex reads a ZigZag child index. Negative means append.
func (d *Decoder) ReadIndex() (int, error) {
	v, n := binary.Varint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, ErrIndexRange
	}
	return int(v), nil
}

// ReadUvarint reads a sequence number or count.
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return v, nil
}

// advance consumes n bytes as reported by the binary varint readers.
func (d *Decoder) advance(n int) error {
	switch {
	case n > 0:
		d.pos += n
		return nil
	case n == 0:
		return io.ErrUnexpectedEOF
	default:
		return ErrVarintOverflow
	}
}

// ReadString reads a length-prefixed string of at most MaxStringLen bytes.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	if length > MaxStringLen {
		return "", ErrStringTooLarge
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadFlag reads a 0x00 or 0x01 byte.
func (d *Decoder) ReadFlag() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidFlag
	}
}

// ReadCount reads a collection count no larger than limit. Every element
// takes at least one byte, so a count past the remaining input is
// truncation rather than a large collection.
func (d *Decoder) ReadCount(limit int) (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > uint64(limit) {
		return 0, ErrCollectionTooLarge
	}
	if count > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}

// ReadStringMap reads what WriteStringMap wrote. An empty map decodes as nil.
func (d *Decoder) ReadStringMap(limit int) (map[string]string, error) {
	n, err := d.ReadCount(limit)
	if err != nil || n == 0 {
		return nil, err
	}
	m := make(map[string]string, n)
	for range n {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}
