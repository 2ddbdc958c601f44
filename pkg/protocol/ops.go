package protocol

import (
	"errors"
	"io"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/surface"
)

// OpsBatch is the payload of a FrameOps frame.
type OpsBatch struct {
	Seq uint64
	Ops []surface.Op
}

// EncodeOps encodes an op batch to bytes.
func EncodeOps(b *OpsBatch) []byte {
	e := NewEncoder()
	EncodeOpsTo(e, b)
	return e.Bytes()
}

// EncodeOpsTo encodes an op batch using the provided encoder.
func EncodeOpsTo(e *Encoder, b *OpsBatch) {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Ops)))
	for i := range b.Ops {
		encodeOp(e, &b.Ops[i])
	}
}

// encodeOp writes the op code, the target node and the fields the op uses.
func encodeOp(e *Encoder, op *surface.Op) {
	e.WriteOpCode(op.Code)
	e.WriteNode(op.Node)

	switch op.Code {
	case surface.OpCreateElement:
		e.WriteString(op.Namespace)
		e.WriteString(op.Name)

	case surface.OpCreateText, surface.OpSetText:
		e.WriteString(op.Value)

	case surface.OpSetAttr, surface.OpSetProp:
		e.WriteString(op.Name)
		e.WriteString(op.Value)

	case surface.OpRemoveAttr, surface.OpListen, surface.OpUnlisten:
		e.WriteString(op.Name)

	case surface.OpInsert, surface.OpMove:
		e.WriteNode(op.Parent)
		e.WriteIndex(op.Index)

	case surface.OpRemove:
		e.WriteNode(op.Parent)

	case surface.OpCreateFragment, surface.OpRelease:
		// Node is sufficient
	}
}

// DecodeOps decodes an op batch from bytes.
func DecodeOps(data []byte) (*OpsBatch, error) {
	d := NewDecoder(data)
	b, err := DecodeOpsFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, velaerrors.New("E140").WithDetailf("%d trailing bytes after op batch", d.Remaining())
	}
	return b, nil
}

// DecodeOpsFrom decodes an op batch from a decoder.
func DecodeOpsFrom(d *Decoder) (*OpsBatch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, malformed(err)
	}
	count, err := d.ReadCount(MaxCollectionCount)
	if err != nil {
		return nil, malformed(err)
	}

	ops := make([]surface.Op, count)
	for i := range ops {
		if err := decodeOp(d, &ops[i]); err != nil {
			return nil, err
		}
	}
	return &OpsBatch{Seq: seq, Ops: ops}, nil
}

func decodeOp(d *Decoder, op *surface.Op) error {
	var err error
	op.Code, err = d.ReadOpCode()
	if errors.Is(err, ErrUnknownOp) {
		return velaerrors.New("E141").WithDetailf("op code 0x%02x", byte(op.Code))
	}
	if err != nil {
		return malformed(err)
	}
	if op.Node, err = d.ReadNode(); err != nil {
		return malformed(err)
	}

	switch op.Code {
	case surface.OpCreateElement:
		if op.Namespace, err = d.ReadString(); err == nil {
			op.Name, err = d.ReadString()
		}

	case surface.OpCreateText, surface.OpSetText:
		op.Value, err = d.ReadString()

	case surface.OpSetAttr, surface.OpSetProp:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}

	case surface.OpRemoveAttr, surface.OpListen, surface.OpUnlisten:
		op.Name, err = d.ReadString()

	case surface.OpInsert, surface.OpMove:
		if op.Parent, err = d.ReadNode(); err == nil {
			op.Index, err = d.ReadIndex()
		}

	case surface.OpRemove:
		op.Parent, err = d.ReadNode()
	}
	if err != nil {
		return malformed(err)
	}
	return nil
}

// EncodeOpsFrames encodes ops as one or more FrameOps frames, none with a
// payload above MaxPayloadSize. All frames share seq; the last carries
// FlagFinal. Extra flags (e.g. FlagSnapshot) go on the first frame only.
// An op that cannot fit a frame on its own fails the whole batch with E142.
func EncodeOpsFrames(seq uint64, ops []surface.Op, flags FrameFlags) ([]*Frame, error) {
	var frames []*Frame
	start := 0
	e := NewEncoder()
	scratch := NewEncoder()
	for {
		e.Reset()
		n := 0
		size := batchHeaderSize
		for start+n < len(ops) {
			scratch.Reset()
			encodeOp(scratch, &ops[start+n])
			if size+scratch.Len() > MaxPayloadSize {
				if n == 0 {
					return nil, oversized(&ops[start], scratch.Len())
				}
				break
			}
			size += scratch.Len()
			n++
		}
		EncodeOpsTo(e, &OpsBatch{Seq: seq, Ops: ops[start : start+n]})
		payload := make([]byte, e.Len())
		copy(payload, e.Bytes())

		f := NewFrameWithFlags(FrameOps, flags, payload)
		flags = 0
		frames = append(frames, f)

		start += n
		if start >= len(ops) {
			f.Flags |= FlagFinal
			return frames, nil
		}
	}
}

// batchHeaderSize bounds the seq and count varints in front of the ops.
const batchHeaderSize = 2 * MaxVarintLen

func oversized(op *surface.Op, size int) error {
	return velaerrors.New("E142").
		WithDetailf("%s on node %d encodes to %d bytes, frame limit is %d", op.Code, op.Node, size, MaxPayloadSize-batchHeaderSize)
}

// malformed wraps a low-level decoding error as E140.
func malformed(err error) error {
	if err == io.ErrUnexpectedEOF {
		return velaerrors.New("E140").WithDetail("payload ends mid-value").Wrap(err)
	}
	return velaerrors.New("E140").Wrap(err)
}
