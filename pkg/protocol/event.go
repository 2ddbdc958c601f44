package protocol

import (
	"errors"

	velaerrors "github.com/vango-dev/vela/internal/errors"
	"github.com/vango-dev/vela/pkg/surface"
)

// MaxEventData limits the number of data entries an event may carry.
const MaxEventData = 64

// EventFrame is the payload of a FrameEvent frame: an event fired on a node.
type EventFrame struct {
	Seq   uint64 // Client sequence number, echoed in logs
	Node  surface.NodeID
	Event surface.Event
}

// EncodeEvent encodes an event to bytes.
func EncodeEvent(ev *EventFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Seq)
	e.WriteNode(ev.Node)
	e.WriteString(ev.Event.Type)
	e.WriteString(ev.Event.Value)
	e.WriteFlag(ev.Event.Checked)
	e.WriteString(ev.Event.Key)
	e.WriteStringMap(ev.Event.Data)
	return e.Bytes()
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*EventFrame, error) {
	d := NewDecoder(data)
	ev := &EventFrame{}

	var err error
	if ev.Seq, err = d.ReadUvarint(); err != nil {
		return nil, malformed(err)
	}
	if ev.Node, err = d.ReadNode(); err != nil {
		return nil, malformed(err)
	}
	if ev.Node == surface.NoNode {
		return nil, velaerrors.New("E140").WithDetail("event targets no node")
	}

	if ev.Event.Type, err = d.ReadString(); err != nil {
		return nil, malformed(err)
	}
	if ev.Event.Type == "" {
		return nil, velaerrors.New("E140").WithDetail("event type is empty")
	}
	if ev.Event.Value, err = d.ReadString(); err != nil {
		return nil, malformed(err)
	}
	if ev.Event.Checked, err = d.ReadFlag(); err != nil {
		return nil, malformed(err)
	}
	if ev.Event.Key, err = d.ReadString(); err != nil {
		return nil, malformed(err)
	}

	ev.Event.Data, err = d.ReadStringMap(MaxEventData)
	switch {
	case errors.Is(err, ErrCollectionTooLarge):
		return nil, velaerrors.New("E142").WithDetailf("more than %d data entries", MaxEventData).Wrap(err)
	case err != nil:
		return nil, malformed(err)
	}

	if !d.EOF() {
		return nil, velaerrors.New("E140").WithDetailf("%d trailing bytes after event", d.Remaining())
	}
	return ev, nil
}

// ErrorFrame is the payload of a FrameError frame.
type ErrorFrame struct {
	Code    string
	Message string
}

// EncodeError encodes an error frame payload.
func EncodeError(ef *ErrorFrame) []byte {
	e := NewEncoder()
	e.WriteString(ef.Code)
	e.WriteString(ef.Message)
	return e.Bytes()
}

// DecodeError decodes an error frame payload.
func DecodeError(data []byte) (*ErrorFrame, error) {
	d := NewDecoder(data)
	code, err := d.ReadString()
	if err != nil {
		return nil, malformed(err)
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, malformed(err)
	}
	return &ErrorFrame{Code: code, Message: msg}, nil
}

// ErrorFrameFor converts err to an error frame. The code of a *VelaError in
// the chain is kept; other errors get fallback.
func ErrorFrameFor(err error, fallback string) *ErrorFrame {
	ve := velaerrors.FromError(err, fallback)
	return &ErrorFrame{Code: ve.Code, Message: ve.Error()}
}
