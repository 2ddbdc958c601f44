package vdom

import (
	"encoding/binary"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hasher lets a Lazy input provide its own content hash instead of the
// default structural one.
type Hasher interface {
	Hash64() uint64
}

// lazyState is the memoization payload of a KindLazy node.
type lazyState[Msg any] struct {
	hash   uint64
	view   func() *VNode[Msg]
	cached *VNode[Msg]
}

// Lazy creates a memoized subtree. view(input) is called only when the hash
// of input and view differs from the previous pass. view must be a pure
// function of input.
func Lazy[T any, Msg any](input T, view func(T) *VNode[Msg]) *VNode[Msg] {
	h := newHash()
	writeValue(h, input)
	writeFunc(h, view)
	return &VNode[Msg]{
		Kind: KindLazy,
		lazy: &lazyState[Msg]{
			hash: h.Sum64(),
			view: func() *VNode[Msg] { return view(input) },
		},
	}
}

// LazyWith is like Lazy but passes an extra argument to view. The argument
// is not part of the hash, so it must not influence the rendered output in a
// way the input does not already capture (e.g. a shared formatter).
func LazyWith[T any, A any, Msg any](input T, arg A, view func(T, A) *VNode[Msg]) *VNode[Msg] {
	h := newHash()
	writeValue(h, input)
	writeFunc(h, view)
	return &VNode[Msg]{
		Kind: KindLazy,
		lazy: &lazyState[Msg]{
			hash: h.Sum64(),
			view: func() *VNode[Msg] { return view(input, arg) },
		},
	}
}

// Hash returns the content hash of a lazy node, or 0 for other kinds.
func (v *VNode[Msg]) Hash() uint64 {
	if v == nil || v.lazy == nil {
		return 0
	}
	return v.lazy.hash
}

// HashValue returns the content hash Lazy uses for an input value.
func HashValue(v any) uint64 {
	h := newHash()
	writeValue(h, v)
	return h.Sum64()
}

func newHash() *xxhash.Digest {
	return xxhash.New()
}

func writeUint(h *xxhash.Digest, tag byte, v uint64) {
	var buf [9]byte
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:], v)
	_, _ = h.Write(buf[:])
}

// writeFunc mixes a function's identity (its code pointer) into h.
func writeFunc(h *xxhash.Digest, fn any) {
	writeUint(h, 0xF0, uint64(funcID(fn)))
}

func funcID(fn any) uintptr {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return 0
	}
	return rv.Pointer()
}

// mix combines a lazy hash with another identity.
func mix(hash uint64, other uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], hash)
	binary.LittleEndian.PutUint64(buf[8:], other)
	return xxhash.Sum64(buf[:])
}
