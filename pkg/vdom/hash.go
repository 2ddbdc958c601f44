package vdom

import (
	"encoding/binary"
	"math"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Type tags written ahead of each value so that, for example, 1 and "1"
// never collide.
const (
	tagNil byte = iota
	tagHasher
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagSeq
	tagMap
	tagStruct
	tagPointer
	tagCycle
	tagUnhashable = 0xFF
)

// unhashable counts values that cannot be hashed by content (channels,
// functions, unsafe pointers); each one gets a distinct hash so the lazy
// cache always misses for it.
var unhashable atomic.Uint64

var hasherType = reflect.TypeFor[Hasher]()

// writeValue hashes v structurally. Every field of a struct is visited,
// exported or not, maps are hashed in an order independent of iteration and
// pointers are followed. Two inputs with the same hash are equal values.
func writeValue(h *xxhash.Digest, v any) {
	w := walker{h: h}
	w.value(reflect.ValueOf(v))
}

type walker struct {
	h    *xxhash.Digest
	seen []uintptr
}

func (w *walker) tag(t byte) {
	_, _ = w.h.Write([]byte{t})
}

func (w *walker) uint(t byte, v uint64) {
	var buf [9]byte
	buf[0] = t
	binary.LittleEndian.PutUint64(buf[1:], v)
	_, _ = w.h.Write(buf[:])
}

func (w *walker) value(rv reflect.Value) {
	if !rv.IsValid() {
		w.tag(tagNil)
		return
	}
	if rv.CanInterface() && rv.Type().Implements(hasherType) && !isNilRef(rv) {
		w.uint(tagHasher, rv.Interface().(Hasher).Hash64())
		return
	}

	switch rv.Kind() {
	case reflect.Bool:
		var b uint64
		if rv.Bool() {
			b = 1
		}
		w.uint(tagBool, b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.uint(tagInt, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.uint(tagUint, rv.Uint())
	case reflect.Float32, reflect.Float64:
		w.uint(tagFloat, math.Float64bits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		w.uint(tagComplex, math.Float64bits(real(c)))
		w.uint(tagComplex, math.Float64bits(imag(c)))
	case reflect.String:
		s := rv.String()
		w.uint(tagString, uint64(len(s)))
		_, _ = w.h.WriteString(s)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			w.tag(tagNil)
			return
		}
		w.uint(tagSeq, uint64(rv.Len()))
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			_, _ = w.h.Write(rv.Bytes())
			return
		}
		for i := 0; i < rv.Len(); i++ {
			w.value(rv.Index(i))
		}
	case reflect.Map:
		if rv.IsNil() {
			w.tag(tagNil)
			return
		}
		w.entries(rv)
	case reflect.Struct:
		t := rv.Type()
		w.uint(tagStruct, uint64(rv.NumField()))
		_, _ = w.h.WriteString(t.String())
		for i := 0; i < rv.NumField(); i++ {
			w.value(rv.Field(i))
		}
	case reflect.Pointer:
		if rv.IsNil() {
			w.tag(tagNil)
			return
		}
		p := rv.Pointer()
		if i := slices.Index(w.seen, p); i >= 0 {
			w.uint(tagCycle, uint64(i))
			return
		}
		w.seen = append(w.seen, p)
		w.tag(tagPointer)
		w.value(rv.Elem())
		w.seen = w.seen[:len(w.seen)-1]
	case reflect.Interface:
		if rv.IsNil() {
			w.tag(tagNil)
			return
		}
		_, _ = w.h.WriteString(rv.Elem().Type().String())
		w.value(rv.Elem())
	default:
		w.uint(tagUnhashable, unhashable.Add(1))
	}
}

// entries hashes a map as the sorted list of its (key hash, value hash)
// pairs.
func (w *walker) entries(rv reflect.Value) {
	type pair struct{ k, v uint64 }
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{k: w.sub(iter.Key()), v: w.sub(iter.Value())})
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		switch {
		case a.k < b.k:
			return -1
		case a.k > b.k:
			return 1
		}
		return 0
	})
	w.uint(tagMap, uint64(len(pairs)))
	for _, p := range pairs {
		w.uint(tagMap, p.k)
		w.uint(tagMap, p.v)
	}
}

// sub hashes rv on its own digest, sharing the cycle stack.
func (w *walker) sub(rv reflect.Value) uint64 {
	inner := walker{h: xxhash.New(), seen: w.seen}
	inner.value(rv)
	return inner.h.Sum64()
}

func isNilRef(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
