package html

import "github.com/vango-dev/vela/pkg/vdom"

// If returns the node if condition is true, nil otherwise.
func If[Msg any](condition bool, node *vdom.VNode[Msg]) *vdom.VNode[Msg] {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse[Msg any](condition bool, ifTrue, ifFalse *vdom.VNode[Msg]) *vdom.VNode[Msg] {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When[Msg any](condition bool, fn func() *vdom.VNode[Msg]) *vdom.VNode[Msg] {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to nodes, dropping nil results.
func Range[T any, Msg any](items []T, fn func(item T, index int) *vdom.VNode[Msg]) []*vdom.VNode[Msg] {
	result := make([]*vdom.VNode[Msg], 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// RangeKeyed maps a slice to keyed children for H.Keyed.
func RangeKeyed[T any, Msg any](items []T, key func(T) string, fn func(item T, index int) *vdom.VNode[Msg]) []vdom.Child[Msg] {
	result := make([]vdom.Child[Msg], 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, vdom.Child[Msg]{Key: key(item), Node: node})
		}
	}
	return result
}
