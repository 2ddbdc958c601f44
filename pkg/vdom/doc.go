// Package vdom provides the virtual DOM and the reconciler for Vela.
//
// A VNode tree is an immutable-until-patched description of the UI. It is
// materialized once with Reconciler.Create, which builds the live nodes on a
// surface.Surface and records the resulting handles on the tree. Every later
// render produces a fresh tree that Reconciler.Patch reconciles against the
// previous one: handles move from the old tree to the new tree, and only the
// differences are applied to the surface.
//
// # Node Kinds
//
//   - KindText: a text leaf
//   - KindElement: an element whose children are matched by position
//   - KindKeyed: an element whose children are matched by key
//   - KindList: a group of siblings without a wrapping element
//   - KindLazy: a memoized subtree, re-rendered only when its input hash changes
//
// # Messages
//
// VNode is parameterized by the application's message type. Listeners turn
// raw surface events into messages, which the reconciler forwards to the
// dispatch function it was built with. Map converts a tree of one message
// type into another so that a parent component can embed a child component:
//
//	child := counter.View()                     // *VNode[counter.Msg]
//	embedded := vdom.Map(child, WrapCounterMsg) // *VNode[app.Msg]
//
// # Lazy
//
// Lazy wraps an input value and a render function. The input and the
// function's identity are hashed; when the hash is unchanged between two
// passes the render function is not called and the previous subtree and its
// live node are reused as-is.
package vdom
