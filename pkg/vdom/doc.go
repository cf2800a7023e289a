// Package vdom provides the virtual node model gateview components render
// into.
//
// Nodes form a tree of elements, text, fragments, nested components, and
// scope providers. Components receive an explicit *Scope during render; the
// renderer forks the scope whenever it descends through a Scope node, which
// is how values such as the ambient authentication state reach descendant
// components without parameter threading.
package vdom
