// Package render turns vdom.Node trees into HTML.
//
// The renderer walks the tree depth-first, threading a vdom.Scope down
// through it. Scope nodes (created with vdom.Provide) fork the active
// scope for their subtree and emit no markup. Component nodes render
// against the scope active at their position, so a component can read
// any value provided by an ancestor.
//
// Text content is HTML-escaped, Raw nodes are emitted verbatim, and
// attributes are written in sorted key order so output is deterministic.
package render
