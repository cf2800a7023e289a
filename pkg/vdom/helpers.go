package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *Node {
	return &Node{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	node := &Node{
		Kind:     KindFragment,
		Children: make([]*Node, 0, len(children)),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, &Node{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}

	return node
}

// Comp wraps a component into a renderable node. The component renders
// when the tree does, against the scope active at this position.
func Comp(c Component) *Node {
	if c == nil {
		return nil
	}
	return &Node{
		Kind: KindComponent,
		Comp: c,
	}
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Node) *Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to Nodes.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	result := make([]*Node, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Nothing returns nil, useful for conditional rendering.
func Nothing() *Node {
	return nil
}

// Walk visits node and all its descendants in depth-first order. Component
// nodes are visited but not expanded (expansion happens during rendering).
// Returning false from visit stops the walk.
func Walk(node *Node, visit func(*Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range node.Children {
		Walk(child, visit)
	}
}
