package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <p>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindComponent             // Nested component
	KindRaw                   // Raw HTML (dangerous)
	KindScope                 // Scoped value provider (no markup)
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	case KindScope:
		return "Scope"
	default:
		return "Unknown"
	}
}

// Node is the virtual tree node produced by components and consumed by the
// renderer.
type Node struct {
	Kind     Kind
	Tag      string    // Element tag name (e.g., "div")
	Attrs    Attrs     // Element attributes
	Children []*Node   // Child nodes
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent

	// For KindScope: the value made visible to descendants.
	ScopeKey any
	ScopeVal any
}

// Attrs holds element attributes.
type Attrs map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a Node.
//
// The Scope argument is the explicit render context: values provided by
// ancestor Scope nodes are visible through it. Components must treat the
// scope as read-only; new values are introduced with Provide.
type Component interface {
	Render(sc *Scope) *Node
}

// ComponentFunc adapts a render function to Component.
type ComponentFunc func(sc *Scope) *Node

// Render implements Component.
func (f ComponentFunc) Render(sc *Scope) *Node { return f(sc) }

// Func creates a component from a render function.
func Func(render func(sc *Scope) *Node) Component {
	return ComponentFunc(render)
}
