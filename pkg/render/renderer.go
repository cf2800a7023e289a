package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/gateview-dev/gateview/pkg/vdom"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer handles server-side rendering of Node trees to HTML.
//
// The renderer threads a vdom.Scope down the tree: Scope nodes fork the
// active scope for their subtree, and component nodes render against the
// scope active at their position. A Renderer is stateless and safe for
// concurrent use.
type Renderer struct {
	config Config
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a Node tree to a complete HTML string.
// The tree is rendered against a fresh root scope.
func (r *Renderer) RenderToString(node *vdom.Node) (string, error) {
	return r.RenderToStringScoped(node, vdom.NewScope())
}

// RenderToStringScoped renders a Node tree against the given scope.
func (r *Renderer) RenderToStringScoped(node *vdom.Node, sc *vdom.Scope) (string, error) {
	var buf bytes.Buffer
	if err := r.renderNode(&buf, node, sc, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a Node tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.Node) error {
	return r.renderNode(w, node, vdom.NewScope(), 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.Node, sc *vdom.Scope, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, sc, depth)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderChildren(w, node, sc, depth)
	case vdom.KindComponent:
		return r.renderComponent(w, node, sc, depth)
	case vdom.KindRaw:
		return r.renderRaw(w, node)
	case vdom.KindScope:
		return r.renderScope(w, node, sc, depth)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.Node, sc *vdom.Scope, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		if err := r.writeIndent(w, depth); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	// Void elements self-close.
	if vdom.IsVoidElement(tag) {
		if _, err := w.Write([]byte{'>'}); err != nil {
			return err
		}
		return r.writeNewline(w)
	}

	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		if err := r.writeNewline(w); err != nil {
			return err
		}
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child, sc, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		if err := r.writeIndent(w, depth); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	return r.writeNewline(w)
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vdom.Node) error {
	_, err := w.Write([]byte(escapeHTML(node.Text)))
	return err
}

// renderChildren renders a node's children without emitting a wrapper.
func (r *Renderer) renderChildren(w io.Writer, node *vdom.Node, sc *vdom.Scope, depth int) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, sc, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderComponent renders a component against the scope active at its
// position in the tree.
func (r *Renderer) renderComponent(w io.Writer, node *vdom.Node, sc *vdom.Scope, depth int) error {
	if node.Comp == nil {
		return nil
	}
	return r.renderNode(w, node.Comp.Render(sc), sc, depth)
}

// renderRaw renders raw HTML without escaping.
func (r *Renderer) renderRaw(w io.Writer, node *vdom.Node) error {
	_, err := w.Write([]byte(node.Text))
	return err
}

// renderScope forks the active scope for the node's subtree. Scope nodes
// emit no markup of their own. A scope node with a nil key degrades to a
// plain fragment.
func (r *Renderer) renderScope(w io.Writer, node *vdom.Node, sc *vdom.Scope, depth int) error {
	child := sc
	if node.ScopeKey != nil {
		child = sc.With(node.ScopeKey, node.ScopeVal)
	}
	return r.renderChildren(w, node, child, depth)
}

// renderAttributes renders all attributes for an element in sorted key
// order for deterministic output.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.Node) error {
	if len(node.Attrs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Attrs))
	for key := range node.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Attrs[key]

		// Boolean attributes render as bare names.
		if isBooleanAttr(key) {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		strValue := attrToString(value)
		if strValue == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(strValue)); err != nil {
			return err
		}
	}

	return nil
}

// booleanAttrs are attributes rendered as bare names when true.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
	"open":     true,
	"defer":    true,
	"async":    true,
}

func isBooleanAttr(key string) bool {
	return booleanAttrs[key]
}

// inlineElements keep their children on one line in pretty mode.
var inlineElements = map[string]bool{
	"a": true, "span": true, "strong": true, "em": true, "b": true,
	"i": true, "code": true, "small": true, "sub": true, "sup": true,
	"label": true, "abbr": true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) error {
	for i := 0; i < depth; i++ {
		if _, err := io.WriteString(w, r.config.Indent); err != nil {
			return err
		}
	}
	return nil
}

// writeNewline writes a newline in pretty mode.
func (r *Renderer) writeNewline(w io.Writer) error {
	if !r.config.Pretty {
		return nil
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
