package vdom

import "fmt"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new Node with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, Component, string.
func createElement(tag string, args []any) *Node {
	node := &Node{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    make(Attrs),
		Children: make([]*Node, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if v.Key != "" {
				node.Attrs[v.Key] = v.Value
			}

		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.Attrs[a.Key] = a.Value
				}
			}

		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case Component:
			node.Children = append(node.Children, &Node{
				Kind: KindComponent,
				Comp: v,
			})

		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// Document structure elements

func Html(args ...any) *Node   { return createElement("html", args) }
func Head(args ...any) *Node   { return createElement("head", args) }
func Body(args ...any) *Node   { return createElement("body", args) }
func Title(args ...any) *Node  { return createElement("title", args) }
func Script(args ...any) *Node { return createElement("script", args) }

// Content sectioning elements

func Header(args ...any) *Node  { return createElement("header", args) }
func Footer(args ...any) *Node  { return createElement("footer", args) }
func Main(args ...any) *Node    { return createElement("main", args) }
func Nav(args ...any) *Node     { return createElement("nav", args) }
func Section(args ...any) *Node { return createElement("section", args) }
func H1(args ...any) *Node      { return createElement("h1", args) }
func H2(args ...any) *Node      { return createElement("h2", args) }
func H3(args ...any) *Node      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *Node  { return createElement("div", args) }
func P(args ...any) *Node    { return createElement("p", args) }
func Ul(args ...any) *Node   { return createElement("ul", args) }
func Li(args ...any) *Node   { return createElement("li", args) }
func Pre(args ...any) *Node  { return createElement("pre", args) }
func Code(args ...any) *Node { return createElement("code", args) }

// Inline text elements

func A(args ...any) *Node      { return createElement("a", args) }
func Span(args ...any) *Node   { return createElement("span", args) }
func Strong(args ...any) *Node { return createElement("strong", args) }
func Em(args ...any) *Node     { return createElement("em", args) }
func Small(args ...any) *Node  { return createElement("small", args) }

// Form elements

func Form(args ...any) *Node   { return createElement("form", args) }
func Button(args ...any) *Node { return createElement("button", args) }
func Label(args ...any) *Node  { return createElement("label", args) }
func Input(args ...any) *Node  { return createElement("input", args) }

// Void elements

func Br(args ...any) *Node   { return createElement("br", args) }
func Hr(args ...any) *Node   { return createElement("hr", args) }
func Img(args ...any) *Node  { return createElement("img", args) }
func Meta(args ...any) *Node { return createElement("meta", args) }
func Link(args ...any) *Node { return createElement("link", args) }

// Element creates an element with an arbitrary tag.
func Element(tag string, args ...any) *Node { return createElement(tag, args) }

// Attribute helpers

// AttrOf creates an attribute with an arbitrary key.
func AttrOf(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Class sets the class attribute.
func Class(names string) Attr { return Attr{Key: "class", Value: names} }

// ID sets the id attribute.
func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Href sets the href attribute.
func Href(url string) Attr { return Attr{Key: "href", Value: url} }

// Src sets the src attribute.
func Src(url string) Attr { return Attr{Key: "src", Value: url} }

// Alt sets the alt attribute.
func Alt(text string) Attr { return Attr{Key: "alt", Value: text} }

// Type sets the type attribute.
func Type(t string) Attr { return Attr{Key: "type", Value: t} }

// Name sets the name attribute.
func Name(name string) Attr { return Attr{Key: "name", Value: name} }

// Data sets a data-* attribute.
func Data(name string, value any) Attr {
	return Attr{Key: "data-" + name, Value: value}
}

// ClassIf sets the class attribute only when condition is true.
func ClassIf(condition bool, names string) Attr {
	if condition {
		return Class(names)
	}
	return Attr{}
}

// Classf sets the class attribute from a format string.
func Classf(format string, args ...any) Attr {
	return Class(fmt.Sprintf(format, args...))
}
