package route

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// Params holds the parameter values extracted from a matched URL.
type Params map[string]string

// Get returns the value for a parameter, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Has reports whether a parameter was extracted.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Int returns a parameter parsed as an integer.
func (p Params) Int(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("missing param %q", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("param %q: invalid integer: %s", name, v)
	}
	return n, nil
}

// UUID returns a parameter parsed as a UUID.
func (p Params) UUID(name string) (uuid.UUID, error) {
	v, ok := p[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("missing param %q", name)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("param %q: invalid UUID: %s", name, v)
	}
	return id, nil
}

// Bind populates a struct with parameter values. The target must be a
// pointer to a struct with `param` tags on the fields to fill.
func (p Params) Bind(target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		paramName := field.Tag.Get("param")
		if paramName == "" {
			continue
		}

		value, ok := p[paramName]
		if !ok {
			continue
		}

		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setField(fieldValue, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", paramName, err)
		}
	}

	return nil
}

// setField sets a struct field value from a string.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// Wildcard segments: "a/b/c" becomes ["a", "b", "c"].
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}

// Page describes a routable view: the URL pattern it answers to, the
// component that renders it, and the authorization requirements a viewer
// must satisfy before the body is shown.
type Page struct {
	// Path is the URL pattern in chi syntax (e.g. "/projects/{id}").
	Path string

	// Title is the page title, used by layouts and default content.
	Title string

	// Body produces the page component for a match. Required.
	Body func(m Match) vdom.Component

	// Requirements are the authorization requirements declared by the
	// page. Empty means the page is public.
	Requirements []authz.Spec

	// Layout optionally wraps the gated page content. It receives the
	// match and the rendered gate output.
	Layout func(m Match, content *vdom.Node) *vdom.Node
}

// Match pairs a matched page with the parameter values extracted from
// the URL it was matched against.
type Match struct {
	// Page is the matched page. Never nil for a valid match.
	Page *Page

	// Params are the extracted route parameter values.
	Params Params

	// Path is the request path that produced the match.
	Path string
}

// Registry is an ordered collection of pages to be mounted on a router.
type Registry struct {
	pages  []*Page
	byPath map[string]*Page
}

// NewRegistry creates an empty page registry.
func NewRegistry() *Registry {
	return &Registry{
		byPath: make(map[string]*Page),
	}
}

// Register adds a page. The page path must be non-empty, start with "/",
// and not already be registered.
func (r *Registry) Register(p *Page) error {
	if p == nil {
		return fmt.Errorf("page must not be nil")
	}
	if p.Path == "" || !strings.HasPrefix(p.Path, "/") {
		return fmt.Errorf("page path must start with /: %q", p.Path)
	}
	if p.Body == nil {
		return fmt.Errorf("page %s: body must not be nil", p.Path)
	}
	if _, exists := r.byPath[p.Path]; exists {
		return fmt.Errorf("duplicate page path: %s", p.Path)
	}
	r.pages = append(r.pages, p)
	r.byPath[p.Path] = p
	return nil
}

// MustRegister adds a page and panics on error. Intended for static page
// tables built at startup.
func (r *Registry) MustRegister(p *Page) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Pages returns the registered pages in registration order.
func (r *Registry) Pages() []*Page {
	out := make([]*Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// Lookup returns the page registered under the exact pattern, or nil.
func (r *Registry) Lookup(pattern string) *Page {
	return r.byPath[pattern]
}

// Len returns the number of registered pages.
func (r *Registry) Len() int {
	return len(r.pages)
}
