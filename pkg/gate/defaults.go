package gate

import (
	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// DefaultAuthorizing renders the built-in pending fragment.
func DefaultAuthorizing() *vdom.Node {
	return vdom.P(vdom.Class("gate-authorizing"), vdom.Text("Authorizing..."))
}

// DefaultNotAuthorized renders the built-in denial fragment. The text
// is static; the state argument does not vary it.
func DefaultNotAuthorized(state authstate.State) *vdom.Node {
	return vdom.P(vdom.Class("gate-not-authorized"), vdom.Text("Not authorized"))
}
