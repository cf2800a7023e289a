package gate

import (
	"context"
	"strings"
	"testing"

	"github.com/gateview-dev/gateview/pkg/authstate"
	"github.com/gateview-dev/gateview/pkg/authz"
	"github.com/gateview-dev/gateview/pkg/render"
	"github.com/gateview-dev/gateview/pkg/route"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

func mustAuthView(t *testing.T, reqs []authz.Requirement, cfg AuthViewConfig) *AuthView {
	t.Helper()
	if cfg.Authorized == nil {
		cfg.Authorized = func(state authstate.State) *vdom.Node {
			return vdom.Span(vdom.Text("secret for " + state.Subject()))
		}
	}
	v, err := NewAuthView(context.Background(), reqs, cfg)
	if err != nil {
		t.Fatalf("NewAuthView: %v", err)
	}
	return v
}

// renderUnder renders a component under a provider carrying future.
func renderUnder(t *testing.T, future *authstate.Future, c vdom.Component) string {
	t.Helper()
	tree := authstate.Provide(future, vdom.Comp(c))
	html, err := render.NewRenderer(render.Config{}).RenderToString(tree)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

func TestNewAuthViewRequiresAuthorizedContent(t *testing.T) {
	_, err := NewAuthView(context.Background(), nil, AuthViewConfig{})
	if err == nil {
		t.Fatal("expected error for missing Authorized content")
	}
	if !strings.Contains(err.Error(), "Authorized") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestAuthViewPanicsOutsideProvider(t *testing.T) {
	v := mustAuthView(t, nil, AuthViewConfig{})

	defer func() {
		if recover() == nil {
			t.Error("rendering outside a provider subtree should panic")
		}
	}()
	v.Render(vdom.NewScope())
}

func TestAuthViewAuthorized(t *testing.T) {
	v := mustAuthView(t, []authz.Requirement{authz.Role("Admin")}, AuthViewConfig{})

	html := renderUnder(t, authstate.ResolvedFuture(adminState()), v)
	if !strings.Contains(html, "secret for alice") {
		t.Errorf("authorized content should render with state, got %q", html)
	}
}

func TestAuthViewDeniedDefaultsToNothing(t *testing.T) {
	v := mustAuthView(t, []authz.Requirement{authz.Role("Admin")}, AuthViewConfig{})

	html := renderUnder(t, authstate.ResolvedFuture(userState()), v)
	if strings.Contains(html, "secret") {
		t.Errorf("denied view should hide content, got %q", html)
	}
	if html != "" {
		t.Errorf("default denial renders nothing, got %q", html)
	}
}

func TestAuthViewDeniedCustomContent(t *testing.T) {
	v := mustAuthView(t, []authz.Requirement{authz.Role("Admin")}, AuthViewConfig{
		NotAuthorized: func(state authstate.State) *vdom.Node {
			return vdom.Span(vdom.Textf("no access for %s", state.Subject()))
		},
	})

	html := renderUnder(t, authstate.ResolvedFuture(userState()), v)
	if !strings.Contains(html, "no access for bob") {
		t.Errorf("custom denial content should render, got %q", html)
	}
}

func TestAuthViewPendingDefaultsToNothing(t *testing.T) {
	v := mustAuthView(t, nil, AuthViewConfig{})

	html := renderUnder(t, authstate.NewFuture(), v)
	if html != "" {
		t.Errorf("pending view renders nothing by default, got %q", html)
	}
}

func TestAuthViewPendingCustomContent(t *testing.T) {
	v := mustAuthView(t, nil, AuthViewConfig{
		Authorizing: func() *vdom.Node {
			return vdom.Span(vdom.Text("checking"))
		},
	})

	html := renderUnder(t, authstate.NewFuture(), v)
	if !strings.Contains(html, "checking") {
		t.Errorf("custom pending content should render, got %q", html)
	}
}

func TestAuthViewNoRequirementsNeedsOnlyResolution(t *testing.T) {
	v := mustAuthView(t, nil, AuthViewConfig{})

	html := renderUnder(t, authstate.ResolvedFuture(authstate.Anonymous()), v)
	if !strings.Contains(html, "secret for") {
		t.Errorf("no requirements should authorize anyone, got %q", html)
	}
}

func TestAuthViewObserver(t *testing.T) {
	obs := &recordingObserver{}
	v := mustAuthView(t, []authz.Requirement{authz.Role("Admin")}, AuthViewConfig{
		Observer: obs,
		Label:    "admin-nav",
	})

	renderUnder(t, authstate.ResolvedFuture(userState()), v)

	last := obs.last(t)
	if last.Outcome != OutcomeNotAuthorized {
		t.Errorf("outcome: got %v, want NotAuthorized", last.Outcome)
	}
	if last.Page != "admin-nav" {
		t.Errorf("label: got %q, want %q", last.Page, "admin-nav")
	}
	if last.Reason != `role "Admin"` {
		t.Errorf("reason: got %q", last.Reason)
	}
}

// An AuthView nested in a gated page reads the future the RouteView
// provided, with no extra wiring.
func TestAuthViewInsideRouteView(t *testing.T) {
	adminLink := mustAuthView(t, []authz.Requirement{authz.Role("Admin")}, AuthViewConfig{
		Authorized: func(state authstate.State) *vdom.Node {
			return vdom.A(vdom.Href("/admin"), vdom.Text("Admin area"))
		},
	})

	page := &route.Page{
		Path: "/home",
		Body: func(m route.Match) vdom.Component {
			return vdom.Func(func(sc *vdom.Scope) *vdom.Node {
				return vdom.Nav(vdom.Comp(adminLink))
			})
		},
	}

	t.Run("admin sees the link", func(t *testing.T) {
		v := mustView(t, page, authstate.ResolvedFuture(adminState()), Config{})
		if html := renderHTML(t, v); !strings.Contains(html, "Admin area") {
			t.Errorf("got %q", html)
		}
	})

	t.Run("user does not", func(t *testing.T) {
		v := mustView(t, page, authstate.ResolvedFuture(userState()), Config{})
		html := renderHTML(t, v)
		if strings.Contains(html, "Admin area") {
			t.Errorf("got %q", html)
		}
		if !strings.Contains(html, "<nav>") {
			t.Errorf("page should still render, got %q", html)
		}
	})
}
