package main

import (
	"github.com/gateview-dev/gateview"
	"github.com/gateview-dev/gateview/pkg/vdom"
)

// registerDemoPages wires the three demo pages: a public home page and
// two gated pages exercising role and permission requirements.
func registerDemoPages(app *gateview.App) {
	app.MustRegister(&gateview.Page{
		Path:  "/",
		Title: "Home",
		Body: func(m gateview.Match) gateview.Component {
			return homeBody{}
		},
	})

	app.MustRegister(&gateview.Page{
		Path:  "/dashboard",
		Title: "Dashboard",
		Body: func(m gateview.Match) gateview.Component {
			return dashboardBody{}
		},
		Requirements: []gateview.Spec{
			{Kind: gateview.KindRole, Value: "admin"},
		},
	})

	app.MustRegister(&gateview.Page{
		Path:  "/reports",
		Title: "Reports",
		Body: func(m gateview.Match) gateview.Component {
			return reportsBody{}
		},
		Requirements: []gateview.Spec{
			{Kind: gateview.KindPermission, Value: "reports:read"},
		},
	})
}

// demoLayout wraps every page in shared navigation chrome.
func demoLayout(m gateview.Match, content *vdom.Node) *vdom.Node {
	return vdom.Fragment(
		vdom.Header(
			vdom.Nav(
				vdom.A(vdom.Href("/"), vdom.Text("Home")),
				vdom.Text(" | "),
				vdom.A(vdom.Href("/dashboard"), vdom.Text("Dashboard")),
				vdom.Text(" | "),
				vdom.A(vdom.Href("/reports"), vdom.Text("Reports")),
			),
		),
		vdom.Main(content),
	)
}

// demoDenied replaces the built-in denial fragment with a hint that
// distinguishes "sign in" from "no access".
func demoDenied(state gateview.State) *vdom.Node {
	if state.Authenticated() {
		return vdom.Section(
			vdom.H1(vdom.Text("Not authorized")),
			vdom.P(vdom.Text(state.Subject()+" does not have access to this page.")),
		)
	}
	return vdom.Section(
		vdom.H1(vdom.Text("Sign in required")),
		vdom.P(vdom.Text("Present a bearer token to view this page.")),
	)
}

type homeBody struct{}

func (homeBody) Render(sc *vdom.Scope) *vdom.Node {
	state, _ := gateview.StateFromScope(sc)

	greeting := "Welcome, stranger."
	if state.Authenticated() {
		greeting = "Welcome back, " + state.Subject() + "."
	}
	return vdom.Section(
		vdom.H1(vdom.Text("gateview demo")),
		vdom.P(vdom.Text(greeting)),
		vdom.P(
			vdom.Text("The "),
			vdom.Strong(vdom.Text("dashboard")),
			vdom.Text(" needs the admin role, "),
			vdom.Strong(vdom.Text("reports")),
			vdom.Text(" needs the reports:read permission."),
		),
	)
}

type dashboardBody struct{}

func (dashboardBody) Render(sc *vdom.Scope) *vdom.Node {
	state, _ := gateview.StateFromScope(sc)

	return vdom.Section(
		vdom.H1(vdom.Text("Dashboard")),
		vdom.P(vdom.Text("Signed in as "+state.Subject())),
		vdom.Ul(
			vdom.Li(vdom.Text("Deploys today: 3")),
			vdom.Li(vdom.Text("Open alerts: 0")),
			vdom.Li(vdom.Text("Queue depth: nominal")),
		),
	)
}

type reportsBody struct{}

func (reportsBody) Render(sc *vdom.Scope) *vdom.Node {
	return vdom.Section(
		vdom.H1(vdom.Text("Reports")),
		vdom.Ul(
			vdom.Li(vdom.Text("Weekly usage")),
			vdom.Li(vdom.Text("Sign-in activity")),
			vdom.Li(vdom.Text("Denied requests")),
		),
	)
}
