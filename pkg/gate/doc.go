// Package gate renders matched pages behind their authorization
// requirements.
//
// RouteView is the page-level gate: built per request from a
// route.Match and an authstate.Future, it renders exactly one of three
// branches. While the future is pending it shows the authorizing
// content; once settled it either mounts the page (every requirement
// passed) or shows the not-authorized content with the resolved state.
// Whichever branch renders, the future is available to descendants
// through the render scope, and a provider supplied by an ancestor is
// reused rather than wrapped again.
//
// AuthView is the fragment-level gate for conditional UI inside an
// already rendered page, such as hiding an admin link from
// non-admins. It relies entirely on the ambient future.
//
// Both views report their outcomes to an optional Observer; see
// pkg/obs for Prometheus and OpenTelemetry implementations and
// SlogObserver in this package for plain logging.
package gate
