// Package authz evaluates page authorization requirements against an
// authentication state.
//
// Pages declare requirements as Specs (role, permission, policy). A
// Resolver builds Specs into evaluable Requirements, resolving policy
// names against a PolicyRegistry and memoizing the result per page so
// the build cost is paid once. Evaluate then checks a state against the
// built requirements with all-must-pass semantics, producing a Decision
// whose Reason names the first requirement that denied.
//
// Permission requirements use "resource:action" patterns with "*"
// wildcards on either side; see MatchPattern.
package authz
