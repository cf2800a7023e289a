// Package authstate models who is viewing a page and when that answer
// becomes known.
//
// A State is a resolved answer: either anonymous or a Principal with
// roles and permissions. A Future is the single-assignment promise of a
// State, settled exactly once by the Source that produced it. Sources
// that decide synchronously (StaticSource, JWTSource) hand back settled
// futures; a host backed by a remote identity system can return an
// unsettled future and resolve it when the answer arrives.
//
// Provide places a future into the render scope so descendant
// components can read it with FromScope, the same way layouts share
// values with the pages they wrap.
//
// A JWTSource that rejects a credential resolves to the anonymous state
// rather than failing the future: deciding what a bad token means is
// the source's job, and downstream consumers only ever see anonymous
// versus authenticated.
package authstate
