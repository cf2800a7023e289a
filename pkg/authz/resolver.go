package authz

// Resolver builds requirements from specs, memoizing the result per
// key. The expensive part of gating a page is turning its declared
// specs into evaluable requirements (policy lookups included); that
// happens once per page, not once per request. Safe for concurrent use.
type Resolver struct {
	policies *PolicyRegistry
	cache    *Cache
}

// NewResolver creates a resolver over the given policy registry. A nil
// registry is valid as long as no policy specs are built.
func NewResolver(policies *PolicyRegistry) *Resolver {
	return &Resolver{
		policies: policies,
		cache:    NewCache(),
	}
}

// Requirements returns the built requirements for the specs, memoized
// under key. Callers must keep the key→specs binding stable; use
// Invalidate when it changes.
func (r *Resolver) Requirements(key string, specs []Spec) ([]Requirement, error) {
	return r.cache.Get(key, func() ([]Requirement, error) {
		return BuildAll(specs, r.policies)
	})
}

// Invalidate drops the memoized requirements for key.
func (r *Resolver) Invalidate(key string) {
	r.cache.Invalidate(key)
}

// Reset drops every memoized requirement list. Call it when the
// key→specs binding changes wholesale, e.g. after a manifest reload.
func (r *Resolver) Reset() {
	r.cache.Reset()
}

// Policies returns the resolver's policy registry.
func (r *Resolver) Policies() *PolicyRegistry {
	return r.policies
}
