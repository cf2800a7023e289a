package authz

import (
	"context"
	"fmt"
	"sync"

	"github.com/gateview-dev/gateview/pkg/authstate"
)

// PolicyFunc evaluates a named authorization policy against a state.
type PolicyFunc func(ctx context.Context, state authstate.State) (bool, error)

// PolicyRegistry holds named policy functions. Policies are registered
// at startup and looked up when requirement specs are built. Safe for
// concurrent use.
type PolicyRegistry struct {
	mu       sync.RWMutex
	policies map[string]PolicyFunc
}

// NewPolicyRegistry creates an empty policy registry.
func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{
		policies: make(map[string]PolicyFunc),
	}
}

// Register adds a named policy. The name must be non-empty and not
// already registered, and the function must not be nil.
func (r *PolicyRegistry) Register(name string, fn PolicyFunc) error {
	if name == "" {
		return fmt.Errorf("policy name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("policy %q: function must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("duplicate policy: %s", name)
	}
	r.policies[name] = fn
	return nil
}

// MustRegister adds a named policy and panics on error. Intended for
// static policy tables built at startup.
func (r *PolicyRegistry) MustRegister(name string, fn PolicyFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the policy registered under name.
func (r *PolicyRegistry) Lookup(name string) (PolicyFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.policies[name]
	return fn, ok
}

// Names returns the registered policy names.
func (r *PolicyRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	return names
}
