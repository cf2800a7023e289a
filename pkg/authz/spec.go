package authz

import "fmt"

// Kind identifies a requirement spec kind.
type Kind string

const (
	// KindAuthenticated requires any authenticated principal.
	KindAuthenticated Kind = "authenticated"

	// KindRole requires the role named in Value.
	KindRole Kind = "role"

	// KindAnyRole requires at least one of the roles in Values.
	KindAnyRole Kind = "any_role"

	// KindPermission requires the permission named in Value.
	KindPermission Kind = "permission"

	// KindPolicy requires the registered policy named in Value to
	// allow.
	KindPolicy Kind = "policy"
)

// Spec is the declarative form of a requirement, as carried by pages
// and requirement manifests.
type Spec struct {
	Kind   Kind     `json:"kind"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Validate checks the spec's shape without resolving policy names. It
// is what manifest loaders run at parse time, where no registry is in
// reach yet.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindAuthenticated:
		return nil

	case KindRole:
		if s.Value == "" {
			return fmt.Errorf("role spec: value must not be empty")
		}
		return nil

	case KindAnyRole:
		if len(s.Values) == 0 {
			return fmt.Errorf("any_role spec: values must not be empty")
		}
		return nil

	case KindPermission:
		if s.Value == "" {
			return fmt.Errorf("permission spec: value must not be empty")
		}
		return nil

	case KindPolicy:
		if s.Value == "" {
			return fmt.Errorf("policy spec: value must not be empty")
		}
		return nil

	default:
		return fmt.Errorf("unknown requirement kind: %q", s.Kind)
	}
}

// Build turns the spec into an evaluable requirement. Policy specs are
// resolved against the registry; an unknown policy name is an error so
// misconfigured pages fail at build time, not at request time.
func (s Spec) Build(policies *PolicyRegistry) (Requirement, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case KindAuthenticated:
		return Authenticated(), nil

	case KindRole:
		return Role(s.Value), nil

	case KindAnyRole:
		return AnyRole(s.Values...), nil

	case KindPermission:
		return Permission(s.Value), nil

	case KindPolicy:
		if policies == nil {
			return nil, fmt.Errorf("policy spec %q: no policy registry", s.Value)
		}
		fn, ok := policies.Lookup(s.Value)
		if !ok {
			return nil, fmt.Errorf("unknown policy: %s", s.Value)
		}
		return Policy(s.Value, fn), nil

	default:
		return nil, fmt.Errorf("unknown requirement kind: %q", s.Kind)
	}
}

// BuildAll builds every spec in order.
func BuildAll(specs []Spec, policies *PolicyRegistry) ([]Requirement, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	reqs := make([]Requirement, 0, len(specs))
	for _, s := range specs {
		req, err := s.Build(policies)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
