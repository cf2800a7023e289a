package gate

// Outcome is the branch a gate render pass took.
type Outcome uint8

const (
	// OutcomeAuthorizing means the authentication future had not
	// settled yet.
	OutcomeAuthorizing Outcome = iota

	// OutcomeAuthorized means every requirement passed and the page
	// rendered.
	OutcomeAuthorized

	// OutcomeNotAuthorized means a requirement denied and the fallback
	// rendered.
	OutcomeNotAuthorized
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAuthorizing:
		return "authorizing"
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeNotAuthorized:
		return "not_authorized"
	default:
		return "unknown"
	}
}
