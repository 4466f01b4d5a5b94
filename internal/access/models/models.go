package models

// Decision is the outcome of an authorization check.
type Decision int

const (
	DecisionDenied Decision = iota
	DecisionAllowed
)

func (d Decision) String() string {
	if d == DecisionAllowed {
		return "allowed"
	}
	return "denied"
}

func (d Decision) IsAllowed() bool { return d == DecisionAllowed }
