package domain

// Action represents the decision computed for a pair on a single tick.
type Action int

const (
	ActionHold Action = iota
	ActionRotateToB
	ActionRotateToA
)

const (
	actionStringHold      = "hold"
	actionStringRotateToB = "rotate_to_b"
	actionStringRotateToA = "rotate_to_a"
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionHold:
		return actionStringHold
	case ActionRotateToB:
		return actionStringRotateToB
	case ActionRotateToA:
		return actionStringRotateToA
	default:
		return "unknown"
	}
}
