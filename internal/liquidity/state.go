package liquidity

// State is a liquidity session state.
type State string

const (
	StateIdle       State = "idle"
	StateChecking   State = "checking"
	StateUnapproved State = "unapproved"
	StateApproving  State = "approving"
	StateApproved   State = "approved"
	StateDepositing State = "depositing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Terminal states need Reset before the session accepts new amounts.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// InFlight states have a remote call outstanding.
func (s State) InFlight() bool {
	return s == StateChecking || s == StateApproving || s == StateDepositing
}

var transitions = map[State][]State{
	StateIdle:       {StateChecking},
	StateChecking:   {StateUnapproved, StateApproved, StateFailed},
	StateUnapproved: {StateChecking, StateApproving},
	StateApproving:  {StateChecking, StateFailed},
	StateApproved:   {StateChecking, StateDepositing, StateUnapproved},
	StateDepositing: {StateCompleted, StateFailed},
	StateCompleted:  {StateIdle},
	StateFailed:     {StateIdle},
}

// CanTransition reports whether from -> to is an edge of the session graph.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
