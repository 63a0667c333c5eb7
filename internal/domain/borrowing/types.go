package borrowing

type State string

const (
	StateActive   State = "active"
	StateOverdue  State = "overdue"
	StateReturned State = "returned"
)

var stateDescriptions = map[State]string{
	StateActive:   "On loan and within the due date",
	StateOverdue:  "On loan past the due date",
	StateReturned: "Returned; terminal",
}

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	_, ok := stateDescriptions[s]
	return ok
}

func (s State) Description() string {
	return stateDescriptions[s]
}

func (s State) IsTerminal() bool {
	return s == StateReturned
}

func ParseState(s string) (State, error) {
	state := State(s)
	if !state.IsValid() {
		return "", ErrInvalidState
	}
	return state, nil
}
