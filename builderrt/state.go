package builderrt

import "strconv"

// State is the position of a builder in its linear chain: 0 is Init and n,
// the number of fields, is Final. State i accepts only the setter of the
// field at position i.
type State int

// Init is the state every builder starts in.
const Init State = 0

func (s State) String() string {
	if s == Init {
		return "state 0 (Init)"
	}

	return "state " + strconv.Itoa(int(s))
}

// IsFinal reports whether s is the final state of a chain over n fields.
func (s State) IsFinal(n int) bool {
	return int(s) == n
}
