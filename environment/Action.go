package environment

import "fmt"

// Action is a move the agent can attempt in a gridworld
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	Stay
)

// NumActions is the number of directional actions, which is also the
// length of a cell's action-estimate table
const NumActions = 4

// Actions holds the directional actions in table order. Stay is never
// selected by a policy and is not part of the table.
var Actions = [NumActions]Action{Up, Down, Left, Right}

// Delta returns the unit vector of the action. The y axis grows
// downward, so Up decreases y.
func (a Action) Delta() (dx, dy int) {
	switch a {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Orthogonal returns the two actions perpendicular to a. These are the
// actions that noise can replace a with.
func (a Action) Orthogonal() [2]Action {
	switch a {
	case Up, Down:
		return [2]Action{Left, Right}
	case Left, Right:
		return [2]Action{Up, Down}
	default:
		return [2]Action{Stay, Stay}
	}
}

// Valid returns whether a is one of the directional actions
func (a Action) Valid() bool {
	return a >= Up && a <= Right
}

func (a Action) String() string {
	switch a {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Stay:
		return "STAY"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
