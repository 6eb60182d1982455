package pipeline

import "time"

// State is one stage of a capture attempt.
type State int

const (
	StateWaitForDisc State = iota
	StateDiscDetected
	StateRip
	StateVerifyOutputs
	StatePlanAssignment
	StateCommitMoves
	StateEject
	StateDone
	StateError
)

var stateNames = map[State]string{
	StateWaitForDisc:    "wait_for_disc",
	StateDiscDetected:   "disc_detected",
	StateRip:            "rip",
	StateVerifyOutputs:  "verify_outputs",
	StatePlanAssignment: "plan_assignment",
	StateCommitMoves:    "commit_moves",
	StateEject:          "eject",
	StateDone:           "done",
	StateError:          "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Transition records one state's visit: when it was entered and left, and
// the data that decided what happened inside it. The full trail lets a
// reviewer reconstruct exactly why a job succeeded or was quarantined.
type Transition struct {
	State     State
	EnteredAt time.Time
	ExitedAt  time.Time
	Note      string
}

// trail accumulates transitions for one job run.
type trail struct {
	now         func() time.Time
	transitions []Transition
}

// enter opens a transition and returns its index for close.
func (t *trail) enter(state State) int {
	t.transitions = append(t.transitions, Transition{State: state, EnteredAt: t.now()})
	return len(t.transitions) - 1
}

func (t *trail) exit(index int, note string) {
	t.transitions[index].ExitedAt = t.now()
	t.transitions[index].Note = note
}
