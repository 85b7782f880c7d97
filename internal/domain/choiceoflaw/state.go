package choiceoflaw

import (
	"fmt"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// State is a step of one analysis run.
type State string

const (
	StateIdle             State = "idle"
	StateApproachSelected State = "approach_selected"
	StateFactorsCollected State = "factors_collected"
	StateScored           State = "scored"
	StateResolved         State = "resolved"
)

// allowedTransitions lists the next state reachable from each state.
//
//	Idle ──► ApproachSelected ──► FactorsCollected ──► Scored ──► Resolved
var allowedTransitions = map[State]State{
	StateIdle:             StateApproachSelected,
	StateApproachSelected: StateFactorsCollected,
	StateFactorsCollected: StateScored,
	StateScored:           StateResolved,
}

// run tracks the states one analysis passes through.
type run struct {
	current State
	history []State
}

func newRun() *run {
	return &run{current: StateIdle, history: []State{StateIdle}}
}

// advance moves to next.  An out-of-order transition is a programming error.
func (r *run) advance(next State) error {
	want, ok := allowedTransitions[r.current]
	if !ok || want != next {
		return errors.New(errors.ErrCodeInternal,
			fmt.Sprintf("illegal analysis transition %q → %q", r.current, next))
	}
	r.current = next
	r.history = append(r.history, next)
	return nil
}

func (r *run) states() []State {
	out := make([]State, len(r.history))
	copy(out, r.history)
	return out
}

//Personal.AI order the ending
