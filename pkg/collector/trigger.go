package collector

import "fmt"

// TriggerState is the lifecycle position of one action's trigger.
type TriggerState int

const (
	// StateArmed means the trigger is waiting for its condition.
	StateArmed TriggerState = iota
	// StateFired means the condition was met; display gates run next. A
	// trigger whose gates fail stays fired and is never re-armed.
	StateFired
	// StateDisplayed means the action is on screen with its impression
	// recorded.
	StateDisplayed
	// StateDismissed is terminal: the viewer closed the action.
	StateDismissed
	// StateConverted is terminal: the viewer activated the CTA.
	StateConverted
)

func (s TriggerState) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateFired:
		return "fired"
	case StateDisplayed:
		return "displayed"
	case StateDismissed:
		return "dismissed"
	case StateConverted:
		return "converted"
	default:
		return fmt.Sprintf("TriggerState(%d)", int(s))
	}
}

// legalTransitions is the complete transition relation. Anything absent is
// illegal; there are no self-loops and no way back to armed.
var legalTransitions = map[TriggerState][]TriggerState{
	StateArmed:     {StateFired},
	StateFired:     {StateDisplayed},
	StateDisplayed: {StateDismissed, StateConverted},
}

// TriggerMachine tracks one action's trigger through its lifecycle and
// rejects transitions the relation does not permit.
type TriggerMachine struct {
	state TriggerState
}

// NewTriggerMachine returns a machine in the armed state.
func NewTriggerMachine() *TriggerMachine {
	return &TriggerMachine{state: StateArmed}
}

// State returns the current state.
func (m *TriggerMachine) State() TriggerState { return m.state }

// Transition moves the machine to the requested state, or returns an error
// leaving the state untouched when the move is illegal.
func (m *TriggerMachine) Transition(to TriggerState) error {
	for _, allowed := range legalTransitions[m.state] {
		if allowed == to {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("illegal trigger transition %s -> %s", m.state, to)
}

// Terminal reports whether the machine can make no further moves.
func (m *TriggerMachine) Terminal() bool {
	return len(legalTransitions[m.state]) == 0
}
