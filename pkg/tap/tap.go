package tap

import (
	"fmt"
	"strings"
)

// State represents one of the 16 defined IEEE 1149.1 TAP controller states.
type State uint8

const (
	StateTestLogicReset State = iota
	StateRunTestIdle
	StateSelectDRScan
	StateCaptureDR
	StateShiftDR
	StateExit1DR
	StatePauseDR
	StateExit2DR
	StateUpdateDR
	StateSelectIRScan
	StateCaptureIR
	StateShiftIR
	StateExit1IR
	StatePauseIR
	StateExit2IR
	StateUpdateIR

	stateCount
)

var stateNames = [stateCount]string{
	StateTestLogicReset: "TestLogicReset",
	StateRunTestIdle:    "RunTestIdle",
	StateSelectDRScan:   "SelectDRScan",
	StateCaptureDR:      "CaptureDR",
	StateShiftDR:        "ShiftDR",
	StateExit1DR:        "Exit1DR",
	StatePauseDR:        "PauseDR",
	StateExit2DR:        "Exit2DR",
	StateUpdateDR:       "UpdateDR",
	StateSelectIRScan:   "SelectIRScan",
	StateCaptureIR:      "CaptureIR",
	StateShiftIR:        "ShiftIR",
	StateExit1IR:        "Exit1IR",
	StatePauseIR:        "PauseIR",
	StateExit2IR:        "Exit2IR",
	StateUpdateIR:       "UpdateIR",
}

func (s State) String() string {
	if s.Valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Valid reports whether s is one of the 16 controller states.
func (s State) Valid() bool {
	return s < stateCount
}

// IsIR reports whether s belongs to the instruction register column
// (Select-IR-Scan through Update-IR).
func (s State) IsIR() bool {
	return s >= StateSelectIRScan && s <= StateUpdateIR
}

// IsDR reports whether s belongs to the data register column
// (Select-DR-Scan through Update-DR).
func (s State) IsDR() bool {
	return s >= StateSelectDRScan && s <= StateUpdateDR
}

// States returns every controller state in enum order.
func States() []State {
	out := make([]State, stateCount)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// stateAliases holds the snake_case spellings used by HDL testbenches that
// do not collapse to a canonical name once separators are removed.
var stateAliases = map[string]State{
	"runidle": StateRunTestIdle,
	"tlr":     StateTestLogicReset,
	"rti":     StateRunTestIdle,
}

// ParseState resolves a state name. Matching ignores case, underscores and
// dashes, so "ShiftIR", "shift_ir" and "SHIFT-IR" are equivalent.
func ParseState(name string) (State, error) {
	key := normalizeStateName(name)
	for i, canonical := range stateNames {
		if normalizeStateName(canonical) == key {
			return State(i), nil
		}
	}
	if s, ok := stateAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("tap: unknown state %q", name)
}

func normalizeStateName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Sequence captures the TMS drive pattern and the sequence of states that result
// from applying that pattern to the TAP controller.
type Sequence struct {
	TMS    []bool
	States []State
}

type stateTransitions struct {
	onZero State
	onOne  State
}

var transitions = [stateCount]stateTransitions{
	StateTestLogicReset: {onZero: StateRunTestIdle, onOne: StateTestLogicReset},
	StateRunTestIdle:    {onZero: StateRunTestIdle, onOne: StateSelectDRScan},
	StateSelectDRScan:   {onZero: StateCaptureDR, onOne: StateSelectIRScan},
	StateCaptureDR:      {onZero: StateShiftDR, onOne: StateExit1DR},
	StateShiftDR:        {onZero: StateShiftDR, onOne: StateExit1DR},
	StateExit1DR:        {onZero: StatePauseDR, onOne: StateUpdateDR},
	StatePauseDR:        {onZero: StatePauseDR, onOne: StateExit2DR},
	StateExit2DR:        {onZero: StateShiftDR, onOne: StateUpdateDR},
	StateUpdateDR:       {onZero: StateRunTestIdle, onOne: StateSelectDRScan},
	StateSelectIRScan:   {onZero: StateCaptureIR, onOne: StateTestLogicReset},
	StateCaptureIR:      {onZero: StateShiftIR, onOne: StateExit1IR},
	StateShiftIR:        {onZero: StateShiftIR, onOne: StateExit1IR},
	StateExit1IR:        {onZero: StatePauseIR, onOne: StateUpdateIR},
	StatePauseIR:        {onZero: StatePauseIR, onOne: StateExit2IR},
	StateExit2IR:        {onZero: StateShiftIR, onOne: StateUpdateIR},
	StateUpdateIR:       {onZero: StateRunTestIdle, onOne: StateSelectDRScan},
}

// NextState returns the next TAP state after clocking TCK with the provided TMS
// value. It panics if an invalid state is supplied, which should never happen
// when interacting through the exported API.
func NextState(current State, tms bool) State {
	if !current.Valid() {
		panic(fmt.Sprintf("tap: unhandled state %d", current))
	}
	row := transitions[current]
	if tms {
		return row.onOne
	}
	return row.onZero
}

// StateMachine tracks the TAP controller state locally. It does not perform any
// I/O; instead it produces the sequences of TMS bits needed so a hardware
// adapter can be instructed separately.
type StateMachine struct {
	state State
}

// NewStateMachine creates a TAP state machine initialized to Test-Logic-Reset.
func NewStateMachine() *StateMachine {
	return &StateMachine{state: StateTestLogicReset}
}

// State reports the current TAP state tracked by the machine.
func (m *StateMachine) State() State {
	return m.state
}

// Clock advances the machine one TCK cycle with the provided TMS bit and
// returns the new state.
func (m *StateMachine) Clock(tms bool) State {
	next := NextState(m.state, tms)
	m.state = next
	return next
}

// AsyncReset forces Test-Logic-Reset without clocking, the way TRST or a
// power-on reset does.
func (m *StateMachine) AsyncReset() {
	m.state = StateTestLogicReset
}

// Reset applies the IEEE recommendation of clocking five consecutive TMS=1
// cycles. It returns the sequence for convenience so it can be forwarded to a
// hardware adapter.
func (m *StateMachine) Reset() Sequence {
	seq := Sequence{
		TMS:    make([]bool, ResetCycles),
		States: make([]State, ResetCycles+1),
	}
	seq.States[0] = m.state
	for i := 0; i < ResetCycles; i++ {
		seq.TMS[i] = true
		seq.States[i+1] = m.Clock(true)
	}
	return seq
}

// ResetCycles is the number of TMS=1 edges that reach Test-Logic-Reset from
// any state.
const ResetCycles = 5

// GoTo computes the minimal sequence of TMS values needed to reach the target
// state from the current state. It updates the machine as a side effect and
// returns the generated sequence.
func (m *StateMachine) GoTo(target State) (Sequence, error) {
	path, err := Path(m.state, target)
	if err != nil {
		return Sequence{}, err
	}
	for _, bit := range path.TMS {
		m.Clock(bit)
	}
	return path, nil
}

// Path uses BFS across the TAP state diagram to find the shortest set of
// transitions between two states. States[0] is always from.
func Path(from, to State) (Sequence, error) {
	if !from.Valid() {
		return Sequence{}, fmt.Errorf("tap: invalid start state %d", from)
	}
	if !to.Valid() {
		return Sequence{}, fmt.Errorf("tap: invalid target state %d", to)
	}
	if from == to {
		return Sequence{States: []State{from}}, nil
	}

	type node struct {
		state  State
		tms    []bool
		states []State
	}

	queue := []node{{
		state:  from,
		states: []State{from},
	}}
	var visited [stateCount]bool
	visited[from] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		// TMS=0 is tried first so ties prefer staying in the current column.
		for _, bit := range [2]bool{false, true} {
			next := NextState(current.state, bit)
			if visited[next] {
				continue
			}

			newTMS := append(append([]bool{}, current.tms...), bit)
			newStates := append(append([]State{}, current.states...), next)

			if next == to {
				return Sequence{
					TMS:    newTMS,
					States: newStates,
				}, nil
			}

			visited[next] = true
			queue = append(queue, node{
				state:  next,
				tms:    newTMS,
				states: newStates,
			})
		}
	}

	return Sequence{}, fmt.Errorf("tap: no path from %s to %s", from, to)
}
