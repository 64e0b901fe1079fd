package tap

import (
	"errors"
	"testing"
)

func TestNextStateTable(t *testing.T) {
	type transition struct {
		start State
		tms   bool
		end   State
	}

	cases := []transition{
		{StateTestLogicReset, false, StateRunTestIdle},
		{StateTestLogicReset, true, StateTestLogicReset},
		{StateRunTestIdle, false, StateRunTestIdle},
		{StateRunTestIdle, true, StateSelectDRScan},
		{StateSelectDRScan, false, StateCaptureDR},
		{StateSelectDRScan, true, StateSelectIRScan},
		{StateCaptureDR, false, StateShiftDR},
		{StateCaptureDR, true, StateExit1DR},
		{StateShiftDR, false, StateShiftDR},
		{StateShiftDR, true, StateExit1DR},
		{StateExit1DR, false, StatePauseDR},
		{StateExit1DR, true, StateUpdateDR},
		{StatePauseDR, false, StatePauseDR},
		{StatePauseDR, true, StateExit2DR},
		{StateExit2DR, false, StateShiftDR},
		{StateExit2DR, true, StateUpdateDR},
		{StateUpdateDR, false, StateRunTestIdle},
		{StateUpdateDR, true, StateSelectDRScan},
		{StateSelectIRScan, false, StateCaptureIR},
		{StateSelectIRScan, true, StateTestLogicReset},
		{StateCaptureIR, false, StateShiftIR},
		{StateCaptureIR, true, StateExit1IR},
		{StateShiftIR, false, StateShiftIR},
		{StateShiftIR, true, StateExit1IR},
		{StateExit1IR, false, StatePauseIR},
		{StateExit1IR, true, StateUpdateIR},
		{StatePauseIR, false, StatePauseIR},
		{StatePauseIR, true, StateExit2IR},
		{StateExit2IR, false, StateShiftIR},
		{StateExit2IR, true, StateUpdateIR},
		{StateUpdateIR, false, StateRunTestIdle},
		{StateUpdateIR, true, StateSelectDRScan},
	}

	if len(cases) != 2*len(States()) {
		t.Fatalf("table covers %d transitions, want %d", len(cases), 2*len(States()))
	}
	for _, tc := range cases {
		got := NextState(tc.start, tc.tms)
		if got != tc.end {
			t.Fatalf("NextState(%s, %v) = %s, want %s", tc.start, tc.tms, got, tc.end)
		}
	}
}

func TestNextStatePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("NextState did not panic for an invalid state")
		}
	}()
	NextState(State(42), false)
}

func TestFiveOnesReachResetFromEveryState(t *testing.T) {
	for _, start := range States() {
		m := &StateMachine{state: start}
		seq := m.Reset()
		if m.State() != StateTestLogicReset {
			t.Fatalf("from %s: state after reset = %s, want %s", start, m.State(), StateTestLogicReset)
		}
		if seq.States[0] != start {
			t.Fatalf("from %s: sequence starts at %s", start, seq.States[0])
		}
	}
}

func TestRunTestIdleIsStable(t *testing.T) {
	m := NewStateMachine()
	m.Clock(false)
	for i := 0; i < 100; i++ {
		if got := m.Clock(false); got != StateRunTestIdle {
			t.Fatalf("cycle %d: state = %s, want %s", i, got, StateRunTestIdle)
		}
	}
}

func TestStateMachineReset(t *testing.T) {
	m := NewStateMachine()
	// Move out of reset to ensure Reset() actually travels back.
	m.Clock(false) // -> Run-Test/Idle
	if m.State() != StateRunTestIdle {
		t.Fatalf("State() = %s, want %s", m.State(), StateRunTestIdle)
	}

	seq := m.Reset()

	if len(seq.TMS) != ResetCycles {
		t.Fatalf("Reset sequence length = %d, want %d", len(seq.TMS), ResetCycles)
	}
	if want := StateTestLogicReset; m.State() != want {
		t.Fatalf("State after reset = %s, want %s", m.State(), want)
	}
	if seq.States[len(seq.States)-1] != StateTestLogicReset {
		t.Fatalf("Final sequence state = %s, want %s", seq.States[len(seq.States)-1], StateTestLogicReset)
	}
}

func TestAsyncReset(t *testing.T) {
	m := NewStateMachine()
	if _, err := m.GoTo(StatePauseDR); err != nil {
		t.Fatalf("GoTo returned error: %v", err)
	}
	m.AsyncReset()
	if m.State() != StateTestLogicReset {
		t.Fatalf("State() = %s, want %s", m.State(), StateTestLogicReset)
	}
}

func TestGoToProducesExpectedPattern(t *testing.T) {
	m := NewStateMachine()
	// Move into Run-Test/Idle so GoTo has to traverse more than one edge.
	m.Clock(false)

	path, err := m.GoTo(StateShiftIR)
	if err != nil {
		t.Fatalf("GoTo returned error: %v", err)
	}

	wantBits := []bool{true, true, false, false}
	if len(path.TMS) != len(wantBits) {
		t.Fatalf("GoTo length = %d, want %d", len(path.TMS), len(wantBits))
	}
	for i, want := range wantBits {
		if path.TMS[i] != want {
			t.Fatalf("path bit %d = %v, want %v", i, path.TMS[i], want)
		}
	}
	if m.State() != StateShiftIR {
		t.Fatalf("State() = %s, want %s", m.State(), StateShiftIR)
	}

	// Go back to Run-Test/Idle to ensure BFS works from IR path.
	if _, err := m.GoTo(StateRunTestIdle); err != nil {
		t.Fatalf("GoTo RunTestIdle returned error: %v", err)
	}
	if m.State() != StateRunTestIdle {
		t.Fatalf("State() = %s, want %s", m.State(), StateRunTestIdle)
	}
}

func TestPathReachesEveryState(t *testing.T) {
	for _, from := range States() {
		for _, to := range States() {
			seq, err := Path(from, to)
			if err != nil {
				t.Fatalf("Path(%s, %s) returned error: %v", from, to, err)
			}
			if len(seq.States) != len(seq.TMS)+1 {
				t.Fatalf("Path(%s, %s): %d states for %d bits", from, to, len(seq.States), len(seq.TMS))
			}
			state := from
			for _, bit := range seq.TMS {
				state = NextState(state, bit)
			}
			if state != to {
				t.Fatalf("Path(%s, %s) ends in %s", from, to, state)
			}
		}
	}
}

func TestPathRejectsInvalidStates(t *testing.T) {
	if _, err := Path(State(99), StateRunTestIdle); err == nil {
		t.Fatalf("expected error for invalid start state")
	}
	if _, err := Path(StateRunTestIdle, State(99)); err == nil {
		t.Fatalf("expected error for invalid target state")
	}
}

func TestParseState(t *testing.T) {
	cases := map[string]State{
		"ShiftIR":          StateShiftIR,
		"shiftir":          StateShiftIR,
		"shift_ir":         StateShiftIR,
		"exit_1_dr":        StateExit1DR,
		"test_logic_reset": StateTestLogicReset,
		"run_idle":         StateRunTestIdle,
		"select_dr_scan":   StateSelectDRScan,
		"Update-IR":        StateUpdateIR,
	}
	for name, want := range cases {
		got, err := ParseState(name)
		if err != nil {
			t.Fatalf("ParseState(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseState(%q) = %s, want %s", name, got, want)
		}
	}
	for _, s := range States() {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseState(%q) = %s, %v", s.String(), got, err)
		}
	}
	if _, err := ParseState("ShiftXR"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestStateString(t *testing.T) {
	if got := StateExit2DR.String(); got != "Exit2DR" {
		t.Fatalf("String() = %q, want Exit2DR", got)
	}
	if got := State(20).String(); got != "State(20)" {
		t.Fatalf("String() = %q, want State(20)", got)
	}
}

func TestBit(t *testing.T) {
	for v, want := range map[uint8]bool{0: false, 1: true} {
		got, err := Bit(v)
		if err != nil {
			t.Fatalf("Bit(%d) returned error: %v", v, err)
		}
		if got != want {
			t.Fatalf("Bit(%d) = %v, want %v", v, got, want)
		}
		if BitValue(got) != v {
			t.Fatalf("BitValue(%v) = %d, want %d", got, BitValue(got), v)
		}
	}
	for _, v := range []uint8{2, 3, 0xFF} {
		if _, err := Bit(v); !errors.Is(err, ErrInvalidSignal) {
			t.Fatalf("Bit(%d) error = %v, want ErrInvalidSignal", v, err)
		}
	}
}
