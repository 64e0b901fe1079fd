package tap

import "strings"

// Signals is the set of control lines a TAP controller decodes from its
// current state. It is a pure function of State and is never stored.
type Signals struct {
	Reset    bool // Test-Logic-Reset
	Idle     bool // Run-Test/Idle
	SelectIR bool // state is in the IR column, Select-IR-Scan included
	SelectDR bool // state is in the DR column, Select-DR-Scan included
	Capture  bool
	Shift    bool
	Exit1    bool
	Exit2    bool
	Pause    bool
	Update   bool
}

// Signals decodes the control lines for s.
func (s State) Signals() Signals {
	sig := Signals{
		SelectIR: s.IsIR(),
		SelectDR: s.IsDR(),
	}
	switch s {
	case StateTestLogicReset:
		sig.Reset = true
	case StateRunTestIdle:
		sig.Idle = true
	case StateCaptureDR, StateCaptureIR:
		sig.Capture = true
	case StateShiftDR, StateShiftIR:
		sig.Shift = true
	case StateExit1DR, StateExit1IR:
		sig.Exit1 = true
	case StateExit2DR, StateExit2IR:
		sig.Exit2 = true
	case StatePauseDR, StatePauseIR:
		sig.Pause = true
	case StateUpdateDR, StateUpdateIR:
		sig.Update = true
	}
	return sig
}

// Active reports whether the signals ask a register to act on this edge.
func (s Signals) Active() bool {
	return s.Capture || s.Shift || s.Update
}

func (s Signals) String() string {
	var names []string
	add := func(on bool, name string) {
		if on {
			names = append(names, name)
		}
	}
	add(s.Reset, "reset")
	add(s.Idle, "idle")
	add(s.SelectIR, "select-ir")
	add(s.SelectDR, "select-dr")
	add(s.Capture, "capture")
	add(s.Shift, "shift")
	add(s.Exit1, "exit1")
	add(s.Exit2, "exit2")
	add(s.Pause, "pause")
	add(s.Update, "update")
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
