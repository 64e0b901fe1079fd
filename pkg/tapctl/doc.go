// Package tapctl composes the IEEE 1149.1 TAP state machine with its
// instruction and data shift registers into a clocked controller.
//
// # Edge semantics
//
// Each call to Step or Clock is one rising TCK edge:
//
//  1. the control signals of the current state are decoded,
//  2. the register selected by the current state (IR for the Select-IR-Scan
//     column, DR for the Select-DR-Scan column) captures, shifts or updates,
//  3. the state advances on TMS,
//  4. TDO is returned.
//
// TDO therefore reflects the action of the state the controller was in when
// the edge arrived, never the state it moves to. Select, Exit, Pause,
// Run-Test/Idle and Test-Logic-Reset leave both registers untouched and TDO
// follows Config.IdleTDO.
//
// # Usage
//
//	ctl, err := tapctl.New(tapctl.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	for _, pins := range [][2]uint8{{0, 0}, {1, 0}, {1, 0}, {0, 0}, {0, 0}} {
//		if _, err := ctl.Step(pins[0], pins[1]); err != nil {
//			return err
//		}
//	}
//	// ctl.State() == tap.StateShiftIR
//
// # Capture sources
//
// Config.CaptureIR and Config.CaptureDR replace the fixed capture values with
// functions. The DR source receives the committed instruction, which is where
// a caller plugs in IDCODE, BYPASS or user data registers without touching the
// state machine.
package tapctl
