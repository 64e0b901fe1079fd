// Package scan drives a JTAG adapter through IR and DR scans while tracking
// the target's TAP state locally.
package scan

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/jtag"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// Scanner turns register-level scans into TMS/TDI streams for an adapter.
// Its local state machine mirrors the target, so every edge must go through
// the Scanner once it is in use.
type Scanner struct {
	adapter jtag.Adapter
	tap     *tap.StateMachine
}

// NewScanner wires a scanner to adapter. Call Reset before the first scan so
// the mirrored state matches the target.
func NewScanner(adapter jtag.Adapter) *Scanner {
	return &Scanner{adapter: adapter, tap: tap.NewStateMachine()}
}

// State reports the TAP state the scanner believes the target is in.
func (s *Scanner) State() tap.State {
	return s.tap.State()
}

// Reset asserts TRST when the adapter supports it and then clocks five TMS=1
// edges, which reaches Test-Logic-Reset either way.
func (s *Scanner) Reset() error {
	if err := s.adapter.ResetTAP(true); err != nil && !errors.Is(err, jtag.ErrNotImplemented) {
		return fmt.Errorf("scan: reset: %w", err)
	}
	s.tap.AsyncReset()
	seq := s.tap.Reset()
	return s.applySequence(seq, jtag.ShiftRegionDR)
}

// GoTo moves the target along the shortest path to target.
func (s *Scanner) GoTo(target tap.State) error {
	seq, err := s.tap.GoTo(target)
	if err != nil {
		return err
	}
	if len(seq.TMS) == 0 {
		return nil
	}
	return s.applySequence(seq, regionFromState(seq.States[0]))
}

// Idle parks the target in Run-Test/Idle and clocks cycles extra edges there.
func (s *Scanner) Idle(cycles int) error {
	if cycles < 0 {
		return fmt.Errorf("scan: negative idle count %d", cycles)
	}
	if err := s.GoTo(tap.StateRunTestIdle); err != nil {
		return err
	}
	if cycles == 0 {
		return nil
	}
	tms := make([]bool, cycles)
	for range tms {
		s.tap.Clock(false)
	}
	_, err := s.dispatch(jtag.ShiftRegionDR, tms, nil)
	return err
}

// ScanIR shifts tdi through the instruction register and returns the bits
// shifted out, i.e. the captured IR value, first bit first. The scan ends in
// Run-Test/Idle with the new instruction committed.
func (s *Scanner) ScanIR(tdi []bool) ([]bool, error) {
	return s.scan(jtag.ShiftRegionIR, tap.StateShiftIR, tdi)
}

// ScanDR is ScanIR for the data register.
func (s *Scanner) ScanDR(tdi []bool) ([]bool, error) {
	return s.scan(jtag.ShiftRegionDR, tap.StateShiftDR, tdi)
}

func (s *Scanner) scan(region jtag.ShiftRegion, shiftState tap.State, tdi []bool) ([]bool, error) {
	if len(tdi) == 0 {
		return nil, fmt.Errorf("scan: empty %s scan", region)
	}
	if err := s.GoTo(shiftState); err != nil {
		return nil, err
	}

	tms := make([]bool, len(tdi))
	tms[len(tms)-1] = true // exit Shift after the final bit
	for _, bit := range tms {
		s.tap.Clock(bit)
	}
	tdo, err := s.dispatch(region, tms, tdi)
	if err != nil {
		return nil, err
	}

	if err := s.GoTo(tap.StateRunTestIdle); err != nil {
		return nil, err
	}
	return jtag.UnpackBits(tdo, len(tdi)), nil
}

func (s *Scanner) applySequence(seq tap.Sequence, region jtag.ShiftRegion) error {
	if len(seq.TMS) == 0 {
		return nil
	}
	_, err := s.dispatch(region, seq.TMS, nil)
	return err
}

func (s *Scanner) dispatch(region jtag.ShiftRegion, tms, tdi []bool) ([]byte, error) {
	if len(tms) == 0 {
		return nil, nil
	}
	bits := len(tms)
	tmsBytes := jtag.PackBits(tms)
	tdiBytes := jtag.PackBits(tdi)
	if tdiBytes == nil {
		tdiBytes = make([]byte, len(tmsBytes))
	}
	switch region {
	case jtag.ShiftRegionIR:
		return s.adapter.ShiftIR(tmsBytes, tdiBytes, bits)
	default:
		return s.adapter.ShiftDR(tmsBytes, tdiBytes, bits)
	}
}

func regionFromState(state tap.State) jtag.ShiftRegion {
	if state.IsIR() {
		return jtag.ShiftRegionIR
	}
	return jtag.ShiftRegionDR
}
