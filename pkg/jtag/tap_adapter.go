package jtag

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tapctl"
)

// ShiftOp captures the last shift invocation for inspection within tests.
type ShiftOp struct {
	Region ShiftRegion
	TMS    []byte
	TDI    []byte
	TDO    []byte
	Bits   int
}

// TAPAdapter is an in-memory adapter whose target is a single simulated TAP
// controller. Every shifted bit is one clock edge on the controller.
type TAPAdapter struct {
	InfoData AdapterInfo
	SpeedHz  int

	ctl       *tapctl.Controller
	lastShift ShiftOp
	resets    int
	hardReset int
}

// NewTAPAdapter wires an adapter to ctl. An empty info name is replaced with a
// descriptive default.
func NewTAPAdapter(ctl *tapctl.Controller, info AdapterInfo) *TAPAdapter {
	if info.Name == "" {
		info.Name = "TAP simulator"
	}
	info.SupportsTRST = true
	return &TAPAdapter{InfoData: info, ctl: ctl}
}

// Controller exposes the simulated target for inspection.
func (a *TAPAdapter) Controller() *tapctl.Controller {
	return a.ctl
}

// LastShift returns a copy of the most recent shift request.
func (a *TAPAdapter) LastShift() ShiftOp {
	return ShiftOp{
		Region: a.lastShift.Region,
		TMS:    append([]byte(nil), a.lastShift.TMS...),
		TDI:    append([]byte(nil), a.lastShift.TDI...),
		TDO:    append([]byte(nil), a.lastShift.TDO...),
		Bits:   a.lastShift.Bits,
	}
}

// ResetCounts reports how many resets have been requested (soft as total,
// hardReset as subset).
func (a *TAPAdapter) ResetCounts() (soft, hard int) {
	return a.resets, a.hardReset
}

func (a *TAPAdapter) Info() (AdapterInfo, error) {
	return a.InfoData, nil
}

func (a *TAPAdapter) ShiftIR(tms, tdi []byte, bits int) ([]byte, error) {
	return a.shift(ShiftRegionIR, tms, tdi, bits)
}

func (a *TAPAdapter) ShiftDR(tms, tdi []byte, bits int) ([]byte, error) {
	return a.shift(ShiftRegionDR, tms, tdi, bits)
}

// ResetTAP asserts TRST when hard is set and otherwise clocks five TMS=1
// edges.
func (a *TAPAdapter) ResetTAP(hard bool) error {
	a.resets++
	if hard {
		a.hardReset++
		a.ctl.Reset()
		return nil
	}
	for i := 0; i < tap.ResetCycles; i++ {
		if _, err := a.ctl.Clock(true, false); err != nil {
			return fmt.Errorf("jtag: soft reset: %w", err)
		}
	}
	return nil
}

func (a *TAPAdapter) SetSpeed(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("jtag: invalid speed %dHz", hz)
	}
	a.SpeedHz = hz
	return nil
}

func (a *TAPAdapter) shift(region ShiftRegion, tms, tdi []byte, bits int) ([]byte, error) {
	required, err := ValidateShiftBuffers(tms, tdi, bits)
	if err != nil {
		return nil, err
	}

	tdo := make([]byte, required)
	for i := 0; i < bits; i++ {
		out, err := a.ctl.Clock(bitAt(tms, i), bitAt(tdi, i))
		if err != nil {
			return nil, fmt.Errorf("jtag: %s shift bit %d: %w", region, i, err)
		}
		if out {
			tdo[i/8] |= 1 << (uint(i) % 8)
		}
	}

	a.lastShift = ShiftOp{
		Region: region,
		TMS:    append([]byte(nil), tms...),
		TDI:    append([]byte(nil), tdi...),
		TDO:    append([]byte(nil), tdo...),
		Bits:   bits,
	}
	return tdo, nil
}
