package tapctl

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// Edge records what happened on one clock edge.
type Edge struct {
	Cycle   uint64      // 1-based edge count since New
	From    tap.State   // state during the edge
	To      tap.State   // state after the edge
	Signals tap.Signals // control lines decoded from From
	TMS     bool
	TDI     bool
	TDO     bool
	Driven  bool // TDO carries a bit shifted out on this edge
}

// Controller is a single TAP: the IEEE 1149.1 state machine plus its
// instruction and data registers. It is not safe for concurrent use; callers
// serialize Step.
type Controller struct {
	cfg Config
	fsm *tap.StateMachine
	ir  *register.Register
	dr  *register.Register

	tdo       bool
	cycles    uint64
	resetSeen bool
	last      Edge
}

// New builds a controller in Test-Logic-Reset with both registers at their
// reset values. A nil cfg means DefaultConfig().
func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       *cfg,
		fsm:       tap.NewStateMachine(),
		resetSeen: !cfg.RequireReset,
	}

	ir, err := register.New(register.KindIR, cfg.IRLength, cfg.IRReset, cfg.IRCapture, cfg.CaptureIR)
	if err != nil {
		return nil, fmt.Errorf("tapctl: %w", err)
	}

	var drCapture register.CaptureFunc
	if source := cfg.CaptureDR; source != nil {
		drCapture = func() []bool { return source(ir.Committed()) }
	}
	dr, err := register.New(register.KindDR, cfg.DRLength, cfg.DRReset, cfg.DRCapture, drCapture)
	if err != nil {
		return nil, fmt.Errorf("tapctl: %w", err)
	}

	c.ir = ir
	c.dr = dr
	return c, nil
}

// Step clocks one edge with wire-level pin values. Values other than 0 or 1
// are rejected with tap.ErrInvalidSignal before anything changes.
func (c *Controller) Step(tms, tdi uint8) (uint8, error) {
	tmsBit, err := tap.Bit(tms)
	if err != nil {
		return 0, fmt.Errorf("tapctl: tms: %w", err)
	}
	tdiBit, err := tap.Bit(tdi)
	if err != nil {
		return 0, fmt.Errorf("tapctl: tdi: %w", err)
	}
	tdo, err := c.Clock(tmsBit, tdiBit)
	if err != nil {
		return 0, err
	}
	return tap.BitValue(tdo), nil
}

// Clock applies one edge: the register selected by the current state acts on
// TDI, then the state advances on TMS. The returned TDO reflects the register
// before the transition.
func (c *Controller) Clock(tms, tdi bool) (bool, error) {
	from := c.fsm.State()
	sig := from.Signals()

	if !c.resetSeen && (sig.Capture || sig.Update) {
		return false, fmt.Errorf("tapctl: %s before reset: %w", from, tap.ErrResetRequired)
	}

	var (
		tdo    bool
		driven bool
	)
	if reg := c.selected(sig); reg != nil {
		tdo, driven = reg.OnEdge(sig, tdi)
	}
	if driven {
		c.tdo = tdo
	} else if c.cfg.IdleTDO == TDOHold {
		tdo = c.tdo
	}

	to := c.fsm.Clock(tms)
	if to == tap.StateTestLogicReset {
		c.resetSeen = true
	}

	c.cycles++
	c.last = Edge{
		Cycle:   c.cycles,
		From:    from,
		To:      to,
		Signals: sig,
		TMS:     tms,
		TDI:     tdi,
		TDO:     tdo,
		Driven:  driven,
	}
	return tdo, nil
}

func (c *Controller) selected(sig tap.Signals) *register.Register {
	switch {
	case sig.SelectIR:
		return c.ir
	case sig.SelectDR:
		return c.dr
	}
	return nil
}

// Reset is the asynchronous reset: Test-Logic-Reset immediately, registers back
// to their reset values, TDO low. The edge counter keeps running.
func (c *Controller) Reset() {
	c.fsm.AsyncReset()
	c.ir.Reset()
	c.dr.Reset()
	c.tdo = false
	c.resetSeen = true
}

// State returns the current TAP state.
func (c *Controller) State() tap.State { return c.fsm.State() }

// Signals returns the control lines of the current state.
func (c *Controller) Signals() tap.Signals { return c.fsm.State().Signals() }

// Instruction returns the committed instruction.
func (c *Controller) Instruction() []bool { return c.ir.Committed() }

// Data returns the committed data register value.
func (c *Controller) Data() []bool { return c.dr.Committed() }

// InstructionRegister returns a copy of the IR stage.
func (c *Controller) InstructionRegister() []bool { return c.ir.Bits() }

// DataRegister returns a copy of the DR stage.
func (c *Controller) DataRegister() []bool { return c.dr.Bits() }

// LastEdge describes the most recent edge; the zero Edge before the first one.
func (c *Controller) LastEdge() Edge { return c.last }

// Cycles returns the number of edges clocked since New.
func (c *Controller) Cycles() uint64 { return c.cycles }

// Config returns a copy of the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }
