package stimulus

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tapctl"
)

// DefaultSection labels records produced before the first section command.
const DefaultSection = "main"

// ErrExpectation is matched by every *ExpectationError.
var ErrExpectation = errors.New("stimulus: expectation failed")

// ExpectationError reports a script assertion that did not hold.
type ExpectationError struct {
	Pos   lexer.Position
	Index int // record index in the trace
	What  string
	Got   string
	Want  string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("stimulus: %s: record %d: %s = %s, want %s", e.Pos, e.Index, e.What, e.Got, e.Want)
}

func (e *ExpectationError) Unwrap() error { return ErrExpectation }

// Option configures a Runner.
type Option func(*Runner)

// WithLog writes every record to w as it is produced.
func WithLog(w io.Writer) Option {
	return func(r *Runner) { r.log = w }
}

// Runner replays scripts against a controller.
type Runner struct {
	ctl *tapctl.Controller
	log io.Writer

	section string
	step    int
	trace   Trace
}

// NewRunner binds a runner to ctl. The controller keeps its state between
// runs, so scripts can be replayed back to back.
func NewRunner(ctl *tapctl.Controller, opts ...Option) *Runner {
	r := &Runner{ctl: ctl}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Controller returns the controller driven by the runner.
func (r *Runner) Controller() *tapctl.Controller { return r.ctl }

// Run executes every command in order. On failure the records produced so
// far are returned together with the error.
func (r *Runner) Run(script *Script) (Trace, error) {
	r.section = DefaultSection
	r.step = 0
	r.trace = nil

	for _, cmd := range script.Commands {
		if err := r.exec(cmd); err != nil {
			var expErr *ExpectationError
			if errors.As(err, &expErr) {
				return r.trace, err
			}
			return r.trace, fmt.Errorf("stimulus: %s: %s: %w", cmd.Pos, cmd.Kind(), err)
		}
	}
	return r.trace, nil
}

func (r *Runner) exec(cmd *Command) error {
	switch {
	case cmd.Reset:
		r.ctl.Reset()
	case cmd.TLR:
		for i := 0; i < tap.ResetCycles; i++ {
			if _, err := r.edge(1, 0); err != nil {
				return err
			}
		}
	case cmd.Section != nil:
		r.section = *cmd.Section
		r.step = 0
	case cmd.Cycle != nil:
		if cmd.Cycle.TMS < 0 || cmd.Cycle.TMS > 0xFF || cmd.Cycle.TDI < 0 || cmd.Cycle.TDI > 0xFF {
			return fmt.Errorf("pin value out of range: %w", tap.ErrInvalidSignal)
		}
		rec, err := r.edge(uint8(cmd.Cycle.TMS), uint8(cmd.Cycle.TDI))
		if err != nil {
			return err
		}
		return r.check(cmd.Pos, rec, cmd.Cycle.Expect, cmd.Cycle.TDO)
	case cmd.Pins != nil:
		if cmd.Pins.Value < 0 || cmd.Pins.Value > 0xFF {
			return fmt.Errorf("pin byte %d out of range: %w", cmd.Pins.Value, tap.ErrInvalidSignal)
		}
		tms, tdi, err := UnpackPins(byte(cmd.Pins.Value))
		if err != nil {
			return err
		}
		rec, err := r.edge(tms, tdi)
		if err != nil {
			return err
		}
		return r.check(cmd.Pos, rec, cmd.Pins.Expect, cmd.Pins.TDO)
	case cmd.Idle != nil:
		for i := 0; i < *cmd.Idle; i++ {
			if _, err := r.edge(0, 0); err != nil {
				return err
			}
		}
	case cmd.Goto != nil:
		target, err := tap.ParseState(*cmd.Goto)
		if err != nil {
			return err
		}
		path, err := tap.Path(r.ctl.State(), target)
		if err != nil {
			return err
		}
		for _, bit := range path.TMS {
			if _, err := r.edge(tap.BitValue(bit), 0); err != nil {
				return err
			}
		}
	case cmd.Shift != nil:
		return r.shift(cmd.Pos, cmd.Shift)
	default:
		return fmt.Errorf("empty command")
	}
	return nil
}

func (r *Runner) shift(pos lexer.Position, s *Shift) error {
	if state := r.ctl.State(); !state.Signals().Shift {
		return fmt.Errorf("not in a shift state (in %s)", state)
	}
	bits, err := register.ParseBits(s.Bits)
	if err != nil {
		return err
	}
	first := len(r.trace)
	out := make([]bool, len(bits))
	for i, bit := range bits {
		rec, err := r.edge(tap.BitValue(i == len(bits)-1), tap.BitValue(bit))
		if err != nil {
			return err
		}
		out[i] = rec.TDO == 1
	}
	if s.TDO == nil {
		return nil
	}
	want, err := register.ParseBits(*s.TDO)
	if err != nil {
		return err
	}
	if got, exp := register.FormatBits(out), register.FormatBits(want); got != exp {
		return &ExpectationError{Pos: pos, Index: first, What: "tdo", Got: got, Want: exp}
	}
	return nil
}

func (r *Runner) check(pos lexer.Position, rec Record, expect *string, tdo *int) error {
	if expect != nil {
		want, err := tap.ParseState(*expect)
		if err != nil {
			return err
		}
		if rec.To != want {
			return &ExpectationError{Pos: pos, Index: rec.Index, What: "state", Got: rec.To.String(), Want: want.String()}
		}
	}
	if tdo != nil && int(rec.TDO) != *tdo {
		return &ExpectationError{Pos: pos, Index: rec.Index, What: "tdo", Got: fmt.Sprint(rec.TDO), Want: fmt.Sprint(*tdo)}
	}
	return nil
}

// edge clocks the controller once and appends the record.
func (r *Runner) edge(tms, tdi uint8) (Record, error) {
	from := r.ctl.State()
	tdo, err := r.ctl.Step(tms, tdi)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		Index:   len(r.trace),
		Section: r.section,
		Step:    r.step,
		TMS:     tms,
		TDI:     tdi,
		Pins:    PackPins(tms, tdi),
		From:    from,
		To:      r.ctl.State(),
		TDO:     tdo,
		Output:  PackOutput(tdo),
		Driven:  r.ctl.LastEdge().Driven,
	}
	r.step++
	r.trace = append(r.trace, rec)
	if r.log != nil {
		fmt.Fprintln(r.log, rec)
	}
	return rec, nil
}
