package stimulus

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tapctl"
)

func newRunner(t *testing.T, cfg *tapctl.Config, opts ...Option) *Runner {
	t.Helper()
	ctl, err := tapctl.New(cfg)
	require.NoError(t, err)
	return NewRunner(ctl, opts...)
}

func TestTestbenchReplay(t *testing.T) {
	script, err := Testbench()
	require.NoError(t, err)

	r := newRunner(t, nil)
	trace, err := r.Run(script)
	require.NoError(t, err)
	require.Len(t, trace, 12+5+9+5)

	ir := trace.Section("IR seq")
	require.Len(t, ir, 12)
	assert.Equal(t, []uint8{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0}, ir.TDO())
	assert.Equal(t, tap.StateShiftIR, ir[len(ir)-1].To)

	// TMS stays low, so the idle stretch keeps shifting the IR.
	idle := trace.Section("Run idle")
	require.Len(t, idle, 5)
	for _, rec := range idle {
		assert.Equal(t, tap.StateShiftIR, rec.To)
		assert.True(t, rec.Driven)
	}
	assert.Equal(t, []uint8{0, 1, 0, 0, 0}, idle.TDO())

	dr := trace.Section("DR seq")
	assert.Equal(t, []tap.State{
		tap.StateExit1IR,
		tap.StatePauseIR,
		tap.StatePauseIR,
		tap.StatePauseIR,
		tap.StatePauseIR,
		tap.StateExit2IR,
		tap.StateShiftIR,
		tap.StateExit1IR,
		tap.StatePauseIR,
	}, dr.States())

	final := trace.Section("Final idle")
	require.Len(t, final, 5)
	for i, rec := range final {
		assert.Equal(t, i, rec.Step)
		assert.Equal(t, tap.StatePauseIR, rec.To)
		assert.Equal(t, uint8(0), rec.TDO)
	}

	// The instruction was never updated.
	assert.Equal(t, []bool{false, false}, r.Controller().Instruction())
	assert.Equal(t, uint64(31), r.Controller().Cycles())
}

func TestRunGotoAndShift(t *testing.T) {
	r := newRunner(t, nil)
	trace, err := r.Run(parse(t, `
reset
goto ShiftIR
shift "11" tdo "10"
goto RunTestIdle
`))
	require.NoError(t, err)
	require.Len(t, trace, 5+2+2)
	assert.Equal(t, tap.StateRunTestIdle, r.Controller().State())
	assert.Equal(t, []bool{true, true}, r.Controller().Instruction())

	for i, rec := range trace {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, DefaultSection, rec.Section)
		assert.Equal(t, PackPins(rec.TMS, rec.TDI), rec.Pins)
	}
}

func TestRunChecksExpectations(t *testing.T) {
	r := newRunner(t, nil)
	trace, err := r.Run(parse(t, `
reset
cycle 0 0 expect RunTestIdle tdo 0
pins 0x02 expect SelectDRScan
cycle 0 0 expect ShiftDR
cycle 0 0
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpectation)
	require.Len(t, trace, 3)

	var expErr *ExpectationError
	require.True(t, errors.As(err, &expErr))
	assert.Equal(t, 2, expErr.Index)
	assert.Equal(t, "state", expErr.What)
	assert.Equal(t, "CaptureDR", expErr.Got)
	assert.Equal(t, "ShiftDR", expErr.Want)
	assert.Equal(t, 5, expErr.Pos.Line)
}

func TestRunChecksShiftOutput(t *testing.T) {
	r := newRunner(t, nil)
	_, err := r.Run(parse(t, `goto ShiftIR; shift "00" tdo "01"`))
	var expErr *ExpectationError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "tdo", expErr.What)
	assert.Equal(t, "10", expErr.Got)
	assert.Equal(t, "01", expErr.Want)
	assert.Equal(t, 5, expErr.Index)
}

func TestRunShiftOutsideShiftState(t *testing.T) {
	r := newRunner(t, nil)
	trace, err := r.Run(parse(t, `idle 1; shift "1"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in a shift state (in RunTestIdle)")
	assert.Len(t, trace, 1)
}

func TestRunRejectsInvalidPins(t *testing.T) {
	for _, src := range []string{"cycle 2 0", "cycle 0 7", "pins 4", "pins 0xff"} {
		r := newRunner(t, nil)
		trace, err := r.Run(parse(t, src))
		assert.ErrorIs(t, err, tap.ErrInvalidSignal, src)
		assert.Empty(t, trace, src)
		assert.Equal(t, tap.StateTestLogicReset, r.Controller().State(), src)
	}
}

func TestRunRequireReset(t *testing.T) {
	cfg := tapctl.DefaultConfig()
	cfg.RequireReset = true

	r := newRunner(t, cfg)
	trace, err := r.Run(parse(t, "idle 1; goto ShiftDR"))
	assert.ErrorIs(t, err, tap.ErrResetRequired)
	assert.Equal(t, tap.StateCaptureDR, r.Controller().State())
	assert.Len(t, trace, 3)

	r = newRunner(t, cfg)
	_, err = r.Run(parse(t, "reset; goto ShiftDR"))
	assert.NoError(t, err)

	r = newRunner(t, cfg)
	_, err = r.Run(parse(t, "idle 1; tlr; goto ShiftDR"))
	assert.NoError(t, err)
}

func TestRunLogsRecords(t *testing.T) {
	var buf bytes.Buffer
	r := newRunner(t, nil, WithLog(&buf))
	_, err := r.Run(parse(t, `reset; section "IR seq"; cycle 1 0; cycle 0 1`))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[IR seq] Step 0: TMS=1 TDI=0 uo_out=00000000 (TestLogicReset -> TestLogicReset)",
		"[IR seq] Step 1: TMS=0 TDI=1 uo_out=00000000 (TestLogicReset -> RunTestIdle)",
	}, lines)
}

func TestRunKeepsControllerBetweenRuns(t *testing.T) {
	r := newRunner(t, nil)
	_, err := r.Run(parse(t, "goto PauseDR"))
	require.NoError(t, err)

	trace, err := r.Run(parse(t, "cycle 1 0 expect Exit2DR"))
	require.NoError(t, err)
	require.Len(t, trace, 1)
	assert.Equal(t, 0, trace[0].Index)
	assert.Equal(t, tap.StatePauseDR, trace[0].From)
}

func TestRecordString(t *testing.T) {
	rec := Record{
		Section: "IR seq",
		Step:    7,
		From:    tap.StateShiftIR,
		To:      tap.StateShiftIR,
		TDO:     1,
		Output:  PackOutput(1),
	}
	assert.Equal(t, "[IR seq] Step 7: TMS=0 TDI=0 uo_out=00000001 (ShiftIR -> ShiftIR)", rec.String())
}

func TestTestbenchSourceParses(t *testing.T) {
	assert.Contains(t, TestbenchSource(), `section "DR seq"`)
	script, err := Testbench()
	require.NoError(t, err)
	assert.Equal(t, "reset", script.Commands[0].Kind())
}
