package stimulus

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// Record is one clock edge as seen by the harness.
type Record struct {
	Index   int
	Section string
	Step    int // position within Section
	TMS     uint8
	TDI     uint8
	Pins    byte // (tms<<1)|tdi
	From    tap.State
	To      tap.State
	TDO     uint8
	Output  byte // uo_out
	Driven  bool
}

func (r Record) String() string {
	return fmt.Sprintf("[%s] Step %d: TMS=%d TDI=%d uo_out=%08b (%s -> %s)",
		r.Section, r.Step, r.TMS, r.TDI, r.Output, r.From, r.To)
}

// Trace is the ordered record of a run.
type Trace []Record

// States returns the state after each edge.
func (t Trace) States() []tap.State {
	out := make([]tap.State, len(t))
	for i, rec := range t {
		out[i] = rec.To
	}
	return out
}

// TDO returns the output bit of each edge.
func (t Trace) TDO() []uint8 {
	out := make([]uint8, len(t))
	for i, rec := range t {
		out[i] = rec.TDO
	}
	return out
}

// Section returns the records labelled name, in order.
func (t Trace) Section(name string) Trace {
	var out Trace
	for _, rec := range t {
		if rec.Section == name {
			out = append(out, rec)
		}
	}
	return out
}
