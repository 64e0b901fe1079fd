// Package register models the serial shift registers behind a TAP controller:
// the instruction register and the data register currently selected by it.
//
// Bits are ordered LSB-first: index 0 sits next to TDO and leaves first, TDI
// enters at index Len()-1. A register has two parts: the stage, which captures
// and shifts, and the committed value, which Update latches from the stage and
// downstream logic reads.
package register

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// MaxLength bounds register length so values fit a uint64.
const MaxLength = 64

// Kind distinguishes the instruction path from the data path.
type Kind uint8

const (
	KindIR Kind = iota
	KindDR
)

func (k Kind) String() string {
	switch k {
	case KindIR:
		return "IR"
	case KindDR:
		return "DR"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// CaptureFunc supplies the parallel value loaded in the Capture state.
type CaptureFunc func() []bool

// Register is a single TAP shift register.
type Register struct {
	kind      Kind
	stage     []bool
	committed []bool
	reset     []bool
	capture   CaptureFunc
}

// New creates a register of the given kind and length. resetValue is what both
// stage and committed value hold after New and Reset. A nil capture source
// loads captureValue on every Capture.
func New(kind Kind, length int, resetValue, captureValue uint64, capture CaptureFunc) (*Register, error) {
	if length < 1 || length > MaxLength {
		return nil, fmt.Errorf("register: %s length %d out of range 1..%d", kind, length, MaxLength)
	}
	if !fits(resetValue, length) {
		return nil, fmt.Errorf("register: %s reset value %#x wider than %d bits", kind, resetValue, length)
	}
	if !fits(captureValue, length) {
		return nil, fmt.Errorf("register: %s capture value %#x wider than %d bits", kind, captureValue, length)
	}
	if capture == nil {
		fixed := FromUint(captureValue, length)
		capture = func() []bool { return fixed }
	}
	r := &Register{
		kind:      kind,
		stage:     make([]bool, length),
		committed: make([]bool, length),
		reset:     FromUint(resetValue, length),
		capture:   capture,
	}
	r.Reset()
	return r, nil
}

func fits(v uint64, length int) bool {
	return length >= MaxLength || v>>uint(length) == 0
}

// Kind reports whether this is the instruction or data register.
func (r *Register) Kind() Kind { return r.kind }

// Len returns the register length in bits.
func (r *Register) Len() int { return len(r.stage) }

// Bits returns a copy of the stage.
func (r *Register) Bits() []bool { return append([]bool(nil), r.stage...) }

// Committed returns a copy of the value latched by the last Update.
func (r *Register) Committed() []bool { return append([]bool(nil), r.committed...) }

// Value returns the stage as an integer, bit 0 = index 0.
func (r *Register) Value() uint64 { return ToUint(r.stage) }

// CommittedValue returns the committed value as an integer.
func (r *Register) CommittedValue() uint64 { return ToUint(r.committed) }

// Reset restores stage and committed value to the reset value.
func (r *Register) Reset() {
	copy(r.stage, r.reset)
	copy(r.committed, r.reset)
}

// OnEdge applies one clock edge. Only the Capture, Shift and Update lines have
// an effect; driven is true when a bit was shifted out as tdo.
func (r *Register) OnEdge(sig tap.Signals, tdi bool) (tdo bool, driven bool) {
	switch {
	case sig.Capture:
		r.load(r.capture())
	case sig.Shift:
		return r.shift(tdi), true
	case sig.Update:
		copy(r.committed, r.stage)
	}
	return false, false
}

// load copies a captured value into the stage. Short values are zero-extended
// and long ones truncated.
func (r *Register) load(bits []bool) {
	for i := range r.stage {
		r.stage[i] = i < len(bits) && bits[i]
	}
}

func (r *Register) shift(tdi bool) bool {
	out := r.stage[0]
	copy(r.stage, r.stage[1:])
	r.stage[len(r.stage)-1] = tdi
	return out
}

func (r *Register) String() string {
	return fmt.Sprintf("%s[%d] stage=%s committed=%s", r.kind, r.Len(), FormatBits(r.stage), FormatBits(r.committed))
}

// FromUint expands the low n bits of v, bit 0 first.
func FromUint(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n && i < 64; i++ {
		bits[i] = v&(1<<uint(i)) != 0
	}
	return bits
}

// ToUint packs up to 64 bits, index 0 as the least significant bit.
func ToUint(bits []bool) uint64 {
	var v uint64
	for i, bit := range bits {
		if i >= 64 {
			break
		}
		if bit {
			v |= 1 << uint(i)
		}
	}
	return v
}

// ParseBits parses a string of '0' and '1' in shift order: the first character
// is the first bit to enter (or leave) the register. Underscores and spaces are
// ignored as separators.
func ParseBits(s string) ([]bool, error) {
	var bits []bool
	for i, r := range s {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case '_', ' ':
		default:
			return nil, fmt.Errorf("register: invalid bit %q at offset %d", r, i)
		}
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("register: empty bit string")
	}
	return bits, nil
}

// FormatBits renders bits in shift order, the inverse of ParseBits.
func FormatBits(bits []bool) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
