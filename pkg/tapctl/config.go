package tapctl

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
)

// TDOMode selects what TDO reports on edges that do not shift.
type TDOMode uint8

const (
	// TDOLow reports 0 whenever no bit is shifted out.
	TDOLow TDOMode = iota
	// TDOHold keeps reporting the last bit that was shifted out.
	TDOHold
)

func (m TDOMode) String() string {
	switch m {
	case TDOLow:
		return "low"
	case TDOHold:
		return "hold"
	}
	return fmt.Sprintf("TDOMode(%d)", m)
}

// Config controls the registers behind the controller and its reset policy.
type Config struct {
	// Register geometry
	IRLength int // Instruction register length in bits (default: 2)
	DRLength int // Data register length in bits (default: 1, bypass-like)

	// Parallel values loaded in Capture-IR / Capture-DR. IEEE 1149.1 requires
	// the two low IR capture bits to read 01.
	IRCapture uint64 // default: 0b01
	DRCapture uint64 // default: 0

	// Values held after an asynchronous reset.
	IRReset uint64
	DRReset uint64

	// Optional capture sources overriding IRCapture / DRCapture. CaptureDR
	// receives the committed instruction so callers can decode it.
	CaptureIR func() []bool
	CaptureDR func(instruction []bool) []bool

	IdleTDO TDOMode // TDO on non-shift edges (default: TDOLow)

	// RequireReset rejects capture and update edges until the controller has
	// seen a reset, either Reset() or an edge landing in Test-Logic-Reset.
	RequireReset bool
}

// DefaultConfig returns a Config for a minimal two-bit IR, one-bit DR TAP.
func DefaultConfig() *Config {
	return &Config{
		IRLength:  2,
		DRLength:  1,
		IRCapture: 0b01,
		DRCapture: 0,
		IdleTDO:   TDOLow,
	}
}

// Validate checks register geometry, value widths and the TDO mode.
func (c *Config) Validate() error {
	if c.IRLength < 1 || c.IRLength > register.MaxLength {
		return fmt.Errorf("tapctl: IR length %d out of range 1..%d", c.IRLength, register.MaxLength)
	}
	if c.DRLength < 1 || c.DRLength > register.MaxLength {
		return fmt.Errorf("tapctl: DR length %d out of range 1..%d", c.DRLength, register.MaxLength)
	}
	checks := []struct {
		name   string
		value  uint64
		length int
	}{
		{"IR capture", c.IRCapture, c.IRLength},
		{"IR reset", c.IRReset, c.IRLength},
		{"DR capture", c.DRCapture, c.DRLength},
		{"DR reset", c.DRReset, c.DRLength},
	}
	for _, chk := range checks {
		if chk.length < 64 && chk.value>>uint(chk.length) != 0 {
			return fmt.Errorf("tapctl: %s value %#x wider than %d bits", chk.name, chk.value, chk.length)
		}
	}
	switch c.IdleTDO {
	case TDOLow, TDOHold:
	default:
		return fmt.Errorf("tapctl: unknown idle TDO mode %d", c.IdleTDO)
	}
	return nil
}
