package stimulus

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/tap"
)

// PackPins builds the harness input byte: TMS on bit 1, TDI on bit 0.
func PackPins(tms, tdi uint8) byte {
	return (tms&1)<<1 | tdi&1
}

// UnpackPins splits a harness input byte. Bits above bit 1 are not wired to
// the TAP and are rejected.
func UnpackPins(b byte) (tms, tdi uint8, err error) {
	if b&^0x03 != 0 {
		return 0, 0, fmt.Errorf("stimulus: pin byte %#02x: %w", b, tap.ErrInvalidSignal)
	}
	return b >> 1 & 1, b & 1, nil
}

// PackOutput builds the harness output byte: TDO on bit 0.
func PackOutput(tdo uint8) byte {
	return tdo & 1
}
