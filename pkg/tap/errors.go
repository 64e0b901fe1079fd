package tap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignal reports a TMS/TDI value that is not a single bit.
	ErrInvalidSignal = errors.New("tap: invalid signal")
	// ErrResetRequired reports a capture or update attempted before the
	// controller has been reset.
	ErrResetRequired = errors.New("tap: reset required")
)

// Bit converts a wire value into a bit. Anything other than 0 or 1 is a
// contract violation.
func Bit(v uint8) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: %d is not a bit", ErrInvalidSignal, v)
}

// BitValue is the inverse of Bit.
func BitValue(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
