// Package idcode decodes 32-bit IEEE 1149.1 IDCODE values read out of a data
// register.
package idcode

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
)

// Length is the width of an IDCODE register.
const Length = 32

// IDCode is a decoded IDCODE.
type IDCode struct {
	Raw              uint32
	Version          uint8  // [31:28]
	PartNumber       uint16 // [27:12]
	ManufacturerCode uint16 // [11:1] JEP106
}

// Manufacturer is a JEP106 entry.
type Manufacturer struct {
	Code uint16
	Name string
}

// Parse splits raw into its fields. Bit 0 is the mandatory marker and is not
// checked here; see Decode.
func Parse(raw uint32) IDCode {
	return IDCode{
		Raw:              raw,
		Version:          uint8(raw >> 28 & 0xF),
		PartNumber:       uint16(raw >> 12 & 0xFFFF),
		ManufacturerCode: uint16(raw >> 1 & 0x7FF),
	}
}

// Decode interprets register bits (index 0 first out of TDO) as an IDCODE.
// It reports false unless there are exactly 32 bits, bit 0 is set and the
// manufacturer field is not the reserved 0x7F filler.
func Decode(bits []bool) (IDCode, bool) {
	if len(bits) != Length || !bits[0] {
		return IDCode{}, false
	}
	id := Parse(uint32(register.ToUint(bits)))
	if id.ManufacturerCode&0x7F == 0x7F {
		return IDCode{}, false
	}
	return id, true
}

// Manufacturer looks up the JEP106 entry for the code; unknown codes get a
// placeholder name and false.
func (id IDCode) Manufacturer() (Manufacturer, bool) {
	m, ok := manufacturers[id.ManufacturerCode]
	if !ok {
		return Manufacturer{
			Code: id.ManufacturerCode,
			Name: fmt.Sprintf("Unknown (0x%03X)", id.ManufacturerCode),
		}, false
	}
	return m, true
}

func (id IDCode) String() string {
	m, _ := id.Manufacturer()
	return fmt.Sprintf("0x%08X (Mfg: %s, Part: 0x%04X, Ver: %d)",
		id.Raw, m.Name, id.PartNumber, id.Version)
}

// manufacturers holds the JEP106 codes (bank in bits 10:7, ID in 6:0) seen on
// common TAPs.
var manufacturers = map[uint16]Manufacturer{
	0x001: {Code: 0x001, Name: "AMD"},
	0x009: {Code: 0x009, Name: "Intel"},
	0x00E: {Code: 0x00E, Name: "Freescale (Motorola)"},
	0x015: {Code: 0x015, Name: "Philips Semi. (Signetics)"},
	0x017: {Code: 0x017, Name: "Texas Instruments"},
	0x01F: {Code: 0x01F, Name: "Atmel"},
	0x020: {Code: 0x020, Name: "STMicroelectronics"},
	0x021: {Code: 0x021, Name: "Lattice"},
	0x029: {Code: 0x029, Name: "Microchip"},
	0x041: {Code: 0x041, Name: "Infineon"},
	0x049: {Code: 0x049, Name: "Xilinx"},
	0x065: {Code: 0x065, Name: "Analog Devices"},
	0x06E: {Code: 0x06E, Name: "Altera"},
	0x23B: {Code: 0x23B, Name: "ARM"},
	0x272: {Code: 0x272, Name: "Espressif"},
	0x40D: {Code: 0x40D, Name: "Gowin"},
	0x493: {Code: 0x493, Name: "Raspberry Pi"},
}
