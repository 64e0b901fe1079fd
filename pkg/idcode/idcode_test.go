package idcode

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceTAP/pkg/register"
)

func TestParse(t *testing.T) {
	id := Parse(0x4BA00477)
	if id.Version != 0x4 {
		t.Fatalf("Version = %#x, want 0x4", id.Version)
	}
	if id.PartNumber != 0xBA00 {
		t.Fatalf("PartNumber = %#x, want 0xBA00", id.PartNumber)
	}
	if id.ManufacturerCode != 0x23B {
		t.Fatalf("ManufacturerCode = %#x, want 0x23B", id.ManufacturerCode)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  uint32
		name string
	}{
		{0x4BA00477, "ARM"},
		{0x06438041, "STMicroelectronics"},
		{0x41111043, "Lattice"},
		{0x13631093, "Xilinx"},
	}
	for _, tt := range tests {
		id, ok := Decode(register.FromUint(uint64(tt.raw), Length))
		if !ok {
			t.Fatalf("Decode(%#08x) failed", tt.raw)
		}
		if id.Raw != tt.raw {
			t.Fatalf("Raw = %#08x, want %#08x", id.Raw, tt.raw)
		}
		m, known := id.Manufacturer()
		if !known || m.Name != tt.name {
			t.Fatalf("Manufacturer(%#08x) = %q (%v), want %q", tt.raw, m.Name, known, tt.name)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string][]bool{
		"short":        register.FromUint(0x477, 16),
		"marker clear": register.FromUint(0x4BA00476, Length),
		"filler code":  register.FromUint(0x000000FF, Length),
	}
	for name, bits := range cases {
		if _, ok := Decode(bits); ok {
			t.Fatalf("%s: Decode succeeded", name)
		}
	}
}

func TestString(t *testing.T) {
	got := Parse(0x06438041).String()
	want := "0x06438041 (Mfg: STMicroelectronics, Part: 0x6438, Ver: 0)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	got = Parse(0x00000FFF).String()
	want = "0x00000FFF (Mfg: Unknown (0x7FF), Part: 0x0000, Ver: 0)"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
