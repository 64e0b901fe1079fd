package jtag

// PackBits packs bits LSB-first into bytes, the layout Adapter buffers use.
func PackBits(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	buf := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			buf[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return buf
}

// UnpackBits is the inverse of PackBits. Bits past the end of buf read as 0.
func UnpackBits(buf []byte, bits int) []bool {
	if bits <= 0 {
		return nil
	}
	out := make([]bool, bits)
	for i := 0; i < bits; i++ {
		out[i] = bitAt(buf, i)
	}
	return out
}

func bitAt(buf []byte, i int) bool {
	if i/8 >= len(buf) {
		return false
	}
	return buf[i/8]&(1<<(uint(i)%8)) != 0
}
