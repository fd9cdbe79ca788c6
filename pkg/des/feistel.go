package des

import "fmt"

// Feistel is the DES round function f(R, K). Only the low 48 bits of subkey
// are used.
func Feistel(r uint32, subkey uint64) uint32 {
	x := Permute(uint64(r), expansion[:], HalfBits) ^ (subkey & subkeyMask)

	var s uint64
	for i := 0; i < 8; i++ {
		six := uint8(x>>(42-6*i)) & 0x3f
		s |= uint64(SBox(i, six)) << (28 - 4*i)
	}
	return uint32(Permute(s, permutationP[:], HalfBits))
}

// SBox looks up a 6-bit group in S-box box (0..7). The outer bits select
// the row, the inner four the column.
func SBox(box int, six uint8) uint8 {
	if box < 0 || box > 7 {
		panic(fmt.Sprintf("des: no S-box %d", box))
	}
	row := (six>>4)&0x2 | six&0x1
	col := (six >> 1) & 0xf
	return sBoxes[box][row][col]
}
