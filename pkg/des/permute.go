package des

// Permute builds a len(table)-bit value whose j-th bit, counted from the
// most significant emitted bit, is bit table[j] of src. Positions are
// 1-based from the most significant of the inputBits input bits.
//
// Table entries must lie in 1..inputBits; the fixed tables guarantee it.
func Permute(src uint64, table []uint8, inputBits uint) uint64 {
	src = mask(src, inputBits)
	out := uint64(0)
	n := len(table)
	for j, pos := range table {
		bit := (src >> (inputBits - uint(pos))) & 1
		out |= bit << uint(n-1-j)
	}
	return out
}
