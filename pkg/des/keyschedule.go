package des

// Rounds is the number of Feistel rounds.
const Rounds = 16

// RoundKeys holds the 48-bit subkeys in the order they are applied.
type RoundKeys [Rounds]uint64

// Reverse returns the subkeys in the opposite order.
func (rk RoundKeys) Reverse() RoundKeys {
	var out RoundKeys
	for i, k := range rk {
		out[Rounds-1-i] = k
	}
	return out
}

// DeriveRoundKeys expands a 64-bit key into 16 subkeys. With reversed set the
// same subkeys are returned last-round first, which is all decryption needs.
// Parity bits are ignored, never checked.
func DeriveRoundKeys(key uint64, reversed bool) RoundKeys {
	cd := Permute(key, permutedChoice1[:], KeyBits)
	c := (cd >> KeyHalfBits) & keyHalfMask
	d := cd & keyHalfMask

	var rk RoundKeys
	for i, shift := range keyShifts {
		c = rotate28(c, uint(shift))
		d = rotate28(d, uint(shift))
		rk[i] = Permute(c<<KeyHalfBits|d, permutedChoice2[:], 2*KeyHalfBits)
	}
	if reversed {
		return rk.Reverse()
	}
	return rk
}

// rotate28 rotates a 28-bit value left by n.
func rotate28(v uint64, n uint) uint64 {
	return (v<<n | v>>(KeyHalfBits-n)) & keyHalfMask
}
