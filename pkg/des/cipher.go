// Package des is a bit-exact reference model of the DES block cipher working
// on single 64-bit blocks held in uint64 values. It favours a direct reading
// of the standard's tables over speed and is meant for producing and checking
// golden vectors, not for protecting data.
package des

// Encrypt returns the DES encryption of plaintext under key.
func Encrypt(key, plaintext uint64) uint64 {
	return Crypt(plaintext, key, false)
}

// Decrypt returns the DES decryption of ciphertext under key.
func Decrypt(key, ciphertext uint64) uint64 {
	return Crypt(ciphertext, key, true)
}

// Crypt runs the full cipher on block. Decryption differs from encryption
// only in the order the subkeys are applied.
func Crypt(block, key uint64, decrypt bool) uint64 {
	subkeys := DeriveRoundKeys(key, decrypt)

	b := Permute(block, initialPermutation[:], BlockBits)
	left, right := uint32(b>>32), uint32(b)
	for _, k := range subkeys {
		left, right = right, left^Feistel(right, k)
	}
	// swap halves before the final permutation
	preOutput := uint64(right)<<32 | uint64(left)
	return Permute(preOutput, finalPermutation[:], BlockBits)
}

// Round records one Feistel round. L and R are the halves after the round.
type Round struct {
	Subkey uint64
	F      uint32
	L, R   uint32
}

// Trace is every intermediate value of one cipher invocation.
type Trace struct {
	Key      uint64
	Input    uint64
	Decrypt  bool
	Subkeys  RoundKeys
	Permuted uint64 // after the initial permutation
	L0, R0   uint32
	Rounds   [Rounds]Round
	PreFP    uint64 // R16 || L16
	Output   uint64
}

// CryptTrace is Crypt with every intermediate value recorded.
func CryptTrace(block, key uint64, decrypt bool) *Trace {
	t := &Trace{
		Key:     key,
		Input:   block,
		Decrypt: decrypt,
		Subkeys: DeriveRoundKeys(key, decrypt),
	}
	t.Permuted = Permute(block, initialPermutation[:], BlockBits)
	t.L0, t.R0 = uint32(t.Permuted>>32), uint32(t.Permuted)

	left, right := t.L0, t.R0
	for i, k := range t.Subkeys {
		f := Feistel(right, k)
		left, right = right, left^f
		t.Rounds[i] = Round{Subkey: k, F: f, L: left, R: right}
	}
	t.PreFP = uint64(right)<<32 | uint64(left)
	t.Output = Permute(t.PreFP, finalPermutation[:], BlockBits)
	return t
}

// RoundInput returns L and R entering round i (0-based).
func (t *Trace) RoundInput(i int) (l, r uint32) {
	if i == 0 {
		return t.L0, t.R0
	}
	return t.Rounds[i-1].L, t.Rounds[i-1].R
}
