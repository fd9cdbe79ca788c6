package des

import "errors"

// Bit widths of the values flowing through the cipher.
const (
	BlockBits   = 64
	KeyBits     = 64
	SubkeyBits  = 48
	HalfBits    = 32
	KeyHalfBits = 28
)

const (
	subkeyMask  = 1<<SubkeyBits - 1
	keyHalfMask = 1<<KeyHalfBits - 1
)

// ErrInvalidWidth is returned by parsers for input wider than a 64-bit key
// or block. Values already inside the package are masked to their width.
var ErrInvalidWidth = errors.New("des: value exceeds declared bit width")

func mask(v uint64, bits uint) uint64 {
	if bits >= 64 {
		return v
	}
	return v & (1<<bits - 1)
}
