package des

import (
	"crypto/cipher"
	"encoding/binary"
	"strconv"
)

// BlockSize is the DES block size in bytes.
const BlockSize = 8

// KeySizeError is returned by NewCipher for keys that are not 8 bytes.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "des: invalid key size " + strconv.Itoa(int(k))
}

type blockCipher struct {
	key uint64
}

// NewCipher wraps the reference model as a cipher.Block. Keys and blocks are
// read big-endian, so byte 0 carries the most significant bits.
func NewCipher(key []byte) (cipher.Block, error) {
	if len(key) != BlockSize {
		return nil, KeySizeError(len(key))
	}
	return &blockCipher{key: binary.BigEndian.Uint64(key)}, nil
}

func (c *blockCipher) BlockSize() int { return BlockSize }

func (c *blockCipher) Encrypt(dst, src []byte) {
	c.crypt(dst, src, false)
}

func (c *blockCipher) Decrypt(dst, src []byte) {
	c.crypt(dst, src, true)
}

func (c *blockCipher) crypt(dst, src []byte, decrypt bool) {
	if len(src) < BlockSize {
		panic("des: input not full block")
	}
	if len(dst) < BlockSize {
		panic("des: output not full block")
	}
	out := Crypt(binary.BigEndian.Uint64(src), c.key, decrypt)
	binary.BigEndian.PutUint64(dst, out)
}
