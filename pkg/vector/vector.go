// Package vector reads and writes DES test vectors: one 128-bit value per
// line as 32 hex digits, key in the high 64 bits and data in the low 64.
package vector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cycloud0203/cvsd/pkg/des"
)

// LineHexDigits is the length of a vector line without its newline.
const LineHexDigits = 32

// ErrMalformed is returned for lines that are not 32 hex digits.
var ErrMalformed = errors.New("vector: malformed line")

// Vector is one key/data pair. In golden output files Data holds the result.
type Vector struct {
	Key  uint64
	Data uint64
}

// String formats v as 32 upper-case hex digits.
func (v Vector) String() string {
	return fmt.Sprintf("%016X%016X", v.Key, v.Data)
}

// Bytes returns key||data big-endian.
func (v Vector) Bytes() [16]byte {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v.Key >> (56 - 8*i))
		b[8+i] = byte(v.Data >> (56 - 8*i))
	}
	return b
}

// FromBytes is the inverse of Bytes.
func FromBytes(b [16]byte) Vector {
	var v Vector
	for i := 0; i < 8; i++ {
		v.Key = v.Key<<8 | uint64(b[i])
		v.Data = v.Data<<8 | uint64(b[8+i])
	}
	return v
}

// ParseLine parses a 32-digit hex line. Surrounding whitespace is ignored.
func ParseLine(s string) (Vector, error) {
	s = strings.TrimSpace(s)
	if len(s) > LineHexDigits {
		return Vector{}, fmt.Errorf("%w: %d hex digits, want %d", des.ErrInvalidWidth, len(s), LineHexDigits)
	}
	if len(s) < LineHexDigits {
		return Vector{}, fmt.Errorf("%w: %d characters, want %d", ErrMalformed, len(s), LineHexDigits)
	}
	key, err := parseDigits(s[:16])
	if err != nil {
		return Vector{}, err
	}
	data, err := parseDigits(s[16:])
	if err != nil {
		return Vector{}, err
	}
	return Vector{Key: key, Data: data}, nil
}

// ParseHex64 parses up to 16 hex digits, with an optional 0x prefix. Longer
// input is rejected with des.ErrInvalidWidth.
func ParseHex64(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformed)
	}
	if len(s) > 16 {
		return 0, fmt.Errorf("%w: %q has %d hex digits", des.ErrInvalidWidth, s, len(s))
	}
	return parseDigits(s)
}

func parseDigits(s string) (uint64, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return 0, fmt.Errorf("%w: %q is not hex", ErrMalformed, s)
		}
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	return v, nil
}
