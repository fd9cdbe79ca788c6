// Package pattern generates random 128-bit test patterns, one key/data pair
// per line, for feeding the golden generator.
package pattern

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cycloud0203/cvsd/pkg/vector"
)

const (
	// DefaultCount is the number of lines in a generated pattern file.
	DefaultCount = 65
	// DefaultSeed makes generated pattern files reproducible.
	DefaultSeed = 42
)

// Generator is an XORSHIFT128+ generator. It is not safe for concurrent use.
type Generator struct {
	state [2]uint64
}

// New returns a generator seeded from seed. Seed 0 draws the state from
// crypto/rand.
func New(seed uint64) (*Generator, error) {
	g := &Generator{}
	if seed == 0 {
		var b [16]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("pattern: seeding from crypto/rand: %w", err)
		}
		g.state[0] = binary.LittleEndian.Uint64(b[0:8])
		g.state[1] = binary.LittleEndian.Uint64(b[8:16])
	} else {
		g.state[0] = splitmix64(&seed)
		g.state[1] = splitmix64(&seed)
	}
	if g.state[0] == 0 && g.state[1] == 0 {
		g.state[1] = 1
	}
	return g, nil
}

// splitmix64 spreads a single seed word over the generator state.
func splitmix64(x *uint64) uint64 {
	*x += 0x9E3779B97F4A7C15
	z := *x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Uint64 returns the next 64-bit value.
func (g *Generator) Uint64() uint64 {
	s1 := g.state[0]
	s0 := g.state[1]
	result := s0 + s1

	g.state[0] = s0
	s1 ^= s1 << 23
	g.state[1] = s1 ^ s0 ^ (s1 >> 17) ^ (s0 >> 26)
	return result
}

// Vector returns a random key/data pair.
func (g *Generator) Vector() vector.Vector {
	return vector.Vector{Key: g.Uint64(), Data: g.Uint64()}
}

// Generate returns n random vectors.
func (g *Generator) Generate(n int) []vector.Vector {
	out := make([]vector.Vector, n)
	for i := range out {
		out[i] = g.Vector()
	}
	return out
}

// WriteFile writes n random lines generated from seed to path.
func WriteFile(path string, n int, seed uint64) ([]vector.Vector, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pattern: count must be positive, got %d", n)
	}
	g, err := New(seed)
	if err != nil {
		return nil, err
	}
	vs := g.Generate(n)
	if err := vector.WriteFile(path, vs); err != nil {
		return nil, err
	}
	return vs, nil
}
