package verify

import (
	"github.com/cycloud0203/cvsd/pkg/des"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

// Generate computes the golden encrypt and decrypt streams for patterns.
// Each output line carries the pattern key followed by the result.
func Generate(patterns []vector.Vector) (encrypt, decrypt []vector.Vector) {
	encrypt = make([]vector.Vector, len(patterns))
	decrypt = make([]vector.Vector, len(patterns))
	for i, p := range patterns {
		encrypt[i] = vector.Vector{Key: p.Key, Data: des.Encrypt(p.Key, p.Data)}
		decrypt[i] = vector.Vector{Key: p.Key, Data: des.Decrypt(p.Key, p.Data)}
	}
	return encrypt, decrypt
}

// GenerateSuite builds a self-consistent suite from patterns.
func GenerateSuite(name string, patterns []vector.Vector) *Suite {
	enc, dec := Generate(patterns)
	return &Suite{Name: name, Patterns: patterns, Encrypt: enc, Decrypt: dec}
}

// WriteGolden writes the encrypt and decrypt streams for patterns.
func WriteGolden(patterns []vector.Vector, encryptPath, decryptPath string) error {
	enc, dec := Generate(patterns)
	if err := vector.WriteFile(encryptPath, enc); err != nil {
		return err
	}
	return vector.WriteFile(decryptPath, dec)
}
