package verify

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cycloud0203/cvsd/pkg/pattern"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

func textbookSuite() *Suite {
	patterns := []vector.Vector{
		{Key: 0x133457799BBCDFF1, Data: 0x0123456789ABCDEF},
		{Key: 0, Data: 0},
		{Key: 0x0E329232EA6D0D73, Data: 0x8787878787878787},
	}
	return GenerateSuite("textbook", patterns)
}

func TestGenerateKnownAnswers(t *testing.T) {
	s := textbookSuite()
	assert.Equal(t, uint64(0x85E813540F0AB405), s.Encrypt[0].Data)
	assert.Equal(t, uint64(0x133457799BBCDFF1), s.Encrypt[0].Key)
	assert.Equal(t, uint64(0x8CA64DE9C1B123A7), s.Encrypt[1].Data)
	assert.Equal(t, uint64(0), s.Encrypt[2].Data)
}

func TestRunPasses(t *testing.T) {
	gen, err := pattern.New(pattern.DefaultSeed)
	require.NoError(t, err)
	s := GenerateSuite("random", gen.Generate(200))

	var calls [][2]int
	r, err := Run(context.Background(), s, Options{
		Workers:       4,
		ProgressEvery: 50,
		Progress:      func(done, total int) { calls = append(calls, [2]int{done, total}) },
	})
	require.NoError(t, err)
	assert.True(t, r.Passed())
	assert.Equal(t, 200, r.Total)
	assert.Equal(t, [][2]int{{50, 200}, {100, 200}, {150, 200}, {200, 200}}, calls)
}

func TestRunReportsMismatchesInLineOrder(t *testing.T) {
	s := textbookSuite()
	s.Encrypt[2].Data ^= 0x1
	s.Decrypt[0].Data ^= 0x8000000000000000
	s.Encrypt[0].Data ^= 0xF0

	r, err := Run(context.Background(), s, Options{Workers: 3})
	require.NoError(t, err)
	require.False(t, r.Passed())
	require.Len(t, r.Mismatches, 3)

	assert.Equal(t, 1, r.Mismatches[0].Line)
	assert.Equal(t, OpEncrypt, r.Mismatches[0].Op)
	assert.Equal(t, uint64(0xF0), r.Mismatches[0].Diff())

	assert.Equal(t, 1, r.Mismatches[1].Line)
	assert.Equal(t, OpDecrypt, r.Mismatches[1].Op)
	assert.Equal(t, uint64(0x8000000000000000), r.Mismatches[1].Diff())

	assert.Equal(t, 3, r.Mismatches[2].Line)
	assert.Equal(t, uint64(0x0E329232EA6D0D73), r.Mismatches[2].Key)
	assert.Equal(t, uint64(0x1), r.Mismatches[2].Expected)
	assert.Equal(t, uint64(0), r.Mismatches[2].Got)
	assert.Equal(t, uint64(0x1), r.Mismatches[2].Diff())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, textbookSuite(), Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLengthMismatch(t *testing.T) {
	s := textbookSuite()
	s.Decrypt = s.Decrypt[:2]
	_, err := Run(context.Background(), s, Options{})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Case(s, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestCase(t *testing.T) {
	s := textbookSuite()
	c, err := Case(s, 1)
	require.NoError(t, err)
	assert.True(t, c.EncryptOK())
	assert.True(t, c.DecryptOK())
	assert.Equal(t, uint32(0xEF4A6544), c.Encrypt.Rounds[0].R)
	assert.True(t, c.Decrypt.Decrypt)

	for _, n := range []int{0, 4} {
		_, err = Case(s, n)
		assert.ErrorIs(t, err, ErrCaseOutOfRange)
	}
}

func TestLoadSuiteFromFiles(t *testing.T) {
	dir := t.TempDir()
	s := textbookSuite()
	pat := filepath.Join(dir, "pattern1.dat")
	enc := filepath.Join(dir, "f1.dat.zst")
	dec := filepath.Join(dir, "f2.dat")
	require.NoError(t, vector.WriteFile(pat, s.Patterns))
	require.NoError(t, WriteGolden(s.Patterns, enc, dec))

	loaded, err := LoadSuite(pat, enc, dec)
	require.NoError(t, err)
	assert.Equal(t, s.Encrypt, loaded.Encrypt)
	assert.Equal(t, s.Decrypt, loaded.Decrypt)

	r, err := Run(context.Background(), loaded, Options{Workers: 2})
	require.NoError(t, err)
	assert.True(t, r.Passed())
}

func TestWriteSummary(t *testing.T) {
	s := GenerateSuite("many", make([]vector.Vector, 12))
	for i := range s.Encrypt {
		s.Encrypt[i].Data++
	}
	r, err := Run(context.Background(), s, Options{Workers: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "Total test cases: 12")
	assert.Contains(t, out, "VERIFICATION FAILED")
	assert.Contains(t, out, "Errors found: 12")
	assert.Contains(t, out, "... and 2 more errors")
	assert.Equal(t, MaxListed, strings.Count(out, "Line "))

	buf.Reset()
	ok, err := Run(context.Background(), textbookSuite(), Options{})
	require.NoError(t, err)
	require.NoError(t, WriteSummary(&buf, ok))
	assert.Contains(t, buf.String(), "ALL TESTS PASSED")
}
