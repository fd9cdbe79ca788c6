// Package verify checks the DES model against externally supplied vectors
// and produces golden vectors for new patterns.
package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cycloud0203/cvsd/pkg/des"
	"github.com/cycloud0203/cvsd/pkg/vector"
)

var (
	ErrLengthMismatch = errors.New("verify: pattern and expected files differ in length")
	ErrCaseOutOfRange = errors.New("verify: test case out of range")
)

// Op names the operation a check ran.
type Op string

const (
	OpEncrypt Op = "encrypt"
	OpDecrypt Op = "decrypt"
)

// Suite is a pattern file with the results expected for it. Line i of the
// encrypt file holds encrypt(key, data) of pattern line i, the decrypt file
// holds decrypt(key, data) of the same line.
type Suite struct {
	Name     string
	Patterns []vector.Vector
	Encrypt  []vector.Vector
	Decrypt  []vector.Vector
}

// LoadSuite reads the three files of a suite.
func LoadSuite(patternPath, encryptPath, decryptPath string) (*Suite, error) {
	s := &Suite{Name: patternPath}
	var err error
	if s.Patterns, err = vector.ReadFile(patternPath); err != nil {
		return nil, err
	}
	if s.Encrypt, err = vector.ReadFile(encryptPath); err != nil {
		return nil, err
	}
	if s.Decrypt, err = vector.ReadFile(decryptPath); err != nil {
		return nil, err
	}
	return s, s.check()
}

func (s *Suite) check() error {
	if len(s.Encrypt) != len(s.Patterns) || len(s.Decrypt) != len(s.Patterns) {
		return fmt.Errorf("%w: %d patterns, %d encrypt, %d decrypt",
			ErrLengthMismatch, len(s.Patterns), len(s.Encrypt), len(s.Decrypt))
	}
	return nil
}

// Mismatch is a computed result that disagrees with the expected one.
type Mismatch struct {
	Line     int // 1-based
	Op       Op
	Key      uint64
	Input    uint64
	Expected uint64
	Got      uint64
}

// Diff has a bit set wherever Expected and Got disagree.
func (m Mismatch) Diff() uint64 { return m.Expected ^ m.Got }

func (m Mismatch) String() string {
	return fmt.Sprintf("Line %d %s: Expected %016X, Got %016X, Diff %016X",
		m.Line, m.Op, m.Expected, m.Got, m.Diff())
}

// Report is the outcome of one Run.
type Report struct {
	RunID      uuid.UUID
	Suite      string
	Total      int
	Mismatches []Mismatch
	Started    time.Time
	Duration   time.Duration
}

// Passed reports whether every check matched.
func (r *Report) Passed() bool { return len(r.Mismatches) == 0 }

// Options tune Run.
type Options struct {
	Workers int
	// Progress, when set, is called after every ProgressEvery completed
	// lines and once more at the end. Calls are serialized.
	Progress      func(done, total int)
	ProgressEvery int
}

// Run checks every line of s. Lines are spread across workers but the
// report lists mismatches in line order.
func Run(ctx context.Context, s *Suite, opts Options) (*Report, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = 10
	}

	report := &Report{RunID: uuid.New(), Suite: s.Name, Total: len(s.Patterns), Started: time.Now()}
	results := make([][2]*Mismatch, len(s.Patterns))

	var (
		progressMu sync.Mutex
		done       int
	)
	tick := func() {
		if opts.Progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		if done%every == 0 && done != report.Total {
			opts.Progress(done, report.Total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range s.Patterns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkLine(s, i)
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if opts.Progress != nil {
		opts.Progress(report.Total, report.Total)
	}

	for _, r := range results {
		for _, m := range r {
			if m != nil {
				report.Mismatches = append(report.Mismatches, *m)
			}
		}
	}
	report.Duration = time.Since(report.Started)
	return report, nil
}

func checkLine(s *Suite, i int) [2]*Mismatch {
	p := s.Patterns[i]
	var out [2]*Mismatch
	if got := des.Encrypt(p.Key, p.Data); got != s.Encrypt[i].Data {
		out[0] = &Mismatch{Line: i + 1, Op: OpEncrypt, Key: p.Key, Input: p.Data, Expected: s.Encrypt[i].Data, Got: got}
	}
	if got := des.Decrypt(p.Key, p.Data); got != s.Decrypt[i].Data {
		out[1] = &Mismatch{Line: i + 1, Op: OpDecrypt, Key: p.Key, Input: p.Data, Expected: s.Decrypt[i].Data, Got: got}
	}
	return out
}

// CaseResult is one line checked with full traces.
type CaseResult struct {
	Line            int
	Pattern         vector.Vector
	Encrypt         *des.Trace
	Decrypt         *des.Trace
	ExpectedEncrypt uint64
	ExpectedDecrypt uint64
}

func (c *CaseResult) EncryptOK() bool { return c.Encrypt.Output == c.ExpectedEncrypt }
func (c *CaseResult) DecryptOK() bool { return c.Decrypt.Output == c.ExpectedDecrypt }

// Case traces the 1-based line n of s.
func Case(s *Suite, n int) (*CaseResult, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if n < 1 || n > len(s.Patterns) {
		return nil, fmt.Errorf("%w: %d not in 1-%d", ErrCaseOutOfRange, n, len(s.Patterns))
	}
	p := s.Patterns[n-1]
	return &CaseResult{
		Line:            n,
		Pattern:         p,
		Encrypt:         des.CryptTrace(p.Data, p.Key, false),
		Decrypt:         des.CryptTrace(p.Data, p.Key, true),
		ExpectedEncrypt: s.Encrypt[n-1].Data,
		ExpectedDecrypt: s.Decrypt[n-1].Data,
	}, nil
}
