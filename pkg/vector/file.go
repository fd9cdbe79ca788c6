package vector

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cycloud0203/cvsd/pkg/transform"
)

// Reader reads vectors line by line, skipping blank lines.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{sc: bufio.NewScanner(r)}
}

// Read returns the next vector, or io.EOF when the input is exhausted.
// Parse errors name the 1-based line number.
func (r *Reader) Read() (Vector, error) {
	for r.sc.Scan() {
		r.line++
		text := bytes.TrimSpace(r.sc.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := ParseLine(string(text))
		if err != nil {
			return Vector{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return v, nil
	}
	if err := r.sc.Err(); err != nil {
		return Vector{}, err
	}
	return Vector{}, io.EOF
}

// ReadAll reads every remaining vector.
func (r *Reader) ReadAll() ([]Vector, error) {
	var out []Vector
	for {
		v, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Writer writes one vector per line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(v Vector) error {
	_, err := fmt.Fprintf(w.w, "%016X%016X\n", v.Key, v.Data)
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// ReadFile reads a vector file. Files ending in .zst are decompressed first.
func ReadFile(path string) ([]Vector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tr, err := transform.ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := tr.Reverse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	vs, err := NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vs, nil
}

// WriteFile writes vs to path, compressing when it ends in .zst.
func WriteFile(path string, vs []Vector) error {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, v := range vs {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	tr, err := transform.ForPath(path)
	if err != nil {
		return err
	}
	data, err := tr.Apply(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
