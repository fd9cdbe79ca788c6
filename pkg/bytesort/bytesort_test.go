package bytesort

import (
	"testing"

	"github.com/cycloud0203/cvsd/pkg/vector"
)

func TestLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"00112233445566778899AABBCCDDEEFF", "FFEEDDCCBBAA99887766554433221100"},
		{"00000000000000000000000000000000", "00000000000000000000000000000000"},
		{"01000000000000000000000000000002", "02010000000000000000000000000000"},
		{"7F7F80800101FEFE7F7F80800101FEFE", "FEFEFEFE80808080" + "7F7F7F7F01010101"},
	}
	for _, tt := range tests {
		v, err := vector.ParseLine(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := Line(v).String(); got != tt.want {
			t.Errorf("Line(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDescendingDoesNotAlias(t *testing.T) {
	in := [16]byte{1, 2, 3}
	out := Descending(in)
	if in[0] != 1 || out[0] != 3 {
		t.Fatalf("in = %v, out = %v", in, out)
	}
}

func TestLines(t *testing.T) {
	vs := []vector.Vector{{Key: 1}, {Data: 0xFF}}
	out := Lines(vs)
	if out[0].Key != 0x0100000000000000 || out[1].Key != 0xFF00000000000000 {
		t.Fatalf("got %+v", out)
	}
}
