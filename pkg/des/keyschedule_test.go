package des

import (
	"math/rand/v2"
	"testing"
)

func TestDeriveRoundKeysTextbook(t *testing.T) {
	rk := DeriveRoundKeys(0x133457799BBCDFF1, false)
	want := map[int]uint64{
		0:  0x1B02EFFC7072,
		1:  0x79AED9DBC9E5,
		15: 0xCB3D8B0E17F5,
	}
	for i, k := range want {
		if rk[i] != k {
			t.Errorf("K%d = %012X, want %012X", i+1, rk[i], k)
		}
	}
	for i, k := range rk {
		if k>>SubkeyBits != 0 {
			t.Errorf("K%d = %X is wider than 48 bits", i+1, k)
		}
	}
}

func TestPermutedChoice1(t *testing.T) {
	cd := Permute(0x133457799BBCDFF1, permutedChoice1[:], KeyBits)
	if cd != 0xF0CCAAF556678F {
		t.Fatalf("PC1 = %014X, want F0CCAAF556678F", cd)
	}
}

func TestReversedScheduleIsReverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		key := rng.Uint64()
		fwd := DeriveRoundKeys(key, false)
		rev := DeriveRoundKeys(key, true)
		if rev != fwd.Reverse() {
			t.Fatalf("reversed schedule for %016X is not the forward schedule reversed", key)
		}
		for j := 0; j < Rounds; j++ {
			if rev[j] != fwd[Rounds-1-j] {
				t.Fatalf("key %016X: reversed[%d] = %012X, forward[%d] = %012X", key, j, rev[j], Rounds-1-j, fwd[Rounds-1-j])
			}
		}
	}
}

func TestParityBitsIgnored(t *testing.T) {
	const key uint64 = 0x133457799BBCDFF1
	flipped := key ^ 0x0101010101010101
	if DeriveRoundKeys(key, false) != DeriveRoundKeys(flipped, false) {
		t.Fatal("parity bits changed the key schedule")
	}
}

func TestRotate28(t *testing.T) {
	tests := []struct {
		in   uint64
		n    uint
		want uint64
	}{
		{0x8000000, 1, 0x0000001},
		{0xC000000, 2, 0x0000003},
		{0xF0CCAAF, 1, 0xE19955F},
		{0x0000001, 2, 0x0000004},
	}
	for _, tt := range tests {
		if got := rotate28(tt.in, tt.n); got != tt.want {
			t.Errorf("rotate28(%07X, %d) = %07X, want %07X", tt.in, tt.n, got, tt.want)
		}
	}
}
