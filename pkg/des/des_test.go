package des

import (
	stddes "crypto/des"
	"encoding/binary"
	"math/bits"
	"math/rand/v2"
	"testing"
)

func TestKnownAnswer(t *testing.T) {
	tests := []struct {
		name       string
		key        uint64
		plaintext  uint64
		ciphertext uint64
	}{
		{"textbook", 0x133457799BBCDFF1, 0x0123456789ABCDEF, 0x85E813540F0AB405},
		{"zero key zero block", 0, 0, 0x8CA64DE9C1B123A7},
		{"zero output", 0x0E329232EA6D0D73, 0x8787878787878787, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encrypt(tt.key, tt.plaintext); got != tt.ciphertext {
				t.Errorf("Encrypt(%016X, %016X) = %016X, want %016X", tt.key, tt.plaintext, got, tt.ciphertext)
			}
			if got := Decrypt(tt.key, tt.ciphertext); got != tt.plaintext {
				t.Errorf("Decrypt(%016X, %016X) = %016X, want %016X", tt.key, tt.ciphertext, got, tt.plaintext)
			}
		})
	}
}

func TestZeroInputIsNotZero(t *testing.T) {
	if got := Encrypt(0, 0); got == 0 {
		t.Fatal("Encrypt(0, 0) must not be zero")
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var keyBytes, in, want [8]byte
	for i := 0; i < 500; i++ {
		key, block := rng.Uint64(), rng.Uint64()
		binary.BigEndian.PutUint64(keyBytes[:], key)
		binary.BigEndian.PutUint64(in[:], block)
		ref, err := stddes.NewCipher(keyBytes[:])
		if err != nil {
			t.Fatalf("crypto/des.NewCipher failed: %v", err)
		}

		ref.Encrypt(want[:], in[:])
		if got := Encrypt(key, block); got != binary.BigEndian.Uint64(want[:]) {
			t.Fatalf("Encrypt(%016X, %016X) = %016X, crypto/des gives %X", key, block, got, want[:])
		}
		ref.Decrypt(want[:], in[:])
		if got := Decrypt(key, block); got != binary.BigEndian.Uint64(want[:]) {
			t.Fatalf("Decrypt(%016X, %016X) = %016X, crypto/des gives %X", key, block, got, want[:])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 1000; i++ {
		key, block := rng.Uint64(), rng.Uint64()
		if got := Decrypt(key, Encrypt(key, block)); got != block {
			t.Fatalf("round trip failed for key %016X block %016X: got %016X", key, block, got)
		}
		if got := Encrypt(key, Decrypt(key, block)); got != block {
			t.Fatalf("reverse round trip failed for key %016X block %016X: got %016X", key, block, got)
		}
	}
}

func TestDeterminism(t *testing.T) {
	const key, block = 0xFEDCBA9876543210, 0x0011223344556677
	first := Encrypt(key, block)
	for i := 0; i < 10; i++ {
		if got := Encrypt(key, block); got != first {
			t.Fatalf("call %d returned %016X, first call returned %016X", i, got, first)
		}
	}
}

func TestCryptTraceMatchesCrypt(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 100; i++ {
		key, block := rng.Uint64(), rng.Uint64()
		for _, decrypt := range []bool{false, true} {
			tr := CryptTrace(block, key, decrypt)
			if want := Crypt(block, key, decrypt); tr.Output != want {
				t.Fatalf("trace output %016X, Crypt %016X", tr.Output, want)
			}
		}
	}
}

func TestTextbookTrace(t *testing.T) {
	tr := CryptTrace(0x0123456789ABCDEF, 0x133457799BBCDFF1, false)
	if tr.Permuted != 0xCC00CCFFF0AAF0AA {
		t.Errorf("IP = %016X, want CC00CCFFF0AAF0AA", tr.Permuted)
	}
	if tr.L0 != 0xCC00CCFF || tr.R0 != 0xF0AAF0AA {
		t.Errorf("L0, R0 = %08X, %08X", tr.L0, tr.R0)
	}
	if tr.Rounds[0].F != 0x234AA9BB {
		t.Errorf("f(R0, K1) = %08X, want 234AA9BB", tr.Rounds[0].F)
	}
	if tr.Rounds[0].L != 0xF0AAF0AA || tr.Rounds[0].R != 0xEF4A6544 {
		t.Errorf("L1, R1 = %08X, %08X", tr.Rounds[0].L, tr.Rounds[0].R)
	}
	if tr.Rounds[15].L != 0x43423234 || tr.Rounds[15].R != 0x0A4CD995 {
		t.Errorf("L16, R16 = %08X, %08X", tr.Rounds[15].L, tr.Rounds[15].R)
	}
	if tr.PreFP != 0x0A4CD99543423234 {
		t.Errorf("R16||L16 = %016X", tr.PreFP)
	}
	l, r := tr.RoundInput(1)
	if l != tr.Rounds[0].L || r != tr.Rounds[0].R {
		t.Errorf("RoundInput(1) = %08X, %08X", l, r)
	}
}

func TestAvalanche(t *testing.T) {
	const key, block uint64 = 0x133457799BBCDFF1, 0x0123456789ABCDEF
	base := Encrypt(key, block)
	total := 0
	for i := 0; i < 64; i++ {
		total += bits.OnesCount64(base ^ Encrypt(key, block^(1<<i)))
	}
	avg := float64(total) / 64
	if avg < 24 || avg > 40 {
		t.Errorf("average changed bits per flipped input bit = %.1f, expected close to 32", avg)
	}
}
