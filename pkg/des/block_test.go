package des

import (
	"bytes"
	"crypto/cipher"
	"errors"
	"testing"
)

func TestNewCipherBlock(t *testing.T) {
	key := []byte{0x13, 0x34, 0x57, 0x79, 0x9B, 0xBC, 0xDF, 0xF1}
	c, err := NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	if c.BlockSize() != 8 {
		t.Fatalf("BlockSize = %d", c.BlockSize())
	}
	plaintext := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	expected := []byte{0x85, 0xE8, 0x13, 0x54, 0x0F, 0x0A, 0xB4, 0x05}

	var encrypted, decrypted [8]byte
	c.Encrypt(encrypted[:], plaintext)
	if !bytes.Equal(encrypted[:], expected) {
		t.Errorf("Encryption failed. Expected %x, got %x", expected, encrypted)
	}
	c.Decrypt(decrypted[:], encrypted[:])
	if !bytes.Equal(decrypted[:], plaintext) {
		t.Errorf("Decryption failed. Expected %x, got %x", plaintext, decrypted)
	}
}

func TestNewCipherKeySize(t *testing.T) {
	for _, n := range []int{0, 7, 9, 16, 24} {
		_, err := NewCipher(make([]byte, n))
		var kse KeySizeError
		if !errors.As(err, &kse) || int(kse) != n {
			t.Errorf("NewCipher with %d-byte key: err = %v", n, err)
		}
	}
}

func TestBlockWorksWithCBC(t *testing.T) {
	c, err := NewCipher([]byte("8bytekey"))
	if err != nil {
		t.Fatal(err)
	}
	iv := make([]byte, 8)
	plaintext := []byte("sixteen byte msg")
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(ciphertext, plaintext)
	out := make([]byte, len(plaintext))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(out, ciphertext)
	if !bytes.Equal(out, plaintext) {
		t.Fatalf("CBC round trip gave %q", out)
	}
}

func TestShortBlockPanics(t *testing.T) {
	c, _ := NewCipher(make([]byte, 8))
	defer func() {
		if recover() == nil {
			t.Error("Encrypt with short src did not panic")
		}
	}()
	c.Encrypt(make([]byte, 8), make([]byte, 4))
}
