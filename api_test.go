package ff3

import (
	"bytes"
	"crypto/des"
	"encoding/hex"
	"testing"
)

func mustKey(t *testing.T, keyHex string) []byte {
	t.Helper()
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		t.Fatalf("decoding key: %v", err)
	}
	return key
}

func TestReverseKeyBytes(t *testing.T) {
	in := []byte{0x01, 0x02, 0x03, 0x04}
	out := ReverseKeyBytes(in)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(out, want) {
		t.Fatalf("ReverseKeyBytes(%x) = %x, want %x", in, out, want)
	}
	if bytes.Equal(in, want) {
		t.Fatal("input should be untouched by ReverseKeyBytes")
	}
}

func TestCipherNISTVector(t *testing.T) {
	key := mustKey(t, "EF4359D8D580AA4F7F036D6F04FC6A94")
	tweak := mustKey(t, "D8E7920AFA330A73")
	c, err := NewCipher("0123456789", key, tweak, WithLegacyTweak(), WithLengthBounds(6, 20))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	got, err := c.Encrypt("890121234567890000")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if want := "750918814058654607"; got != want {
		t.Fatalf("Encrypt = %q, want %q", got, want)
	}
	back, err := c.Decrypt(got)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if back != "890121234567890000" {
		t.Fatalf("Decrypt round-trip = %q", back)
	}
}

func TestCipherRoundTripAndClosure(t *testing.T) {
	key := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	c, err := NewCipher("0123456789", key, nil, WithLengthBounds(6, 20))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	plaintexts := []string{"123456", "12345678", "000000", "98765432109876"}
	for _, p := range plaintexts {
		ct, err := c.Encrypt(p)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", p, err)
		}
		if len(ct) != len(p) {
			t.Fatalf("length not preserved: |%q|=%d, |%q|=%d", p, len(p), ct, len(ct))
		}
		for _, r := range ct {
			if r < '0' || r > '9' {
				t.Fatalf("Encrypt(%q) produced out-of-alphabet symbol %q", p, r)
			}
		}
		pt, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", ct, err)
		}
		if pt != p {
			t.Fatalf("round-trip: Decrypt(Encrypt(%q)) = %q", p, pt)
		}
	}
}

func TestCipherTweakSensitivity(t *testing.T) {
	key := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	c, err := NewCipher("0123456789", key, nil, WithLengthBounds(6, 20))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	plaintext := "12345678"
	a, err := c.EncryptWithTweak(plaintext, []byte{0, 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("Encrypt a: %v", err)
	}
	b, err := c.EncryptWithTweak(plaintext, []byte{1, 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("Encrypt b: %v", err)
	}
	if a == b {
		t.Fatal("flipping a tweak bit did not change ciphertext")
	}
}

func TestCipherKeySensitivity(t *testing.T) {
	keyA := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	keyB := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3D")
	tweak := []byte{0, 0, 0, 0, 0, 0, 0}
	plaintext := "12345678"

	cA, err := NewCipher("0123456789", keyA, tweak, WithLengthBounds(6, 20))
	if err != nil {
		t.Fatalf("NewCipher A: %v", err)
	}
	cB, err := NewCipher("0123456789", keyB, tweak, WithLengthBounds(6, 20))
	if err != nil {
		t.Fatalf("NewCipher B: %v", err)
	}
	a, err := cA.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt A: %v", err)
	}
	b, err := cB.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt B: %v", err)
	}
	if a == b {
		t.Fatal("flipping a key bit did not change ciphertext")
	}
}

func TestCipherBPSShortInputEquivalence(t *testing.T) {
	key := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	tweak := mustKey(t, "D8E7920AFA330A73")
	c, err := NewCipher("0123456789", key, tweak, WithLegacyTweak(), WithLengthBounds(6, 16))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	plaintext := "123456789012"
	viaBPS, err := c.EncryptBPS(plaintext, tweak)
	if err != nil {
		t.Fatalf("EncryptBPS: %v", err)
	}
	viaDirect, err := c.EncryptWithTweak(plaintext, tweak)
	if err != nil {
		t.Fatalf("EncryptWithTweak: %v", err)
	}
	if viaBPS != viaDirect {
		t.Fatalf("short-input EncryptBPS (%q) != Encrypt (%q)", viaBPS, viaDirect)
	}
}

func TestCipherBPSRoundTripWithFormatting(t *testing.T) {
	key := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	c, err := NewCipher("0123456789", key, nil, WithLengthBounds(6, 10))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	plaintext := "31085877575534=071010041185624028500"

	ct, err := c.EncryptBPS(plaintext, nil)
	if err != nil {
		t.Fatalf("EncryptBPS: %v", err)
	}
	if len(ct) != len(plaintext) {
		t.Fatalf("length not preserved: %d vs %d", len(ct), len(plaintext))
	}
	if ct[14] != '=' {
		t.Fatalf("formatting character not preserved at its offset: got %q", ct)
	}
	pt, err := c.DecryptBPS(ct, nil)
	if err != nil {
		t.Fatalf("DecryptBPS: %v", err)
	}
	if pt != plaintext {
		t.Fatalf("BPS round-trip = %q, want %q", pt, plaintext)
	}
}

func TestCipherFromBlock3DES(t *testing.T) {
	key := mustKey(t, "218404a1f3e37dbd22f381d6496c0c76")
	key24 := append(append([]byte{}, key...), key[:8]...)
	block, err := des.NewTripleDESCipher(ReverseKeyBytes(key24))
	if err != nil {
		t.Fatalf("des.NewTripleDESCipher: %v", err)
	}
	c, err := NewCipherFromBlock("0123456789", block, nil, WithLengthBounds(6, 17))
	if err != nil {
		t.Fatalf("NewCipherFromBlock: %v", err)
	}
	plaintext := "10858775755340710100411856240285"
	ct, err := c.EncryptBPS(plaintext, nil)
	if err != nil {
		t.Fatalf("EncryptBPS: %v", err)
	}
	pt, err := c.DecryptBPS(ct, nil)
	if err != nil {
		t.Fatalf("DecryptBPS: %v", err)
	}
	if pt != plaintext {
		t.Fatalf("round-trip = %q, want %q", pt, plaintext)
	}
}

func TestNewCipherRejectsBadConfig(t *testing.T) {
	key := mustKey(t, "2B7E151628AED2A6ABF7158809CF4F3C")
	if _, err := NewCipher("0123456789", key, nil, WithLengthBounds(2, 10)); err == nil {
		t.Fatal("expected ConfigError for minlen too small to reach the 10^6 domain floor")
	}
	if _, err := NewCipher("0123456789", key, nil, WithLengthBounds(1, 10)); err == nil {
		t.Fatal("expected ConfigError for minlen < 2")
	}
	if _, err := NewCipher("0123456789", key, nil, WithLengthBounds(10, 5)); err == nil {
		t.Fatal("expected ConfigError for maxlen < minlen")
	}
}
