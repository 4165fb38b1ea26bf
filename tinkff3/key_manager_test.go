package tinkff3

import (
	"sync"
	"testing"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/keyset"
)

var registerOnce sync.Once

func ensureKeyManagerRegistered(t *testing.T) {
	t.Helper()
	var err error
	registerOnce.Do(func() {
		err = registry.RegisterKeyManager(NewKeyManager())
	})
	if err != nil {
		t.Fatalf("registering FF3 key manager: %v", err)
	}
}

func TestKeyManagerDoesSupportAndTypeURL(t *testing.T) {
	km := NewKeyManager()
	if km.TypeURL() != FF3KeyTypeURL {
		t.Fatalf("TypeURL() = %q, want %q", km.TypeURL(), FF3KeyTypeURL)
	}
	if !km.DoesSupport(FF3KeyTypeURL) {
		t.Fatal("DoesSupport should accept its own type URL")
	}
	if km.DoesSupport("type.googleapis.com/some.other.KeyType") {
		t.Fatal("DoesSupport should reject an unrelated type URL")
	}
}

func TestKeyManagerPrimitiveRejectsBadKeySize(t *testing.T) {
	km := NewKeyManager()
	if _, err := km.Primitive(make([]byte, 10)); err == nil {
		t.Fatal("expected error for a 10-byte key")
	}
	if _, err := km.Primitive(make([]byte, 16)); err != nil {
		t.Fatalf("Primitive with a 16-byte key: %v", err)
	}
}

func TestKeyManagerNewKeyDataSizes(t *testing.T) {
	km := NewKeyManager()

	kd, err := km.NewKeyData(nil)
	if err != nil {
		t.Fatalf("NewKeyData(nil): %v", err)
	}
	if len(kd.Value) != 32 {
		t.Fatalf("default key size = %d, want 32", len(kd.Value))
	}
	if kd.TypeUrl != FF3KeyTypeURL {
		t.Fatalf("TypeUrl = %q, want %q", kd.TypeUrl, FF3KeyTypeURL)
	}

	kd128, err := km.NewKeyData([]byte{16})
	if err != nil {
		t.Fatalf("NewKeyData([16]): %v", err)
	}
	if len(kd128.Value) != 16 {
		t.Fatalf("templated key size = %d, want 16", len(kd128.Value))
	}

	if _, err := km.NewKeyData([]byte{20}); err == nil {
		t.Fatal("expected error for an unsupported key size")
	}
}

func TestKeyTemplatesCarrySize(t *testing.T) {
	cases := []struct {
		name     string
		template func() []byte
	}{
		{"aes128", func() []byte { return KeyTemplateAES128().Value }},
		{"aes192", func() []byte { return KeyTemplateAES192().Value }},
		{"aes256", func() []byte { return KeyTemplateAES256().Value }},
	}
	want := map[string]int{"aes128": 16, "aes192": 24, "aes256": 32}
	for _, tc := range cases {
		v := tc.template()
		if len(v) != 1 || int(v[0]) != want[tc.name] {
			t.Fatalf("%s template value = %v, want [%d]", tc.name, v, want[tc.name])
		}
	}
}

func TestNewBuildsCipherFromKeysetHandle(t *testing.T) {
	ensureKeyManagerRegistered(t)

	handle, err := keyset.NewHandle(KeyTemplateAES128())
	if err != nil {
		t.Fatalf("keyset.NewHandle: %v", err)
	}

	tweak := []byte{0xD8, 0xE7, 0x92, 0x0A, 0xFA, 0x33, 0x0A}
	c, err := New(handle, "0123456789", tweak)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plaintext := "123456789012"
	ct, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ct) != len(plaintext) {
		t.Fatalf("length not preserved: %d vs %d", len(ct), len(plaintext))
	}
	pt, err := c.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if pt != plaintext {
		t.Fatalf("round-trip = %q, want %q", pt, plaintext)
	}
}

func TestNewRejectsNilHandle(t *testing.T) {
	if _, err := New(nil, "0123456789", nil); err == nil {
		t.Fatal("expected error for a nil keyset handle")
	}
}

func TestNewKeysetHandleFromKeyRoundTrip(t *testing.T) {
	ensureKeyManagerRegistered(t)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	handle, err := NewKeysetHandleFromKey(key)
	if err != nil {
		t.Fatalf("NewKeysetHandleFromKey: %v", err)
	}

	c, err := New(handle, "0123456789", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plaintext := "123456789012"
	ct, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := c.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if pt != plaintext {
		t.Fatalf("round-trip = %q, want %q", pt, plaintext)
	}
}

func TestNewKeysetHandleFromKeyRejectsBadSize(t *testing.T) {
	if _, err := NewKeysetHandleFromKey(make([]byte, 10)); err == nil {
		t.Fatal("expected error for a 10-byte key")
	}
}
