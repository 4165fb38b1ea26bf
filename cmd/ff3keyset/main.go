// Command ff3keyset demonstrates keyset persistence: creating or loading
// a Tink keyset handle from a JSON file, then encrypting and decrypting
// one value through ff3.Cipher so that tokens stay stable across runs as
// long as the keyset file is reused.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"

	"github.com/vdparikh/ff3/tinkff3"
)

const alphabet = "0123456789"

func main() {
	keyManager := tinkff3.NewKeyManager()
	if err := registry.RegisterKeyManager(keyManager); err != nil {
		log.Fatalf("Failed to register FF3 KeyManager: %v", err)
	}

	keysetFile := "ff3_keyset.json"
	var handle *keyset.Handle
	var err error

	if _, statErr := os.Stat(keysetFile); statErr == nil {
		handle, err = loadKeyset(keysetFile)
		if err != nil {
			log.Fatalf("Failed to load existing keyset: %v", err)
		}
		fmt.Printf("✓ Loaded existing keyset from: %s (tokens will be consistent)\n", keysetFile)
	} else {
		handle, err = keyset.NewHandle(tinkff3.KeyTemplate())
		if err != nil {
			log.Fatalf("Failed to create keyset handle: %v", err)
		}
		fmt.Println("✓ Created new keyset handle using KeyTemplate()")

		// WARNING: insecurecleartextkeyset stores the key unencrypted; this
		// is fine for a demo but production use should wrap it with
		// keyset.Write() and an AEAD.
		if err := storeKeyset(handle, keysetFile); err != nil {
			log.Fatalf("Failed to store keyset: %v", err)
		}
		fmt.Printf("✓ Keyset stored to: %s (will be reused in future runs)\n", keysetFile)
	}

	tweak := []byte{0xD8, 0xE7, 0x92, 0x0A, 0xFA, 0x33, 0x0A}
	cipher, err := tinkff3.New(handle, alphabet, tweak)
	if err != nil {
		log.Fatalf("Failed to create ff3 cipher: %v", err)
	}

	plaintext := "123456789000"
	ciphertext, err := cipher.Encrypt(plaintext)
	if err != nil {
		log.Fatalf("Failed to encrypt: %v", err)
	}
	decrypted, err := cipher.Decrypt(ciphertext)
	if err != nil {
		log.Fatalf("Failed to decrypt: %v", err)
	}

	fmt.Printf("Plaintext:  %s\n", plaintext)
	fmt.Printf("Ciphertext: %s\n", ciphertext)
	fmt.Printf("Decrypted:  %s\n", decrypted)
	fmt.Printf("Match:      %v\n", plaintext == decrypted)
}

func storeKeyset(handle *keyset.Handle, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()
	writer := keyset.NewJSONWriter(file)
	return insecurecleartextkeyset.Write(handle, writer)
}

func loadKeyset(filename string) (*keyset.Handle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()
	reader := keyset.NewJSONReader(file)
	return insecurecleartextkeyset.Read(reader)
}
