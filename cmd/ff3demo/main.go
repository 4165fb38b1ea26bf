// Command ff3demo exercises ff3.Cipher against a batch of randomly
// generated, realistically-shaped strings (SSNs, credit cards,
// alphanumeric tokens, emails, mixed-hyphenated strings) and reports
// whether each one round-trips.
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/keyset"

	"github.com/vdparikh/ff3/tinkff3"
)

// alphanumeric is the superset alphabet used for this demo: any
// character outside it (hyphens, dots, '@', ':') is treated by Codec as
// a formatting character and passed through unencrypted, so one Cipher
// handles every format below without per-format alphabet detection.
const alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func main() {
	keyManager := tinkff3.NewKeyManager()
	if err := registry.RegisterKeyManager(keyManager); err != nil {
		log.Fatalf("Failed to register FF3 KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(tinkff3.KeyTemplate())
	if err != nil {
		log.Fatalf("Failed to create keyset handle: %v", err)
	}
	fmt.Println("✓ Created keyset handle using KeyTemplate()")

	tweak := []byte{0xD8, 0xE7, 0x92, 0x0A, 0xFA, 0x33, 0x0A}
	cipher, err := tinkff3.New(handle, alphanumeric, tweak)
	if err != nil {
		log.Fatalf("Failed to create ff3 cipher: %v", err)
	}

	fmt.Println(strings.Repeat("=", 200))
	fmt.Printf("%-50s | %-50s | %-50s | %s\n", "Plaintext", "Ciphertext", "Decrypted", "Match?")
	fmt.Println(strings.Repeat("-", 200))

	for i := 0; i < 50; i++ {
		plaintext := generateRandomTestCase()
		if len(plaintext) < 4 {
			continue
		}

		ciphertext, err := cipher.Encrypt(plaintext)
		if err != nil {
			fatal("Failed to encrypt", err)
		}

		decrypted, err := cipher.Decrypt(ciphertext)
		if err != nil {
			fatal("Failed to decrypt", err)
		}

		matchStr := "false"
		if plaintext == decrypted {
			matchStr = "true"
		}

		fmt.Printf("%-50s | %-50s | %-50s | %s\n", plaintext, ciphertext, decrypted, matchStr)
	}
}

// generateRandomTestCase produces one of a handful of realistically
// formatted strings, enough to exercise Codec's formatting passthrough
// across digit-only, letter-only, and punctuated shapes without trying
// to enumerate every real-world format.
func generateRandomTestCase() string {
	formatType, _ := rand.Int(rand.Reader, big.NewInt(5))

	switch formatType.Int64() {
	case 0:
		return fmt.Sprintf("%s-%s-%s", randomDigits(3), randomDigits(2), randomDigits(4))
	case 1:
		return fmt.Sprintf("%s-%s-%s-%s", randomDigits(4), randomDigits(4), randomDigits(4), randomDigits(4))
	case 2:
		length, _ := rand.Int(rand.Reader, big.NewInt(10))
		return randomAlphanumeric(int(length.Int64()) + 5)
	case 3:
		userLen, _ := rand.Int(rand.Reader, big.NewInt(8))
		domainLen, _ := rand.Int(rand.Reader, big.NewInt(8))
		user := randomAlphanumeric(int(userLen.Int64()) + 3)
		domain := randomLetters(int(domainLen.Int64()) + 3)
		tlds := []string{"com", "org", "net", "edu", "gov", "io", "co"}
		tldIdx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(tlds))))
		return fmt.Sprintf("%s@%s.%s", user, domain, tlds[tldIdx.Int64()])
	default:
		length, _ := rand.Int(rand.Reader, big.NewInt(10))
		return randomMixedFormat(int(length.Int64()) + 5)
	}
}

func randomDigits(length int) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		digit, _ := rand.Int(rand.Reader, big.NewInt(10))
		result[i] = byte('0' + digit.Int64())
	}
	return string(result)
}

func randomLetters(length int) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		letter, _ := rand.Int(rand.Reader, big.NewInt(52))
		if letter.Int64() < 26 {
			result[i] = byte('A' + letter.Int64())
		} else {
			result[i] = byte('a' + letter.Int64() - 26)
		}
	}
	return string(result)
}

func randomAlphanumeric(length int) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		charType, _ := rand.Int(rand.Reader, big.NewInt(3))
		switch charType.Int64() {
		case 0:
			digit, _ := rand.Int(rand.Reader, big.NewInt(10))
			result[i] = byte('0' + digit.Int64())
		case 1:
			letter, _ := rand.Int(rand.Reader, big.NewInt(26))
			result[i] = byte('A' + letter.Int64())
		case 2:
			letter, _ := rand.Int(rand.Reader, big.NewInt(26))
			result[i] = byte('a' + letter.Int64())
		}
	}
	return string(result)
}

func randomMixedFormat(length int) string {
	var parts []string
	remaining := length
	for remaining > 0 {
		partLen := 3
		if remaining > 3 {
			partLenBig, _ := rand.Int(rand.Reader, big.NewInt(int64(remaining-2)))
			partLen = int(partLenBig.Int64()) + 2
		}
		if partLen > remaining {
			partLen = remaining
		}
		parts = append(parts, randomDigits(partLen))
		remaining -= partLen
		if remaining > 0 {
			remaining--
		}
	}
	return strings.Join(parts, "-")
}

func fatal(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}
