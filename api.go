// Package ff3 implements format-preserving encryption per NIST SP 800-38G
// Rev. 1 Draft ("FF3-1"), the original withdrawn "FF3" tweak variant, and
// the BPS whitepaper's CBC-like chaining mode for messages longer than a
// single FF3-1 block.
//
// Cipher is the string-facing facade; ff3/subtle holds the underlying
// digit-vector Feistel cipher and big-integer arithmetic for callers who
// need to work below the alphabet/string layer, and ff3/tinkff3 adapts
// Cipher to Tink's keyset/registry model.
package ff3

import (
	"crypto/aes"
	"crypto/cipher"
	"math"

	"github.com/vdparikh/ff3/subtle"
)

// cipherConfig collects the optional construction-time settings threaded
// through Option values, matching this codebase's existing small
// functional-option constructors rather than a public config struct.
type cipherConfig struct {
	minLen       uint32
	maxLen       uint32
	minLenSet    bool
	maxLenSet    bool
	legacyTweak  bool
	defaultTweak []byte
}

// Option configures a Cipher at construction time.
type Option func(*cipherConfig)

// WithLegacyTweak enables the withdrawn, original FF3 8-byte tweak
// convention for the Cipher's direct Encrypt/Decrypt methods (BPS entry
// points always use the 8-byte convention regardless of this option).
func WithLegacyTweak() Option {
	return func(c *cipherConfig) { c.legacyTweak = true }
}

// WithLengthBounds overrides the default minlen/maxlen derived from the
// alphabet's radix. Both bounds are still validated against NIST SP
// 800-38G's domain-size invariants (minlen >= 2, r^minlen >= 10^6,
// maxlen <= 2*floor(96*log_r 2)).
func WithLengthBounds(minLen, maxLen uint32) Option {
	return func(c *cipherConfig) {
		c.minLen, c.maxLen = minLen, maxLen
		c.minLenSet, c.maxLenSet = true, true
	}
}

// WithDefaultTweak sets the tweak used by Encrypt/Decrypt/EncryptBPS/
// DecryptBPS when no per-call tweak is given. A nil default (the
// zero value) is itself a valid all-zero tweak.
func WithDefaultTweak(tweak []byte) Option {
	return func(c *cipherConfig) { c.defaultTweak = tweak }
}

// Cipher is a configured FF3-1/FF3 engine bound to one alphabet and one
// key. It is not safe for concurrent use by multiple goroutines.
type Cipher struct {
	codec       *Codec
	feistel     *subtle.Feistel
	bps         *subtle.Bps
	legacyTweak bool
	defaultTw   []byte
}

// defaultBounds derives the minlen/maxlen pair NIST SP 800-38G implies
// for a given radix: minlen is the smallest n with r^n >= 10^6 (floored
// at 2), and maxlen is 2*floor(96 * log_r 2) = 2*floor(96 / log2(r)).
func defaultBounds(radix uint32) (minLen, maxLen uint32) {
	log2r := math.Log2(float64(radix))
	minLen = 2
	for pow := float64(radix) * float64(radix); pow < 1e6; pow *= float64(radix) {
		minLen++
	}
	maxLen = 2 * uint32(math.Floor(96/log2r))
	return minLen, maxLen
}

func validateBounds(radix, minLen, maxLen uint32) error {
	if radix < 2 || radix > 65536 {
		return configErrorf("NewCipher", "radix %d outside [2, 65536]", radix)
	}
	if minLen < 2 {
		return configErrorf("NewCipher", "minlen %d below the required minimum of 2", minLen)
	}
	log2r := math.Log2(float64(radix))
	minDomain := math.Pow(float64(radix), float64(minLen))
	if minDomain < 1e6 {
		return configErrorf("NewCipher", "radix^minlen (%d^%d) below the required minimum of 10^6", radix, minLen)
	}
	if maxLen < minLen {
		return configErrorf("NewCipher", "maxlen %d below minlen %d", maxLen, minLen)
	}
	limit := 2 * uint32(math.Floor(96/log2r))
	if maxLen > limit {
		return configErrorf("NewCipher", "maxlen %d exceeds the 96-bit trailer limit %d for radix %d", maxLen, limit, radix)
	}
	return nil
}

// ReverseKeyBytes returns a new slice holding key with its bytes in
// reverse order, the REVB(K) transform NIST SP 800-38G requires the
// block cipher to be loaded with. NewCipher applies this internally; it
// is exported for callers who construct their own cipher.Block and use
// NewCipherFromBlock.
func ReverseKeyBytes(key []byte) []byte {
	out := make([]byte, len(key))
	for i, b := range key {
		out[len(key)-1-i] = b
	}
	return out
}

// NewCipher builds a Cipher over alphabet using AES (chosen by key
// length: 16/24/32 bytes for AES-128/192/256) as the underlying block
// cipher, per NIST SP 800-38G's AES-for-FF3-1 requirement. key is the
// caller's logical key; it is byte-reversed internally before being
// loaded into AES, per the REVB key-reversal convention.
func NewCipher(alphabet string, key, tweak []byte, opts ...Option) (*Cipher, error) {
	block, err := aes.NewCipher(ReverseKeyBytes(key))
	if err != nil {
		return nil, configErrorf("NewCipher", "building AES cipher: %v", err)
	}
	return NewCipherFromBlock(alphabet, block, tweak, opts...)
}

// NewCipherFromBlock builds a Cipher over alphabet using an
// already-configured block cipher. block must already be loaded with
// the byte-reversed key (ReverseKeyBytes) if it is to interoperate with
// NewCipher-constructed ciphers using the same logical key; this
// constructor does not reverse anything for callers who supply their
// own cipher.Block (e.g. an HSM-backed implementation that applies its
// own key convention).
func NewCipherFromBlock(alphabet string, block cipher.Block, tweak []byte, opts ...Option) (*Cipher, error) {
	codec, err := NewCodec(alphabet)
	if err != nil {
		return nil, configErrorf("NewCipher", "%v", err)
	}
	radix := uint32(codec.Radix())

	cfg := cipherConfig{defaultTweak: tweak}
	for _, opt := range opts {
		opt(&cfg)
	}

	minLen, maxLen := cfg.minLen, cfg.maxLen
	if !cfg.minLenSet || !cfg.maxLenSet {
		dMin, dMax := defaultBounds(radix)
		if !cfg.minLenSet {
			minLen = dMin
		}
		if !cfg.maxLenSet {
			maxLen = dMax
		}
	}
	if err := validateBounds(radix, minLen, maxLen); err != nil {
		return nil, err
	}

	feistel, err := subtle.NewFeistel(block, radix, minLen, maxLen)
	if err != nil {
		return nil, configErrorf("NewCipher", "building Feistel core: %v", err)
	}

	return &Cipher{
		codec:       codec,
		feistel:     feistel,
		bps:         subtle.NewBps(feistel),
		legacyTweak: cfg.legacyTweak,
		defaultTw:   cfg.defaultTweak,
	}, nil
}

// Radix returns the configured alphabet size.
func (c *Cipher) Radix() int { return c.codec.Radix() }

// MinLen and MaxLen return the configured digit-vector length bounds.
func (c *Cipher) MinLen() uint32 { return c.feistel.MinLen() }
func (c *Cipher) MaxLen() uint32 { return c.feistel.MaxLen() }

func (c *Cipher) tweakOrDefault(tweak []byte) []byte {
	if tweak == nil {
		return c.defaultTw
	}
	return tweak
}

// Encrypt enciphers plaintext under the Cipher's default tweak, using a
// single FF3-1 (or legacy FF3, if WithLegacyTweak was set) Feistel call.
// plaintext's alphabet-valid symbol count must fall within [MinLen,
// MaxLen]; use EncryptBPS for longer inputs.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	return c.EncryptWithTweak(plaintext, c.defaultTw)
}

// Decrypt is the inverse of Encrypt.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	return c.DecryptWithTweak(ciphertext, c.defaultTw)
}

// EncryptWithTweak is Encrypt with an explicit per-call tweak override.
func (c *Cipher) EncryptWithTweak(plaintext string, tweak []byte) (string, error) {
	return c.crypt(plaintext, tweak, c.feistel.Encrypt)
}

// DecryptWithTweak is Decrypt with an explicit per-call tweak override.
func (c *Cipher) DecryptWithTweak(ciphertext string, tweak []byte) (string, error) {
	return c.crypt(ciphertext, tweak, c.feistel.Decrypt)
}

type digitCryptFn func(dst, src []uint16, tweak []byte, legacyTweak bool) error

func (c *Cipher) crypt(s string, tweak []byte, fn digitCryptFn) (string, error) {
	digits, formatting := c.codec.Decode(s)
	out := make([]uint16, len(digits))
	if err := fn(out, digits, c.tweakOrDefault(tweak), c.legacyTweak); err != nil {
		return "", inputErrorf("Cipher.crypt", "%v", err)
	}
	return c.codec.Encode(out, formatting)
}

// EncryptDigits and DecryptDigits expose the Feistel core directly on
// digit vectors ([]uint16 with values in [0, Radix())), for callers that
// have already done their own alphabet mapping. Because the returned
// slice is freshly allocated and distinct from digits, subtle.Feistel
// zeroizes digits before returning; pass a copy if the caller still
// needs the original values afterward.
func (c *Cipher) EncryptDigits(digits []uint16, tweak []byte) ([]uint16, error) {
	out := make([]uint16, len(digits))
	if err := c.feistel.Encrypt(out, digits, c.tweakOrDefault(tweak), c.legacyTweak); err != nil {
		return nil, inputErrorf("Cipher.EncryptDigits", "%v", err)
	}
	return out, nil
}

func (c *Cipher) DecryptDigits(digits []uint16, tweak []byte) ([]uint16, error) {
	out := make([]uint16, len(digits))
	if err := c.feistel.Decrypt(out, digits, c.tweakOrDefault(tweak), c.legacyTweak); err != nil {
		return nil, inputErrorf("Cipher.DecryptDigits", "%v", err)
	}
	return out, nil
}

// EncryptBPS enciphers plaintext of any length via BPS chaining,
// splitting into MaxLen()-sized blocks as needed, per the BPS
// whitepaper's CBC-like chaining mode. BPS always drives the Feistel
// core with the 8-byte legacy tweak
// convention: a nil tweak falls back to the Cipher's default tweak, a nil
// default yields an all-zero 8-byte tweak, and a non-nil tweak must be
// exactly 8 bytes.
func (c *Cipher) EncryptBPS(plaintext string, tweak []byte) (string, error) {
	digits, formatting := c.codec.Decode(plaintext)
	out := make([]uint16, len(digits))
	if err := c.bps.Encrypt(out, digits, c.tweakOrDefault(tweak)); err != nil {
		return "", inputErrorf("Cipher.EncryptBPS", "%v", err)
	}
	return c.codec.Encode(out, formatting)
}

// DecryptBPS is the inverse of EncryptBPS.
func (c *Cipher) DecryptBPS(ciphertext string, tweak []byte) (string, error) {
	digits, formatting := c.codec.Decode(ciphertext)
	out := make([]uint16, len(digits))
	if err := c.bps.Decrypt(out, digits, c.tweakOrDefault(tweak)); err != nil {
		return "", inputErrorf("Cipher.DecryptBPS", "%v", err)
	}
	return c.codec.Encode(out, formatting)
}
