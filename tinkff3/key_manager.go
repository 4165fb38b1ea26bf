// Package tinkff3 adapts ff3.Cipher to Tink's keyset/registry model,
// mirroring the key-manager-plus-factory pattern this codebase already
// uses for its Tink integrations.
package tinkff3

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/proto/tink_go_proto"
	"google.golang.org/protobuf/proto"

	"github.com/vdparikh/ff3"
)

// FF3KeyTypeURL is the type URL for FF3-1 keys in Tink's registry.
const FF3KeyTypeURL = "type.googleapis.com/google.crypto.tink.Ff3_1Key"

// defaultAlphabet is the alphabet the registry path (Primitive,
// NewKeyData) builds Ciphers with when no alphabet is otherwise
// available; it matches this codebase's long-standing default for
// PAN/SSN-shaped data. Callers needing a different alphabet should call
// New directly rather than going through the registry.
const defaultAlphabet = "0123456789"

// KeyManager implements registry.KeyManager for FF3-1 keys.
type KeyManager struct {
	typeURL string
}

// NewKeyManager creates a new FF3-1 key manager.
func NewKeyManager() *KeyManager {
	return &KeyManager{typeURL: FF3KeyTypeURL}
}

// Primitive builds an ff3.Cipher over the default digit alphabet from a
// raw serialized AES key (16, 24, or 32 bytes).
func (km *KeyManager) Primitive(serializedKey []byte) (interface{}, error) {
	keyLen := len(serializedKey)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be 16, 24, or 32)", keyLen)
	}
	c, err := ff3.NewCipher(defaultAlphabet, serializedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("building ff3.Cipher: %w", err)
	}
	return c, nil
}

// DoesSupport returns true if this KeyManager supports the given key type URL.
func (km *KeyManager) DoesSupport(typeURL string) bool {
	return typeURL == km.typeURL
}

// TypeURL returns the type URL of the keys managed by this KeyManager.
func (km *KeyManager) TypeURL() string {
	return km.typeURL
}

// NewKey is not implemented: key generation goes through NewKeyData,
// which returns a KeyData directly rather than a protobuf key message.
func (km *KeyManager) NewKey(serializedKeyTemplate []byte) (proto.Message, error) {
	return nil, fmt.Errorf("tinkff3: NewKey not implemented, use NewKeyData")
}

// NewKeyData generates a new random AES key of the size encoded in
// serializedKeyTemplate's single byte (defaulting to 32 when empty) and
// wraps it as Tink KeyData.
func (km *KeyManager) NewKeyData(serializedKeyTemplate []byte) (*tink_go_proto.KeyData, error) {
	keySize := 32
	if len(serializedKeyTemplate) > 0 {
		keySize = int(serializedKeyTemplate[0])
		if keySize != 16 && keySize != 24 && keySize != 32 {
			return nil, fmt.Errorf("invalid key size in template: %d bytes (must be 16, 24, or 32)", keySize)
		}
	}
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating random key: %w", err)
	}
	return &tink_go_proto.KeyData{
		TypeUrl:         km.typeURL,
		Value:           key,
		KeyMaterialType: 2, // SYMMETRIC
	}, nil
}

var _ registry.KeyManager = (*KeyManager)(nil)

// KeyTemplate returns the default (AES-256) key template for FF3-1 keys.
func KeyTemplate() *tink_go_proto.KeyTemplate {
	return KeyTemplateAES256()
}

// KeyTemplateAES128 requests a 16-byte AES-128 key.
func KeyTemplateAES128() *tink_go_proto.KeyTemplate {
	return keyTemplate(16)
}

// KeyTemplateAES192 requests a 24-byte AES-192 key.
func KeyTemplateAES192() *tink_go_proto.KeyTemplate {
	return keyTemplate(24)
}

// KeyTemplateAES256 requests a 32-byte AES-256 key.
func KeyTemplateAES256() *tink_go_proto.KeyTemplate {
	return keyTemplate(32)
}

func keyTemplate(keySize byte) *tink_go_proto.KeyTemplate {
	return &tink_go_proto.KeyTemplate{
		TypeUrl:          FF3KeyTypeURL,
		Value:            []byte{keySize},
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
}

// NewKeysetHandleFromKey wraps a raw key (e.g. one issued by an HSM or an
// external KMS that Tink has no client for) in a single-key, unencrypted
// keyset handle so it can be passed to New. key must be 16, 24, or 32
// bytes (AES-128, AES-192, or AES-256).
//
// This produces an unencrypted keyset; callers persisting it should
// encrypt it first, e.g. via keyset.Write with an AEAD primitive.
func NewKeysetHandleFromKey(key []byte) (*keyset.Handle, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key size: %d bytes (must be 16, 24, or 32)", keyLen)
	}

	keyIDBytes := make([]byte, 4)
	if _, err := rand.Read(keyIDBytes); err != nil {
		return nil, fmt.Errorf("generating key ID: %w", err)
	}
	keyID := binary.BigEndian.Uint32(keyIDBytes)

	keyData := &tink_go_proto.KeyData{
		TypeUrl:         FF3KeyTypeURL,
		Value:           key,
		KeyMaterialType: 2, // SYMMETRIC
	}
	keysetKey := &tink_go_proto.Keyset_Key{
		KeyData:          keyData,
		KeyId:            keyID,
		Status:           tink_go_proto.KeyStatusType_ENABLED,
		OutputPrefixType: tink_go_proto.OutputPrefixType_RAW,
	}
	ks := &tink_go_proto.Keyset{
		PrimaryKeyId: keyID,
		Key:          []*tink_go_proto.Keyset_Key{keysetKey},
	}

	buf := &keyset.MemReaderWriter{Keyset: ks}
	return insecurecleartextkeyset.Read(buf)
}
