package tinkff3

import (
	"fmt"

	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"

	"github.com/vdparikh/ff3"
)

// New builds an *ff3.Cipher over alphabet from a Tink keyset handle's
// primary key. It extracts the raw key bytes the same way this
// codebase's other Tink integrations do: via
// insecurecleartextkeyset.KeysetMaterial, matched against the handle's
// primary key ID. Only symmetric (non-KMS-wrapped) key material is
// supported.
func New(handle *keyset.Handle, alphabet string, tweak []byte, opts ...ff3.Option) (*ff3.Cipher, error) {
	if handle == nil {
		return nil, fmt.Errorf("tinkff3: keyset handle cannot be nil")
	}

	primitives, err := handle.Primitives()
	if err != nil {
		return nil, fmt.Errorf("tinkff3: getting primitives from handle: %w", err)
	}
	primary := primitives.Primary
	if primary == nil {
		return nil, fmt.Errorf("tinkff3: no primary key found in keyset")
	}
	keyID := primary.KeyID

	ks := insecurecleartextkeyset.KeysetMaterial(handle)

	var keyBytes []byte
	for _, k := range ks.Key {
		if k.KeyId != keyID || k.KeyData == nil {
			continue
		}
		switch k.KeyData.GetKeyMaterialType() {
		case 1: // ENCRYPTED
			return nil, fmt.Errorf("tinkff3: encrypted keys via KMS are not supported - use symmetric keys")
		case 2: // SYMMETRIC
			keyBytes = k.KeyData.Value
		}
		break
	}
	if keyBytes == nil {
		return nil, fmt.Errorf("tinkff3: key with ID %d not found or unsupported key type", keyID)
	}

	c, err := ff3.NewCipher(alphabet, keyBytes, tweak, opts...)
	if err != nil {
		return nil, fmt.Errorf("tinkff3: building cipher: %w", err)
	}
	return c, nil
}
