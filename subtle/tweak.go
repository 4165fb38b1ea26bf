package subtle

import "fmt"

// TweakLenFF31 is the tweak length required for FF3-1 operation.
const TweakLenFF31 = 7

// TweakLenLegacy is the tweak length required for the withdrawn, original
// FF3 scheme, used when a caller selects the legacy rule (ff3's
// WithLegacyTweak) and always by the BPS chaining mode.
const TweakLenLegacy = 8

// SplitTweak derives (T_L, T_R), each 4 bytes, from a 7-byte FF3-1 tweak
// or an 8-byte legacy FF3 tweak, per NIST SP 800-38G Rev. 1. A nil tweak
// is treated as all-zero. legacy selects which of the two splitting
// rules applies; it must agree with the tweak's actual length.
func SplitTweak(tweak []byte, legacy bool) (tl, tr [4]byte, err error) {
	if tweak == nil {
		return tl, tr, nil
	}
	if legacy {
		if len(tweak) != TweakLenLegacy {
			return tl, tr, fmt.Errorf("subtle: legacy tweak must be %d bytes, got %d", TweakLenLegacy, len(tweak))
		}
		copy(tl[:], tweak[0:4])
		copy(tr[:], tweak[4:8])
		return tl, tr, nil
	}
	if len(tweak) != TweakLenFF31 {
		return tl, tr, fmt.Errorf("subtle: FF3-1 tweak must be %d bytes, got %d", TweakLenFF31, len(tweak))
	}
	tl[0], tl[1], tl[2] = tweak[0], tweak[1], tweak[2]
	tl[3] = tweak[3] & 0xF0
	tr[0], tr[1], tr[2] = tweak[4], tweak[5], tweak[6]
	tr[3] = tweak[3] << 4
	return tl, tr, nil
}
