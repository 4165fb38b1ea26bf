package subtle

import (
	"crypto/cipher"
	"fmt"
)

const (
	numRounds      = 8
	feistelBlockSz = 16
)

// Feistel implements the eight-round unbalanced Feistel cipher shared by
// FF3-1 and the withdrawn FF3, operating on digit vectors over radix r.
//
// The underlying block cipher is any cipher.Block whose block size
// evenly divides 16: AES (block size 16) is used directly; a cipher with
// an 8-byte block (3DES, for the BPS legacy path) is driven by
// encrypting each 8-byte half of the 16-byte P/S values independently.
// Feistel does not reverse the caller's key; per NIST SP 800-38G,
// callers must construct block from the byte-reversed key (ff3.NewCipher
// does this; ff3.NewCipherFromBlock does not).
type Feistel struct {
	block          cipher.Block
	radix          uint32
	minLen, maxLen uint32
}

// NewFeistel validates block and the radix/length bounds and returns a
// ready-to-use Feistel cipher.
func NewFeistel(block cipher.Block, radix uint32, minLen, maxLen uint32) (*Feistel, error) {
	if block == nil {
		return nil, fmt.Errorf("subtle: block cipher must not be nil")
	}
	bs := block.BlockSize()
	if bs <= 0 || feistelBlockSz%bs != 0 {
		return nil, fmt.Errorf("subtle: block size %d cannot be composed into a %d-byte FF3-1 block", bs, feistelBlockSz)
	}
	if radix < 2 || radix > 65536 {
		return nil, fmt.Errorf("subtle: radix %d outside [2, 65536]", radix)
	}
	if minLen < 2 {
		return nil, fmt.Errorf("subtle: minLen %d below the required minimum of 2", minLen)
	}
	if maxLen < minLen {
		return nil, fmt.Errorf("subtle: maxLen %d below minLen %d", maxLen, minLen)
	}
	return &Feistel{block: block, radix: radix, minLen: minLen, maxLen: maxLen}, nil
}

// Radix, MinLen, MaxLen expose the configured bounds for callers (the
// ff3 facade and Bps) that need to validate inputs against them.
func (f *Feistel) Radix() uint32  { return f.radix }
func (f *Feistel) MinLen() uint32 { return f.minLen }
func (f *Feistel) MaxLen() uint32 { return f.maxLen }

// encryptRaw encrypts exactly one 16-byte block, chunking across the
// underlying cipher's native block size when it is smaller than 16.
func (f *Feistel) encryptRaw(dst, src []byte) {
	bs := f.block.BlockSize()
	if bs == feistelBlockSz {
		f.block.Encrypt(dst, src)
		return
	}
	for off := 0; off < feistelBlockSz; off += bs {
		f.block.Encrypt(dst[off:off+bs], src[off:off+bs])
	}
}

// Encrypt runs the eight forward Feistel rounds over src, writing the
// result (same length as src) into dst. dst may be src itself; when dst
// and src do not start at the same element, src is zeroed before return
// (including on the error path), so a dst that only partly overlaps src
// does not keep its result.
func (f *Feistel) Encrypt(dst, src []uint16, tweak []byte, legacyTweak bool) error {
	return f.crypt(dst, src, tweak, legacyTweak, true)
}

// Decrypt is the inverse of Encrypt.
func (f *Feistel) Decrypt(dst, src []uint16, tweak []byte, legacyTweak bool) error {
	return f.crypt(dst, src, tweak, legacyTweak, false)
}

func (f *Feistel) crypt(dst, src []uint16, tweak []byte, legacyTweak, encrypt bool) (err error) {
	n := len(src)
	distinct := len(dst) == 0 || len(src) == 0 || &dst[0] != &src[0]
	defer func() {
		if distinct {
			zeroDigits(src)
		}
	}()
	if n < int(f.minLen) || n > int(f.maxLen) {
		return fmt.Errorf("subtle: input length %d outside [%d, %d]", n, f.minLen, f.maxLen)
	}
	if len(dst) < n {
		return fmt.Errorf("subtle: destination buffer shorter than input")
	}
	for i, d := range src {
		if uint32(d) >= f.radix {
			return fmt.Errorf("subtle: digit %d at position %d out of range for radix %d", d, i, f.radix)
		}
	}

	tl, tr, err := SplitTweak(tweak, legacyTweak)
	if err != nil {
		return err
	}

	u := (n + 1) / 2
	v := n - u

	A := make([]uint16, u)
	B := make([]uint16, v)
	copy(A, src[:u])
	copy(B, src[u:])
	C := make([]uint16, u) // u >= v always, so u-sized C fits either role

	du := RadixPow(f.radix, uint32(u))
	dv := RadixPow(f.radix, uint32(v))
	divU := NewDivisor(du)
	divV := NewDivisor(dv)

	var P, revP, S [feistelBlockSz]byte

	defer func() {
		zeroBytes(P[:])
		zeroBytes(revP[:])
		zeroBytes(S[:])
		zeroDigits(A)
		zeroDigits(B)
		zeroDigits(C)
	}()

	order := make([]int, numRounds)
	for i := range order {
		if encrypt {
			order[i] = i
		} else {
			order[i] = numRounds - 1 - i
		}
	}

	for _, i := range order {
		var (
			m    int
			w    [4]byte
			dM   BigAcc
			divM Divisor
		)
		if i%2 == 0 {
			m, w, dM, divM = u, tr, du, divU
		} else {
			m, w, dM, divM = v, tl, dv, divV
		}

		var side []uint16
		if encrypt {
			side = B
		} else {
			side = A
		}

		P[0], P[1], P[2] = w[0], w[1], w[2]
		P[3] = w[3] ^ byte(i)
		numSide := numRev(side, f.radix)
		numSide.CopyTo(P[4:16])

		reverseBytes(revP[:], P[:])
		f.encryptRaw(S[:], revP[:])
		reverseBytesInPlace(S[:])

		y := NewBigAcc128FromBytes(S[:]).ReduceMod(divM)

		var c BigAcc
		if encrypt {
			c = addMod(numRev(A, f.radix), y, divM)
		} else {
			c = subMod(numRev(B, f.radix), y, dM, divM)
		}
		strRevFill(c, f.radix, C[:m])

		if encrypt {
			newB := make([]uint16, m)
			copy(newB, C[:m])
			A, B = B, newB
		} else {
			newA := make([]uint16, m)
			copy(newA, C[:m])
			B, A = A, newA
		}
	}

	// After an even number of rounds A/B are back in their original-length
	// roles (len(A)==u, len(B)==v); the swap guard covers any future
	// change to numRounds that would break that parity.
	if len(A) != u || len(B) != v {
		A, B = B, A
	}
	copy(dst[:u], A)
	copy(dst[u:n], B)
	return nil
}

// numRev computes NUM_r(REV(digits)): folding from the last index to the
// first, acc <- acc*r + digits[i]. Equivalently, digits[0] is the least
// significant digit of the resulting value.
func numRev(digits []uint16, radix uint32) BigAcc {
	acc := ZeroAcc()
	for i := len(digits) - 1; i >= 0; i-- {
		acc = acc.MulAdd(uint64(radix), uint32(digits[i]))
	}
	return acc
}

// strRevFill is the inverse of numRev: it writes successive remainders
// of dividing c by radix into increasing positions of dest, so dest[0]
// ends up as the least significant digit.
func strRevFill(c BigAcc, radix uint32, dest []uint16) {
	rAcc := FromUint32(radix)
	for i := 0; i < len(dest); i++ {
		q, r := c.DivRem(rAcc)
		dest[i] = uint16(r.Lo)
		c = q
	}
}

func widen128(a BigAcc) BigAcc128 {
	return BigAcc128{limbs: [4]uint32{a.Lo, a.Mid, a.Hi, 0}}
}

// addMod computes (x+y) mod div.Value. x and y are each already reduced
// modulo div.Value, so their sum fits comfortably in 128 bits even
// though it may exceed BigAcc's 96-bit range, hence routing through
// BigAcc128 rather than BigAcc.Add, which treats any such overflow as a
// library fault.
func addMod(x, y BigAcc, div Divisor) BigAcc {
	sum := widen128(x).add(widen128(y))
	return sum.ReduceMod(div)
}

// subMod computes (x + d.Value - y) mod div.Value: adding the modulus
// first avoids any unsigned underflow from x - y.
func subMod(x, y, d BigAcc, div Divisor) BigAcc {
	t := widen128(x).add(widen128(d))
	t = t.sub(widen128(y))
	return t.ReduceMod(div)
}

func reverseBytes(dst, src []byte) {
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = src[n-1-i]
	}
}

func reverseBytesInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func zeroDigits(d []uint16) {
	for i := range d {
		d[i] = 0
	}
}
