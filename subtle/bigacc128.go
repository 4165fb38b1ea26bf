package subtle

// BigAcc128 is a 128-bit unsigned accumulator. Its primary job is
// reducing the 16-byte raw cipher output S (read as a big-endian
// 128-bit integer) modulo r^m; feistel.go's addMod/subMod also widen a
// BigAcc operand pair into BigAcc128 to add or subtract them without
// risking a false overflow fault from BigAcc.Add/Sub, then narrow the
// result back.
type BigAcc128 struct {
	limbs [4]uint32 // limbs[0] is least significant
}

// NewBigAcc128FromBytes reads a big-endian 16-byte slice into a BigAcc128.
func NewBigAcc128FromBytes(b []byte) BigAcc128 {
	var acc BigAcc128
	acc.limbs[3] = be32(b[0:4])
	acc.limbs[2] = be32(b[4:8])
	acc.limbs[1] = be32(b[8:12])
	acc.limbs[0] = be32(b[12:16])
	return acc
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Divisor is a BigAcc value precomputed once per half-length m, together
// with the shifted form used by BigAcc128.ReduceMod's shift-and-subtract
// reduction.
type Divisor struct {
	Value   BigAcc
	Shift   uint
	shifted BigAcc
}

// NewDivisor precomputes the normalized (shifted) form of value: the
// shift count is CountLeadingZeros(value), so that the shifted form occupies the
// top bit of the 96-bit range.
func NewDivisor(value BigAcc) Divisor {
	shift := value.CountLeadingZeros()
	return Divisor{
		Value:   value,
		Shift:   shift,
		shifted: value.Shl(shift),
	}
}

// widenedShifted returns the Divisor's 96-bit shifted value widened into
// a BigAcc128 by one zero limb at the low end, so it can be compared
// against and subtracted from the 128-bit dividend directly.
func (d Divisor) widenedShifted() BigAcc128 {
	return BigAcc128{limbs: [4]uint32{0, d.shifted.Lo, d.shifted.Mid, d.shifted.Hi}}
}

func (x BigAcc128) cmp(y BigAcc128) int {
	for i := 3; i >= 0; i-- {
		if x.limbs[i] != y.limbs[i] {
			if x.limbs[i] < y.limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// add returns x+y. Overflow out of the top limb is silently dropped: all
// callers in this package keep both operands strictly below r^m <= 2^96,
// so their sum never exceeds 2^97 and always fits in 128 bits.
func (x BigAcc128) add(y BigAcc128) BigAcc128 {
	var out BigAcc128
	var carry uint64
	for i := 0; i < 4; i++ {
		s := uint64(x.limbs[i]) + uint64(y.limbs[i]) + carry
		out.limbs[i] = uint32(s)
		carry = s >> 32
	}
	return out
}

func (x BigAcc128) sub(y BigAcc128) BigAcc128 {
	var out BigAcc128
	var borrow uint32
	for i := 0; i < 4; i++ {
		out.limbs[i], borrow = subBorrow(x.limbs[i], y.limbs[i], borrow)
	}
	return out
}

func (x BigAcc128) shr1() BigAcc128 {
	var out BigAcc128
	for i := 0; i < 4; i++ {
		out.limbs[i] = x.limbs[i] >> 1
		if i+1 < 4 {
			out.limbs[i] |= x.limbs[i+1] << 31
		}
	}
	return out
}

func (x BigAcc128) isZero() bool {
	return x.limbs[0] == 0 && x.limbs[1] == 0 && x.limbs[2] == 0 && x.limbs[3] == 0
}

func (x BigAcc128) narrow() BigAcc {
	if x.limbs[3] != 0 {
		internalFault("BigAcc128.narrow: value does not fit in 96 bits")
	}
	return BigAcc{Lo: x.limbs[0], Mid: x.limbs[1], Hi: x.limbs[2]}
}

// Zero overwrites the accumulator's limbs with zero. The reduction
// scratch buffer is zeroized this way once it is no longer needed.
func (x *BigAcc128) Zero() {
	x.limbs[0], x.limbs[1], x.limbs[2], x.limbs[3] = 0, 0, 0, 0
}

// ReduceMod computes x mod d.Value using the shift-and-subtract method:
// the widened, normalized divisor is repeatedly compared against a
// shrinking copy of x and subtracted when it fits, across d.Shift+32+1
// iterations (32 extra because the divisor was widened by one 32-bit
// zero limb to match the 128-bit dividend). After the loop the
// remainder is guaranteed to fit in 96 bits; ReduceMod zeroizes its
// scratch accumulator before returning.
func (x BigAcc128) ReduceMod(d Divisor) BigAcc {
	shifted := d.widenedShifted()
	remainder := x

	iterations := 32 + d.Shift + 1
	for i := uint(0); i < iterations; i++ {
		if remainder.cmp(shifted) >= 0 {
			remainder = remainder.sub(shifted)
		}
		if i != iterations-1 {
			shifted = shifted.shr1()
		}
	}
	result := remainder.narrow()
	remainder.Zero()
	return result
}
