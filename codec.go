package ff3

// FormatEntry records a single non-alphabet character and the position
// (in the original string, and thus in the final output) it occupies.
// Formatting characters do not participate in enciphering; they are
// carried through verbatim by position.
type FormatEntry struct {
	Offset int
	Symbol rune
}

// Codec translates between a displayable string and the (digit vector,
// formatting list) pair the Feistel/Bps layers operate on. It is built
// once from an ordered alphabet and reused across calls; it holds no
// per-call state.
type Codec struct {
	alphabet []rune
	index    map[rune]int
}

// NewCodec builds a Codec from alphabet, an ordered sequence of distinct
// symbols. Radix bounds ([2, 65536]) are enforced by Cipher construction,
// not here; Codec itself only needs distinctness.
func NewCodec(alphabet string) (*Codec, error) {
	runes := []rune(alphabet)
	index := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := index[r]; dup {
			return nil, inputErrorf("NewCodec", "duplicate alphabet symbol %q", r)
		}
		index[r] = i
	}
	return &Codec{alphabet: runes, index: index}, nil
}

// Radix returns the alphabet size.
func (c *Codec) Radix() int { return len(c.alphabet) }

// Decode scans s left to right. Each character present in the alphabet
// becomes a digit in the returned vector; every other character is
// recorded in the formatting list together with its position, and does
// not contribute a digit.
func (c *Codec) Decode(s string) (digits []uint16, formatting []FormatEntry) {
	runes := []rune(s)
	digits = make([]uint16, 0, len(runes))
	for i, r := range runes {
		if k, ok := c.index[r]; ok {
			digits = append(digits, uint16(k))
		} else {
			formatting = append(formatting, FormatEntry{Offset: i, Symbol: r})
		}
	}
	return digits, formatting
}

// Encode is the inverse of Decode: it interleaves digits (mapped back
// through the alphabet) with the recorded formatting characters, each
// restored to its original offset. The result has length
// len(digits)+len(formatting).
func (c *Codec) Encode(digits []uint16, formatting []FormatEntry) (string, error) {
	total := len(digits) + len(formatting)
	out := make([]rune, total)
	fi, di := 0, 0
	for p := 0; p < total; p++ {
		if fi < len(formatting) && formatting[fi].Offset == p {
			out[p] = formatting[fi].Symbol
			fi++
			continue
		}
		if di >= len(digits) {
			return "", inputErrorf("Codec.Encode", "not enough digits to fill position %d", p)
		}
		d := digits[di]
		if int(d) >= len(c.alphabet) {
			return "", inputErrorf("Codec.Encode", "digit %d at position %d out of range for alphabet size %d", d, di, len(c.alphabet))
		}
		out[p] = c.alphabet[d]
		di++
	}
	return string(out), nil
}
