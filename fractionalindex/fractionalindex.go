// Package fractionalindex provides a totally ordered key, backed by a
// variable-length byte slice, that supports generating a new key strictly
// between any two existing keys without renumbering the rest of the
// sequence.
package fractionalindex

import (
	"bytes"

	"github.com/pkg/errors"
)

// ErrPrecisionExhausted is returned by Generate and DistributedSequence when
// no key strictly between the two given keys can be produced, as when they
// are equal. Callers should treat this as fatal to the operation in progress
// and fall back to reassigning a whole subtree's indexes rather than
// retrying.
var ErrPrecisionExhausted = errors.New("fractionalindex: precision exhausted generating a key between two existing keys")

// Index is a totally ordered key. Two Index values compare lexicographically
// byte by byte, with any bytes past the shorter key's length treated as
// zero, so Index{1} < Index{1, 1} < Index{2}.
type Index struct {
	bytes []byte
}

// Start returns the least possible Index.
func Start() Index {
	return Index{bytes: []byte{0}}
}

// End returns the upper sentinel Index, {255}. Longer keys starting with
// 255 sort above it.
func End() Index {
	return Index{bytes: []byte{255}}
}

// Of wraps a raw byte slice as an Index. The slice is not copied; callers
// must not mutate it afterwards.
func Of(raw []byte) Index {
	return Index{bytes: raw}
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func Compare(a, b Index) int {
	longer := len(a.bytes)
	if len(b.bytes) > longer {
		longer = len(b.bytes)
	}
	for i := 0; i < longer; i++ {
		var av, bv byte
		if i < len(a.bytes) {
			av = a.bytes[i]
		}
		if i < len(b.bytes) {
			bv = b.bytes[i]
		}
		if av == bv {
			continue
		}
		if av < bv {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b Index) bool { return Compare(a, b) < 0 }

// Equal reports whether a and b are the same key.
func Equal(a, b Index) bool { return Compare(a, b) == 0 }

// String renders the Index as a comma separated list of byte values, purely
// for debugging.
func (idx Index) String() string {
	var buf bytes.Buffer
	for i, b := range idx.bytes {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(itoa(int(b)))
	}
	return buf.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [3]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

func midpointByte(smaller, larger byte) byte {
	switch {
	case smaller == larger || smaller+1 == larger:
		return smaller
	case smaller+2 == larger:
		return smaller + 1
	case smaller == 0 && larger == 255:
		return 255 / 8
	default:
		return (smaller / 2) + (larger / 2)
	}
}

// Generate returns a new Index strictly between previous and next by
// finding their longest common prefix and producing a midpoint byte for
// every trailing place, appending an extra place if the generated value
// would otherwise collide with previous.
func Generate(previous, next Index) (Index, error) {
	shorter, longer := len(previous.bytes), len(next.bytes)
	if longer < shorter {
		shorter, longer = longer, shorter
	}

	for prefixLen := shorter + 1; prefixLen >= 0; prefixLen-- {
		if prefixLen > len(previous.bytes) || prefixLen > len(next.bytes) {
			continue
		}
		if !bytes.Equal(previous.bytes[:prefixLen], next.bytes[:prefixLen]) {
			continue
		}

		result := append([]byte{}, previous.bytes[:prefixLen]...)
		for i := 0; i < longer; i++ {
			prevTail := byte(0)
			if prefixLen+i < len(previous.bytes) {
				prevTail = previous.bytes[prefixLen+i]
			}
			nextTail := byte(255)
			if prefixLen+i < len(next.bytes) {
				nextTail = next.bytes[prefixLen+i]
			}
			result = append(result, midpointByte(prevTail, nextTail))
		}

		if len(result) == len(previous.bytes) && bytes.Equal(result, previous.bytes) {
			result = append(result, midpointByte(0, 255))
		}
		if !Less(previous, Index{bytes: result}) || !Less(Index{bytes: result}, next) {
			return Index{}, errors.WithStack(ErrPrecisionExhausted)
		}
		return Index{bytes: result}, nil
	}

	return Index{}, errors.WithStack(ErrPrecisionExhausted)
}

// GenerateOrFallback is Generate, but treats a missing previous/next as
// Start()/End() respectively, matching the sentinel fallback behavior
// edit primitives rely on at the ends of a child list.
func GenerateOrFallback(previous, next *Index) (Index, error) {
	p, n := Start(), End()
	if previous != nil {
		p = *previous
	}
	if next != nil {
		n = *next
	}
	return Generate(p, n)
}

// DistributedSequence returns n keys strictly between start and end,
// produced by repeatedly bisecting the current sequence (including start
// and end as its two endpoints) until the interior has at least n keys,
// then truncating to exactly n. It errors if any bisection runs out of
// precision.
func DistributedSequence(start, end Index, n int) ([]Index, error) {
	if n == 0 {
		return nil, nil
	}

	seq := []Index{start, end}
	for len(seq)-2 < n {
		next := make([]Index, 0, len(seq)*2-1)
		for i := 0; i < len(seq); i++ {
			next = append(next, seq[i])
			if i+1 < len(seq) {
				mid, err := Generate(seq[i], seq[i+1])
				if err != nil {
					return nil, err
				}
				next = append(next, mid)
			}
		}
		seq = next
	}

	interior := seq[1 : len(seq)-1]
	out := make([]Index, n)
	copy(out, interior[:n])
	return out, nil
}

// DistributedSequenceOrFallback is DistributedSequence with Start()/End()
// fallbacks for missing bounds, mirroring GenerateOrFallback.
func DistributedSequenceOrFallback(start, end *Index, n int) ([]Index, error) {
	s, e := Start(), End()
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	return DistributedSequence(s, e, n)
}
