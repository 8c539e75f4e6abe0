package bitset

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is a fixed-capacity bit vector. Concurrent Set calls are safe
// (word-granularity atomic OR); all other methods require that no Set is
// running concurrently.
type BitSet struct {
	words []atomic.Uint64
	nbits uint64
}

// New creates a BitSet able to hold nbits bits, all clear.
func New(nbits uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, (nbits+63)/64),
		nbits: nbits,
	}
}

// FromWords reconstructs a BitSet of nbits bits from a raw word array, as
// produced by Words on the sending side.
func FromWords(nbits uint64, words []uint64) *BitSet {
	b := New(nbits)
	for i, w := range words {
		b.words[i].Store(w)
	}
	return b
}

// Len returns the capacity in bits.
func (b *BitSet) Len() uint64 {
	return b.nbits
}

// Set sets bit i. Safe for concurrent use.
func (b *BitSet) Set(i uint64) {
	b.words[i>>6].Or(1 << (i & 63))
}

// Test reports whether bit i is set.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.nbits {
		return false
	}
	return b.words[i>>6].Load()&(1<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *BitSet) Count() uint64 {
	var n uint64
	for i := range b.words {
		n += uint64(bits.OnesCount64(b.words[i].Load()))
	}
	return n
}

// Reset clears all bits.
func (b *BitSet) Reset() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}

// Or merges raw words into the receiver. The word array must not be longer
// than the receiver's own.
func (b *BitSet) Or(words []uint64) {
	for i, w := range words {
		if w != 0 {
			b.words[i].Or(w)
		}
	}
}

// OrBitSet merges another BitSet into the receiver.
func (b *BitSet) OrBitSet(other *BitSet) {
	for i := range other.words {
		if w := other.words[i].Load(); w != 0 {
			b.words[i].Or(w)
		}
	}
}

// Words returns a snapshot of the backing word array.
func (b *BitSet) Words() []uint64 {
	out := make([]uint64, len(b.words))
	for i := range b.words {
		out[i] = b.words[i].Load()
	}
	return out
}

// Offsets returns the indices of all set bits in ascending order. This is
// the sparse serialization view: cheaper than Words when few bits are set.
func (b *BitSet) Offsets() []uint32 {
	out := make([]uint32, 0, b.Count())
	for i := range b.words {
		w := b.words[i].Load()
		for w != 0 {
			t := bits.TrailingZeros64(w)
			out = append(out, uint32(i*64+t))
			w &^= 1 << t
		}
	}
	return out
}
