package wire

import (
	"fmt"

	"github.com/hupe1980/distgraph/internal/bitset"
)

// Section tags for the outgoing-count section of an inspection message.
const (
	outgoingAbsent  = 0 // no outgoing edges toward the receiver
	outgoingPresent = 1 // count vector follows
)

// Section tags for the incoming-mirror section of an inspection message.
const (
	incomingEmpty   = 0 // nothing to report
	incomingDense   = 1 // raw bitset words follow
	incomingOffsets = 2 // set-bit offset list follows
)

// ErrBadTag is returned when a section tag is outside its valid set.
type ErrBadTag struct {
	Section string
	Tag     uint8
}

func (e *ErrBadTag) Error() string {
	return fmt.Sprintf("wire: invalid %s section tag %d", e.Section, e.Tag)
}

// EncodeInspection writes one inspection message body: the outgoing-count
// section followed by the incoming-mirror section.
//
// counts is nil when this host read no edges destined for the receiver.
// incoming is nil when no destination on the receiver needs a mirror; a
// non-nil bitset is serialized dense (raw words) when 4*popcount exceeds
// its bit length and as an offset list otherwise.
func EncodeInspection(w *Buffer, counts []uint64, incoming *bitset.BitSet) {
	if counts != nil {
		w.PutU8(outgoingPresent)
		w.PutU64s(counts)
	} else {
		w.PutU8(outgoingAbsent)
	}

	if incoming == nil || incoming.Len() == 0 {
		w.PutU8(incomingEmpty)
		return
	}

	popcount := incoming.Count()
	if 4*popcount > incoming.Len() {
		w.PutU8(incomingDense)
		w.PutU64(incoming.Len())
		w.PutU64s(incoming.Words())
	} else {
		w.PutU8(incomingOffsets)
		w.PutU32s(incoming.Offsets())
	}
}

// DecodeInspection reads one inspection message body. The decoded
// outgoing-count vector is returned (nil when the sender had none) and the
// incoming-mirror bits are OR-merged into the provided bitset.
func DecodeInspection(r *Reader, incoming *bitset.BitSet) ([]uint64, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}

	var counts []uint64
	switch tag {
	case outgoingPresent:
		if counts, err = r.U64s(); err != nil {
			return nil, err
		}
	case outgoingAbsent:
	default:
		return nil, &ErrBadTag{Section: "outgoing", Tag: tag}
	}

	tag, err = r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case incomingEmpty:
	case incomingDense:
		nbits, err := r.U64()
		if err != nil {
			return nil, err
		}
		if nbits != incoming.Len() {
			return nil, fmt.Errorf("wire: incoming bitset holds %d bits, expected %d", nbits, incoming.Len())
		}
		words, err := r.U64s()
		if err != nil {
			return nil, err
		}
		incoming.Or(words)
	case incomingOffsets:
		offsets, err := r.U32s()
		if err != nil {
			return nil, err
		}
		for _, off := range offsets {
			incoming.Set(uint64(off))
		}
	default:
		return nil, &ErrBadTag{Section: "incoming", Tag: tag}
	}

	return counts, nil
}
