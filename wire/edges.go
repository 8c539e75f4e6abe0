package wire

// EdgeRecord is one source's worth of edges shipped to their owning host:
// the source GID, the destination GIDs, and (when the graph carries edge
// data) one weight per destination.
//
// A message body is a back-to-back concatenation of records. A record is
// never split across messages; the staging buffer is flushed only at record
// boundaries.
type EdgeRecord struct {
	Src  uint64
	Dsts []uint64
	Data []uint32
}

// AppendEdgeRecord appends one record to a staging buffer. data must be nil
// iff the graph carries no edge data; otherwise len(data) == len(dsts).
func AppendEdgeRecord(w *Buffer, src uint64, dsts []uint64, data []uint32) {
	w.PutU64(src)
	w.PutU64s(dsts)
	if data != nil {
		w.PutU32s(data)
	}
}

// DecodeEdgeRecord reads the next record. hasData must match the sender's
// graph; record boundaries carry no self-describing marker.
func DecodeEdgeRecord(r *Reader, hasData bool) (EdgeRecord, error) {
	var rec EdgeRecord

	src, err := r.U64()
	if err != nil {
		return rec, err
	}
	dsts, err := r.U64s()
	if err != nil {
		return rec, err
	}
	rec.Src = src
	rec.Dsts = dsts

	if hasData {
		data, err := r.U32s()
		if err != nil {
			return rec, err
		}
		rec.Data = data
	}

	return rec, nil
}
