package wire

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated is returned when a message ends before a field completes.
var ErrTruncated = errors.New("wire: truncated message")

// Buffer is an append-only message writer.
type Buffer struct {
	b []byte
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written so far.
func (w *Buffer) Len() int { return len(w.b) }

// Bytes returns the written bytes. The slice aliases the buffer.
func (w *Buffer) Bytes() []byte { return w.b }

// Reset truncates the buffer, keeping its backing storage.
func (w *Buffer) Reset() { w.b = w.b[:0] }

// PutU8 appends a single byte.
func (w *Buffer) PutU8(v uint8) { w.b = append(w.b, v) }

// PutU32 appends a little-endian uint32.
func (w *Buffer) PutU32(v uint32) {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}

// PutU64 appends a little-endian uint64.
func (w *Buffer) PutU64(v uint64) {
	w.b = binary.LittleEndian.AppendUint64(w.b, v)
}

// PutU32s appends a u32 length prefix followed by the values.
func (w *Buffer) PutU32s(vs []uint32) {
	w.PutU32(uint32(len(vs)))
	for _, v := range vs {
		w.PutU32(v)
	}
}

// PutU64s appends a u32 length prefix followed by the values.
func (w *Buffer) PutU64s(vs []uint64) {
	w.PutU32(uint32(len(vs)))
	for _, v := range vs {
		w.PutU64(v)
	}
}

// Reader consumes a received message front to back.
type Reader struct {
	b   []byte
	off int
}

// NewReader creates a Reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.b) - r.off }

// U8 reads a single byte.
func (r *Reader) U8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrTruncated
	}
	v := r.b[r.off]
	r.off++
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(r.b[r.off:])
	r.off += 8
	return v, nil
}

// U32s reads a u32 length prefix followed by that many values.
func (r *Reader) U32s() ([]uint32, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if r.Remaining() < int(n)*4 {
		return nil, ErrTruncated
	}
	vs := make([]uint32, n)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint32(r.b[r.off:])
		r.off += 4
	}
	return vs, nil
}

// U64s reads a u32 length prefix followed by that many values.
func (r *Reader) U64s() ([]uint64, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if r.Remaining() < int(n)*8 {
		return nil, ErrTruncated
	}
	vs := make([]uint64, n)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint64(r.b[r.off:])
		r.off += 8
	}
	return vs, nil
}
