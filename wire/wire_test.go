package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distgraph/internal/bitset"
)

func TestBufferReaderRoundTrip(t *testing.T) {
	w := NewBuffer(16)
	w.PutU8(7)
	w.PutU32(0xDEADBEEF)
	w.PutU64(1 << 40)
	w.PutU32s([]uint32{1, 2, 3})
	w.PutU64s([]uint64{9, 8})

	r := NewReader(w.Bytes())

	v8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), v8)

	v32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := r.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), v64)

	vs32, err := r.U32s()
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, vs32)

	vs64, err := r.U64s()
	require.NoError(t, err)
	require.Equal(t, []uint64{9, 8}, vs64)

	require.Equal(t, 0, r.Remaining())

	_, err = r.U8()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestInspection_RoundTrip(t *testing.T) {
	in := bitset.New(100)
	in.Set(5)
	in.Set(42)

	w := NewBuffer(0)
	EncodeInspection(w, []uint64{0, 3, 1}, in)

	merged := bitset.New(100)
	counts, err := DecodeInspection(NewReader(w.Bytes()), merged)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3, 1}, counts)
	require.Equal(t, []uint32{5, 42}, merged.Offsets())
}

func TestInspection_AbsentSections(t *testing.T) {
	w := NewBuffer(0)
	EncodeInspection(w, nil, nil)

	// two bare tag bytes
	require.Equal(t, []byte{0, 0}, w.Bytes())

	merged := bitset.New(10)
	counts, err := DecodeInspection(NewReader(w.Bytes()), merged)
	require.NoError(t, err)
	require.Nil(t, counts)
	require.Equal(t, uint64(0), merged.Count())
}

// The encoding switches between raw words and offset lists on the
// 4*popcount vs bit-length boundary; receivers reconstruct the same set
// either way.
func TestInspection_DenseSparseSwitchover(t *testing.T) {
	tests := []struct {
		name    string
		setBits int
		wantTag uint8
	}{
		{name: "sparse 3 of 100", setBits: 3, wantTag: incomingOffsets},
		{name: "dense 40 of 100", setBits: 40, wantTag: incomingDense},
		{name: "boundary 25 of 100 stays sparse", setBits: 25, wantTag: incomingOffsets},
		{name: "boundary 26 of 100 goes dense", setBits: 26, wantTag: incomingDense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bitset.New(100)
			want := make([]uint32, 0, tt.setBits)
			for i := 0; i < tt.setBits; i++ {
				in.Set(uint64(i * 2))
				want = append(want, uint32(i*2))
			}

			w := NewBuffer(0)
			EncodeInspection(w, nil, in)
			require.Equal(t, tt.wantTag, w.Bytes()[1], "incoming tag")

			merged := bitset.New(100)
			_, err := DecodeInspection(NewReader(w.Bytes()), merged)
			require.NoError(t, err)
			require.Equal(t, want, merged.Offsets())
		})
	}
}

func TestInspection_MergeIsUnion(t *testing.T) {
	// one sparse sender, one dense sender, one empty sender
	sparse := bitset.New(100)
	sparse.Set(1)
	dense := bitset.New(100)
	for i := uint64(0); i < 60; i++ {
		dense.Set(i)
	}

	merged := bitset.New(100)
	for _, b := range []*bitset.BitSet{sparse, dense, nil} {
		w := NewBuffer(0)
		EncodeInspection(w, nil, b)
		_, err := DecodeInspection(NewReader(w.Bytes()), merged)
		require.NoError(t, err)
	}

	require.Equal(t, uint64(60), merged.Count())
	for i := uint64(0); i < 60; i++ {
		require.True(t, merged.Test(i))
	}
}

func TestInspection_BadTags(t *testing.T) {
	merged := bitset.New(10)

	_, err := DecodeInspection(NewReader([]byte{9}), merged)
	var badTag *ErrBadTag
	require.ErrorAs(t, err, &badTag)
	require.Equal(t, "outgoing", badTag.Section)
	require.Equal(t, uint8(9), badTag.Tag)

	_, err = DecodeInspection(NewReader([]byte{0, 3}), merged)
	require.ErrorAs(t, err, &badTag)
	require.Equal(t, "incoming", badTag.Section)
	require.Equal(t, uint8(3), badTag.Tag)
}

func TestInspection_BitLengthMismatch(t *testing.T) {
	in := bitset.New(100)
	for i := uint64(0); i < 60; i++ {
		in.Set(i) // force dense encoding
	}
	w := NewBuffer(0)
	EncodeInspection(w, nil, in)

	merged := bitset.New(50)
	_, err := DecodeInspection(NewReader(w.Bytes()), merged)
	require.Error(t, err)
}

func TestEdgeRecord_RoundTrip(t *testing.T) {
	w := NewBuffer(0)
	AppendEdgeRecord(w, 11, []uint64{1, 2, 3}, []uint32{5, 7, 9})
	AppendEdgeRecord(w, 12, []uint64{4}, []uint32{1})

	r := NewReader(w.Bytes())

	rec, err := DecodeEdgeRecord(r, true)
	require.NoError(t, err)
	require.Equal(t, EdgeRecord{Src: 11, Dsts: []uint64{1, 2, 3}, Data: []uint32{5, 7, 9}}, rec)

	rec, err = DecodeEdgeRecord(r, true)
	require.NoError(t, err)
	require.Equal(t, EdgeRecord{Src: 12, Dsts: []uint64{4}, Data: []uint32{1}}, rec)

	require.Equal(t, 0, r.Remaining())
}

func TestEdgeRecord_NoData(t *testing.T) {
	w := NewBuffer(0)
	AppendEdgeRecord(w, 3, []uint64{8, 9}, nil)

	rec, err := DecodeEdgeRecord(NewReader(w.Bytes()), false)
	require.NoError(t, err)
	require.Equal(t, EdgeRecord{Src: 3, Dsts: []uint64{8, 9}}, rec)
}

func TestSealOpen(t *testing.T) {
	// compressible body
	body := make([]byte, 4096)
	for i := range body {
		body[i] = byte(i % 7)
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionS2} {
		sealed := Seal(c, body)
		opened, err := Open(sealed)
		require.NoError(t, err)
		require.Equal(t, body, opened)
		if c != CompressionNone {
			require.Less(t, len(sealed), len(body), "codec %d should shrink this body", c)
		}
	}
}

func TestSealOpen_IncompressibleFallsBack(t *testing.T) {
	// tiny body: compression overhead exceeds any gain
	body := []byte{1}
	for _, c := range []Compression{CompressionLZ4, CompressionS2} {
		sealed := Seal(c, body)
		require.Equal(t, uint8(CompressionNone), sealed[0])

		opened, err := Open(sealed)
		require.NoError(t, err)
		require.Equal(t, body, opened)
	}
}

func TestOpen_UnknownCodec(t *testing.T) {
	_, err := Open([]byte{99, 0, 0, 0, 0})
	var badCodec *ErrBadCodec
	require.ErrorAs(t, err, &badCodec)
	require.Equal(t, uint8(99), badCodec.Codec)
}

func TestOpen_Truncated(t *testing.T) {
	_, err := Open([]byte{0, 5, 0, 0, 0, 1, 2})
	require.ErrorIs(t, err, ErrTruncated)
}
