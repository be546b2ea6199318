package parhip

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func versionFromBits(i int) Version {
	return Version{
		HasEdgeWeights:     i&1 != 0,
		HasVertexWeights:   i&2 != 0,
		HasEdgeIDs32:       i&4 != 0,
		HasVertexIDs32:     i&8 != 0,
		HasVertexWeights32: i&16 != 0,
		HasEdgeWeights32:   i&32 != 0,
	}
}

func Test_VersionRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		v := versionFromBits(i)
		got := DecodeVersion(EncodeVersion(v))
		if v.HasVertexIDs32 == v.HasVertexWeights32 {
			require.Equal(t, v, got, "combination %d", i)
			continue
		}
		// Vertex id and vertex weight widths share one bit.
		expected := v
		expected.HasVertexIDs32, expected.HasVertexWeights32 = true, true
		require.Equal(t, expected, got, "combination %d", i)
	}
}

func Test_VersionWords(t *testing.T) {
	require.Equal(t, uint64(3), EncodeVersion(Version{}))
	require.Equal(t, uint64(3|4|8), EncodeVersion(Version{HasEdgeIDs32: true, HasVertexIDs32: true}))
	require.Equal(t, uint64(0), EncodeVersion(Version{HasEdgeWeights: true, HasVertexWeights: true}))
	require.Equal(t, uint64(3|16), EncodeVersion(Version{HasEdgeWeights32: true}))
	require.Equal(t, Version{HasVertexIDs32: true, HasVertexWeights32: true}, DecodeVersion(3|8))
}

func Test_HeaderWidths(t *testing.T) {
	h := Header{Version: Version{HasVertexIDs32: true}, N: 4, M: 5}
	require.Equal(t, 4, h.VertexIDWidth())
	require.Equal(t, 2, h.VertexIDShift())
	require.Equal(t, 8, h.EdgeIDWidth())
	require.Equal(t, 3, h.EdgeIDShift())
	require.Equal(t, 4, h.VertexWeightWidth())
	require.Equal(t, 8, h.EdgeWeightWidth())
	require.Equal(t, 3, h.EdgeWeightShift())
	require.Equal(t, 2, h.VertexWeightShift())

	require.Equal(t, int64(24), h.XadjOffset())
	require.Equal(t, int64(24+5*8), h.AdjncyOffset())
	require.Equal(t, int64(24+5*8+5*4), h.FileSize())
}

func Test_VertexWidthsShareBit(t *testing.T) {
	ids := Header{Version: Version{HasVertexIDs32: true}}
	weights := Header{Version: Version{HasVertexWeights32: true}}
	for _, h := range []Header{ids, weights} {
		require.Equal(t, 4, h.VertexIDWidth())
		require.Equal(t, 4, h.VertexWeightWidth())
		require.Equal(t, 2, h.VertexWeightShift())
		require.Equal(t, h.VertexIDWidth(), Header{Version: DecodeVersion(EncodeVersion(h.Version))}.VertexIDWidth())
	}
	require.Equal(t, 8, Header{}.VertexWeightWidth())
	require.Equal(t, 8, Header{}.VertexIDWidth())
}

func Test_HeaderValidate(t *testing.T) {
	h := Header{N: 4, M: 5}
	size := h.FileSize()
	require.NoError(t, h.Validate(size))
	require.True(t, errors.Is(h.Validate(size-1), ErrSizeMismatch))
	require.True(t, errors.Is(h.Validate(size+1), ErrSizeMismatch))

	h.Version.HasEdgeWeights = true
	require.NoError(t, h.Validate(size+100))
	require.True(t, errors.Is(h.Validate(size-1), ErrSizeMismatch))
}

func Test_HeaderReadWrite(t *testing.T) {
	h := Header{Version: Version{HasEdgeIDs32: true}, N: 1 << 33, M: 12345}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.Equal(t, HeaderSize, buf.Len())
	require.Equal(t, []byte{3 | 4, 0, 0, 0, 0, 0, 0, 0}, buf.Bytes()[:8])

	got, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, h, got)
	require.Contains(t, got.String(), "0x7")
}

func Test_ReadHeaderErrors(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)

	bad := make([]byte, HeaderSize)
	bad[0] = 1 << 5
	_, err = ReadHeader(bytes.NewReader(bad))
	require.True(t, errors.Is(err, ErrBadHeader), err)
}

func encodeHeader(t *testing.T, h Header) []byte {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	return buf.Bytes()
}

func Test_ReadHeaderRejectsHugeCounts(t *testing.T) {
	for _, h := range []Header{
		{N: math.MaxUint64},
		{N: 1 << 62},
		{Version: Version{HasEdgeIDs32: true}, N: math.MaxInt64 / 4},
		{N: 1, M: math.MaxUint64},
		{N: 1, M: math.MaxInt64 / 8},
	} {
		_, err := ReadHeader(bytes.NewReader(encodeHeader(t, h)))
		require.True(t, errors.Is(err, ErrBadHeader), "%v: %v", h, err)
		require.True(t, errors.Is(h.Validate(HeaderSize), ErrBadHeader), "%v", h)
	}

	// Largest accepted n still has a representable file size.
	h := Header{N: (math.MaxInt64-HeaderSize)/8 - 1}
	require.NoError(t, h.checkBounds())
	require.Greater(t, h.FileSize(), int64(0))
}
