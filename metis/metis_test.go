package metis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/parhip"
)

func Test_WriteHeader(t *testing.T) {
	cases := []struct {
		h    Header
		line string
	}{
		{Header{N: 4, M: 6}, "4 3\n"},
		{Header{N: 4, M: 6, HasVertexWeights: true, HasEdgeWeights: true}, "4 3 11\n"},
		{Header{N: 4, M: 6, HasVertexWeights: true}, "4 3 10\n"},
		{Header{N: 4, M: 6, HasEdgeWeights: true}, "4 3 1\n"},
		{Header{}, "0 0\n"},
	}
	for _, c := range cases {
		var out bytes.Buffer
		w := NewWriter(&out)
		require.NoError(t, WriteHeader(w, c.h))
		require.NoError(t, w.Flush())
		require.Equal(t, c.line, out.String())
	}

	err := WriteHeader(NewWriter(&bytes.Buffer{}), Header{N: 4, M: 5})
	require.True(t, errors.Is(err, ErrOddEdgeCount), err)
}

func Test_WriteXadjAdjncy(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, WriteXadjAdjncy(w, []uint64{0, 2, 2, 3}, []uint64{1, 0, 0}))
	// A chunk whose first edge id is not zero.
	require.NoError(t, WriteXadjAdjncy(w, []uint64{3, 4}, []uint64{9}))
	require.NoError(t, WriteXadjAdjncy(w, nil, nil))
	require.NoError(t, w.Flush())
	require.Equal(t, "2 1 \n\n1 \n10 \n", out.String())
}

// Builds the path 0 - 1 - 2 stored in both directions.
func buildPath(t *testing.T) *parhip.Reader {
	path := filepath.Join(t.TempDir(), "path.bin")
	require.NoError(t, edgelist.WriteEdges(path, []edgelist.Edge[uint32]{{U: 0, V: 1}, {U: 1, V: 0}, {U: 1, V: 2}, {U: 2, V: 1}}))
	var out bytes.Buffer
	_, err := parhip.Build(edgelist.FileOpener[uint32]([]string{path}, 0), &out, parhip.BuildOptions{})
	require.NoError(t, err)
	r, err := parhip.NewReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	return r
}

func Test_Export(t *testing.T) {
	for _, chunk := range []uint64{0, 1, 2, 3, 1 << 62} {
		var out bytes.Buffer
		var progress []uint64
		w := NewWriter(&out)
		require.NoError(t, Export(buildPath(t), w, chunk, func(done uint64) { progress = append(progress, done) }))
		require.Equal(t, "3 2\n2 \n1 3 \n2 \n", out.String(), "chunk %d", chunk)
		require.Equal(t, uint64(3), progress[len(progress)-1])
	}
}

func Test_ExportRejectsWeighted(t *testing.T) {
	var buf bytes.Buffer
	h := parhip.Header{Version: parhip.Version{HasEdgeWeights: true}, N: 1}
	require.NoError(t, parhip.WriteHeader(&buf, h))
	buf.Write(make([]byte, h.FileSize()-parhip.HeaderSize))
	r, err := parhip.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	err = Export(r, NewWriter(&bytes.Buffer{}), 0, nil)
	require.True(t, errors.Is(err, ErrWeighted), err)
}

func Test_CreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.metis")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteHeader(w, Header{N: 1}))
	require.NoError(t, WriteXadjAdjncy(w, []uint64{0, 0}, nil))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1 0\n\n", string(data))
}
