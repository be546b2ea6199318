package parhip

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/utils"
)

// Writes each input as a pair file and returns the paths.
func writeInputs[T edgelist.ID](t *testing.T, inputs ...[]edgelist.Edge[T]) []string {
	dir := t.TempDir()
	paths := make([]string, len(inputs))
	for i := range inputs {
		paths[i] = filepath.Join(dir, "in"+utils.V(i)+".bin")
		require.NoError(t, edgelist.WriteEdges(paths[i], inputs[i]))
	}
	return paths
}

func scenarioInputs(t *testing.T) []string {
	return writeInputs(t,
		[]edgelist.Edge[uint32]{{U: 0, V: 1}, {U: 0, V: 2}, {U: 2, V: 3}},
		[]edgelist.Edge[uint32]{{U: 0, V: 3}, {U: 1, V: 2}},
	)
}

func Test_DegreeCounter(t *testing.T) {
	d := NewDegreeCounter[uint32](1)
	for _, e := range []edgelist.Edge[uint32]{{U: 0, V: 1}, {U: 0, V: 2}, {U: 2, V: 3}} {
		d.Add(e)
	}
	require.Equal(t, []uint64{2, 0, 1, 0}, d.Counts())

	d = NewDegreeCounter[uint32](0)
	d.Add(edgelist.Edge[uint32]{U: 3, V: 0})
	require.Equal(t, []uint64{0, 0, 0, 1}, d.Counts())

	require.Empty(t, NewDegreeCounter[uint64](0).Counts())
}

func Test_BuildOffsets(t *testing.T) {
	offsets, n, m := BuildOffsets([]uint64{3, 1, 1, 0}, 8, 4)
	require.Equal(t, uint64(4), n)
	require.Equal(t, uint64(5), m)
	base := uint64(HeaderSize + 5*8)
	require.Equal(t, []uint64{base, base + 12, base + 16, base + 20, base + 20}, offsets)

	NormalizeOffsets(offsets, 2)
	require.Equal(t, []uint64{0, 3, 4, 5, 5}, offsets)

	offsets, n, m = BuildOffsets(nil, 4, 8)
	require.Equal(t, uint64(0), n)
	require.Equal(t, uint64(0), m)
	require.Equal(t, []uint64{HeaderSize + 4}, offsets)
	NormalizeOffsets(nil, 3)
}

func Test_BuildScenario(t *testing.T) {
	var out bytes.Buffer
	h, err := Build(edgelist.FileOpener[uint32](scenarioInputs(t), 1), &out, BuildOptions{FlushIDs: 2})
	require.NoError(t, err)
	require.Equal(t, uint64(4), h.N)
	require.Equal(t, uint64(5), h.M)
	require.True(t, h.Version.HasVertexIDs32)
	require.True(t, h.Version.HasVertexWeights32, "shares the vertex id width bit")
	require.False(t, h.Version.HasEdgeIDs32)
	require.Equal(t, h.FileSize(), int64(out.Len()))

	r, err := NewReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, h, r.Header)

	xadj, err := r.ReadXadj()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3, 4, 5, 5}, xadj)
	require.Equal(t, uint64(3), r.EdgeID(1))

	adjncy, count, err := r.ReadAdjncy(0, h.N, nil)
	require.NoError(t, err)
	require.Equal(t, h.N, count)
	require.Equal(t, []uint64{1, 2, 3, 2, 3}, adjncy)
}

func Test_BuildEdgeIDs32(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.parhip")
	h, err := BuildFile[uint32](path, scenarioInputs(t), BuildOptions{EdgeIDs32: true})
	require.NoError(t, err)
	require.True(t, h.Version.HasEdgeIDs32)
	require.Equal(t, int64(24+5*4+5*4), h.FileSize())

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, h, f.Header)
	xadj, err := f.ReadXadj()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3, 4, 5, 5}, xadj)
}

func Test_BuildFileRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.parhip")
	inputs := scenarioInputs(t)
	_, err := BuildFile[uint32](path, inputs, BuildOptions{})
	require.NoError(t, err)
	size, err := utils.FileSize(path)
	require.NoError(t, err)

	_, err = BuildFile[uint32](path, inputs, BuildOptions{})
	require.True(t, errors.Is(err, utils.ErrExists), err)
	after, err := utils.FileSize(path)
	require.NoError(t, err)
	require.Equal(t, size, after)
}

func Test_BuildUnsorted(t *testing.T) {
	inputs := writeInputs(t, []edgelist.Edge[uint32]{{U: 5, V: 1}, {U: 2, V: 3}})
	_, err := Build(edgelist.FileOpener[uint32](inputs, 4), &bytes.Buffer{}, BuildOptions{})
	var unsorted *edgelist.UnsortedError
	require.True(t, errors.As(err, &unsorted), err)
	require.Equal(t, uint64(5), unsorted.PrevU)
	require.Equal(t, uint64(2), unsorted.CurU)
}

func Test_BuildEmpty(t *testing.T) {
	var out bytes.Buffer
	inputs := writeInputs[uint64](t, nil, nil)
	h, err := Build(edgelist.FileOpener[uint64](inputs, 4), &out, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, Header{Version: h.Version}, h)
	require.Equal(t, int64(HeaderSize+8), int64(out.Len()))
}

// Built graphs read back the same adjacency lists as a direct merge of the inputs.
func Test_BuildTwoPassConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	inputs := make([][]edgelist.Edge[uint64], 6)
	for i := range inputs {
		edges := make([]edgelist.Edge[uint64], rng.Intn(3000))
		for j := range edges {
			edges[j] = edgelist.Edge[uint64]{U: uint64(rng.Intn(700)), V: uint64(rng.Intn(900))}
		}
		sort.Slice(edges, func(a, b int) bool { return edges[a].Less(edges[b]) })
		inputs[i] = edges
	}
	paths := writeInputs(t, inputs...)

	lists := map[uint64][]uint64{}
	var maxID uint64
	_, err := edgelist.MergeAll(edgelist.FileOpener[uint64](paths, 64), func(e edgelist.Edge[uint64]) {
		lists[e.U] = append(lists[e.U], e.V)
		maxID = utils.Max(maxID, utils.Max(e.U, e.V))
	})
	require.NoError(t, err)

	for _, ids32 := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "g.parhip")
		h, err := BuildFile[uint64](path, paths, BuildOptions{BufferEdges: 64, FlushIDs: 100, EdgeIDs32: ids32})
		require.NoError(t, err)
		require.Equal(t, maxID+1, h.N)

		f, err := OpenFile(path)
		require.NoError(t, err)
		xadj, err := f.ReadXadj()
		require.NoError(t, err)
		require.Equal(t, uint64(0), xadj[0])
		require.Equal(t, h.M, xadj[h.N])

		var degreeSum uint64
		var adjncy []uint64
		for u := uint64(0); u < h.N; u++ {
			require.LessOrEqual(t, xadj[u], xadj[u+1])
			degreeSum += xadj[u+1] - xadj[u]
			adjncy, _, err = f.ReadAdjncy(u, u+1, adjncy)
			require.NoError(t, err)
			if len(lists[u]) == 0 {
				require.Empty(t, adjncy, "vertex %d", u)
			} else {
				require.Equal(t, lists[u], adjncy, "vertex %d", u)
			}
		}
		require.Equal(t, h.M, degreeSum)
		require.NoError(t, f.Close())
	}
}
