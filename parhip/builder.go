package parhip

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/hyperlink/edgelist"
	"github.com/ScottSallinen/hyperlink/enforce"
	"github.com/ScottSallinen/hyperlink/utils"
)

const (
	DefaultFlushIDs         = 1 << 20 // Adjacency ids per output write.
	DefaultProgressInterval = 1 << 20 // Vertices between progress lines while counting.
)

var (
	ErrOffsetOverflow = errors.New("graph too large for 32-bit edge ids")
	ErrPassMismatch   = errors.New("second pass does not match the first")
)

type BuildOptions struct {
	BufferEdges      int    // Pairs buffered per input stream. 0 for edgelist.DefaultBufferEdges.
	FlushIDs         int    // Adjacency ids buffered before each write. 0 for DefaultFlushIDs.
	ProgressInterval uint64 // Log every this many vertices while counting. 0 for DefaultProgressInterval.
	EdgeIDs32        bool   // Store xadj[] entries as 32-bit words.
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.BufferEdges <= 0 {
		o.BufferEdges = edgelist.DefaultBufferEdges
	}
	if o.FlushIDs <= 0 {
		o.FlushIDs = DefaultFlushIDs
	}
	if o.ProgressInterval == 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	return o
}

// DegreeCounter tallies out-degrees from a sorted edge stream.
// The count vector covers every id seen as a source or a target, so vertices in gaps get degree 0.
type DegreeCounter[T edgelist.ID] struct {
	counts   []uint64
	interval uint64
	targets  uint64 // One past the largest target seen.
}

func NewDegreeCounter[T edgelist.ID](progressInterval uint64) *DegreeCounter[T] {
	return &DegreeCounter[T]{interval: progressInterval}
}

func (d *DegreeCounter[T]) Add(e edgelist.Edge[T]) {
	for uint64(len(d.counts)) <= uint64(e.U) {
		d.grow()
	}
	d.counts[e.U]++
	d.targets = utils.Max(d.targets, uint64(e.V)+1)
}

func (d *DegreeCounter[T]) grow() {
	d.counts = append(d.counts, 0)
	if d.interval > 0 && uint64(len(d.counts))%d.interval == 0 {
		log.Info().Msg("\t" + utils.C(uint64(len(d.counts))) + " nodes ...")
	}
}

// Counts is the degree of each vertex 0..n-1. The slice is handed over, not copied.
func (d *DegreeCounter[T]) Counts() []uint64 {
	for uint64(len(d.counts)) < d.targets {
		d.grow()
	}
	return d.counts
}

// BuildOffsets turns degree counts into the on-disk xadj[] array, reusing the counts storage.
// Entry i becomes the absolute byte offset of vertex i's adjacency list; entry n is the end of the file.
func BuildOffsets(counts []uint64, edgeIDWidth int, vertexIDWidth int) (offsets []uint64, n uint64, m uint64) {
	n = uint64(len(counts))
	offsets = append(counts, 0)

	// Exclusive prefix sum.
	sum := uint64(0)
	for i := range offsets {
		c := offsets[i]
		offsets[i] = sum
		sum += c
	}
	m = offsets[n]

	base := uint64(HeaderSize) + (n+1)*uint64(edgeIDWidth)
	for i := range offsets {
		offsets[i] = base + offsets[i]*uint64(vertexIDWidth)
	}
	return offsets, n, m
}

// NormalizeOffsets reverses BuildOffsets in place: entries become edge ids 0..m.
func NormalizeOffsets(offsets []uint64, vertexIDShift int) {
	if len(offsets) == 0 {
		return
	}
	bias := offsets[0]
	for i := range offsets {
		offsets[i] = (offsets[i] - bias) >> vertexIDShift
	}
}

// Build writes the merge of the opened inputs as a ParHiP graph to w.
//
// The inputs are merged twice: once to count degrees and once to copy the adjacency targets.
// open must give streams over the same data in the same order both times.
func Build[T edgelist.ID](open edgelist.Opener[T], w io.Writer, opts BuildOptions) (Header, error) {
	opts = opts.withDefaults()
	// The header carries the version as it will read back from the file.
	header := Header{Version: DecodeVersion(EncodeVersion(Version{
		HasEdgeIDs32:   opts.EdgeIDs32,
		HasVertexIDs32: edgelist.WidthOf[T]() == 4,
	}))}

	log.Info().Msg("Counting degrees ...")
	counter := NewDegreeCounter[T](opts.ProgressInterval)
	counted, err := edgelist.MergeAll(open, counter.Add)
	if err != nil {
		return header, errors.Wrap(err, "counting degrees")
	}

	log.Info().Msg("Computing prefix sum for xadj[] ...")
	offsets, n, m := BuildOffsets(counter.Counts(), header.EdgeIDWidth(), header.VertexIDWidth())
	if m != counted {
		return header, errors.Wrap(ErrPassMismatch, "counted "+utils.V(counted)+" edges, degrees sum to "+utils.V(m))
	}
	if opts.EdgeIDs32 && offsets[n] > math.MaxUint32 {
		return header, errors.Wrap(ErrOffsetOverflow, "last offset is "+utils.V(offsets[n]))
	}
	header.N, header.M = n, m
	enforce.ENFORCE(offsets[0] == uint64(header.AdjncyOffset()) && offsets[n] == uint64(header.FileSize()), "offsets disagree with header", header)
	log.Info().Msg("There are " + utils.C(n) + " nodes and " + utils.C(m) + " edges")

	log.Info().Msg("Writing xadj[] to output file ...")
	if err := WriteHeader(w, header); err != nil {
		return header, err
	}
	if err := writeXadj(w, offsets, header.EdgeIDWidth(), opts.FlushIDs); err != nil {
		return header, err
	}

	log.Info().Msg("Reading and writing adjncy[] ...")
	written, err := writeAdjncy(open, w, opts.FlushIDs)
	if err != nil {
		return header, errors.Wrap(err, "writing adjncy")
	}
	if written != m {
		return header, errors.Wrap(ErrPassMismatch, "wrote "+utils.V(written)+" targets, expected "+utils.V(m))
	}
	return header, nil
}

// BuildFile merges the pair files at inputs into a new ParHiP file at output.
// An existing output is an error. On failure the output may be left incomplete.
func BuildFile[T edgelist.ID](output string, inputs []string, opts BuildOptions) (Header, error) {
	opts = opts.withDefaults()
	file, err := utils.CreateExclusive(output)
	if err != nil {
		return Header{}, err
	}
	header, err := Build(edgelist.FileOpener[T](inputs, opts.BufferEdges), file, opts)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "could not close "+output)
	}
	return header, err
}

func writeXadj(w io.Writer, offsets []uint64, width int, batch int) error {
	buf := make([]byte, 0, utils.Min(batch, len(offsets))*width)
	for start := 0; start < len(offsets); start += batch {
		end := utils.Min(start+batch, len(offsets))
		buf = buf[:(end-start)*width]
		for i, x := range offsets[start:end] {
			if width == 4 {
				binary.LittleEndian.PutUint32(buf[i*4:], uint32(x))
			} else {
				binary.LittleEndian.PutUint64(buf[i*8:], x)
			}
		}
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "failed to write xadj")
		}
	}
	return nil
}

// Batches adjacency targets; the first write error sticks and later ids are dropped.
type adjncyWriter[T edgelist.ID] struct {
	w       io.Writer
	buf     []byte
	limit   int
	written uint64
	err     error
}

func (a *adjncyWriter[T]) add(e edgelist.Edge[T]) {
	width := edgelist.WidthOf[T]()
	a.buf = a.buf[:len(a.buf)+width]
	edgelist.PutID(a.buf[len(a.buf)-width:], e.V)
	a.written++
	if len(a.buf) == a.limit {
		a.flush()
	}
}

func (a *adjncyWriter[T]) flush() {
	if len(a.buf) > 0 && a.err == nil {
		if _, err := a.w.Write(a.buf); err != nil {
			a.err = errors.Wrap(err, "failed to write adjncy")
		}
	}
	a.buf = a.buf[:0]
}

func writeAdjncy[T edgelist.ID](open edgelist.Opener[T], w io.Writer, batch int) (uint64, error) {
	width := edgelist.WidthOf[T]()
	a := &adjncyWriter[T]{w: w, buf: make([]byte, 0, batch*width), limit: batch * width}
	if _, err := edgelist.MergeAll(open, a.add); err != nil {
		return a.written, err
	}
	a.flush()
	return a.written, a.err
}
