// Package metis writes graphs in the METIS text format: a header line, then one line per vertex
// listing its 1-indexed neighbors.
package metis

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/hyperlink/parhip"
	"github.com/ScottSallinen/hyperlink/utils"
)

const defaultBufferSize = 1 << 20

var (
	ErrOddEdgeCount = errors.New("number of directed edges must be even")
	ErrWeighted     = errors.New("weighted graphs are not supported")
)

// Writer is buffered text output. Write errors stick; check Err or the result of Flush.
type Writer struct {
	bw      *bufio.Writer
	file    *os.File
	scratch []byte
	err     error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, defaultBufferSize), scratch: make([]byte, 0, 24)}
}

// Create creates or truncates the file at path.
func Create(path string) (*Writer, error) {
	file, err := utils.CreateFile(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(file)
	w.file = file
	return w, nil
}

func (w *Writer) WriteUint(x uint64) *Writer {
	if w.err == nil {
		w.scratch = strconv.AppendUint(w.scratch[:0], x, 10)
		_, w.err = w.bw.Write(w.scratch)
	}
	return w
}

func (w *Writer) WriteChar(c byte) *Writer {
	if w.err == nil {
		w.err = w.bw.WriteByte(c)
	}
	return w
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Flush() error {
	if w.err == nil {
		w.err = w.bw.Flush()
	}
	return errors.Wrap(w.err, "metis write")
}

// Close flushes and closes the underlying file, if Create opened one.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.file != nil {
		if cerr := w.file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close")
		}
		w.file = nil
	}
	return err
}

type Header struct {
	N                uint64
	M                uint64 // Directed edges; the file stores undirected edges, M/2.
	HasVertexWeights bool
	HasEdgeWeights   bool
}

// WriteHeader writes "n m/2" and, when weights are present, the format code.
func WriteHeader(w *Writer, h Header) error {
	if h.M%2 != 0 {
		return errors.Wrap(ErrOddEdgeCount, "m = "+utils.V(h.M))
	}
	w.WriteUint(h.N).WriteChar(' ').WriteUint(h.M / 2)
	if h.HasVertexWeights || h.HasEdgeWeights {
		w.WriteChar(' ')
		if h.HasVertexWeights {
			w.WriteChar('1').WriteChar(digit(h.HasEdgeWeights))
		} else {
			w.WriteChar('1')
		}
	}
	w.WriteChar('\n')
	return errors.Wrap(w.Err(), "metis header")
}

func digit(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}

// WriteXadjAdjncy writes one line per vertex for len(xadj)-1 vertices.
// xadj holds normalized edge ids for the chunk; adjncy[0] is the neighbor at edge id xadj[0].
func WriteXadjAdjncy(w *Writer, xadj []uint64, adjncy []uint64) error {
	if len(xadj) == 0 {
		return nil
	}
	offset := xadj[0]
	for u := 0; u+1 < len(xadj); u++ {
		for e := xadj[u]; e < xadj[u+1]; e++ {
			w.WriteUint(adjncy[e-offset] + 1).WriteChar(' ')
		}
		w.WriteChar('\n')
	}
	return errors.Wrap(w.Err(), "metis adjacency")
}

// Export copies the graph of r to w, reading at most chunk vertices' adjacency at a time.
// progress, if not nil, is called after each chunk.
func Export(r *parhip.Reader, w *Writer, chunk uint64, progress func(done uint64)) error {
	h := r.Header
	if h.Version.HasVertexWeights || h.Version.HasEdgeWeights {
		return ErrWeighted
	}
	if chunk == 0 {
		chunk = h.N
	}

	if err := WriteHeader(w, Header{N: h.N, M: h.M}); err != nil {
		return err
	}

	log.Debug().Msg("Reading xadj[] array ...")
	xadj, err := r.ReadXadj()
	if err != nil {
		return err
	}

	var adjncy []uint64
	for u := uint64(0); u < h.N; u += chunk {
		var count uint64
		adjncy, count, err = r.ReadAdjncy(u, u+utils.Min(chunk, h.N-u), adjncy)
		if err != nil {
			return err
		}
		if err := WriteXadjAdjncy(w, xadj[u:u+count+1], adjncy); err != nil {
			return err
		}
		if progress != nil {
			progress(u + count)
		}
	}
	return w.Flush()
}
