package edgelist

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ScottSallinen/hyperlink/utils"
)

// Writer encodes pairs to w, in batches of a fixed number of pairs.
type Writer[T ID] struct {
	w       io.Writer
	buf     []byte
	limit   int
	written uint64
}

func NewWriter[T ID](w io.Writer, bufEdges int) *Writer[T] {
	if bufEdges <= 0 {
		bufEdges = DefaultBufferEdges
	}
	return &Writer[T]{
		w:     w,
		buf:   make([]byte, 0, bufEdges*PairWidth[T]()),
		limit: bufEdges * PairWidth[T](),
	}
}

func (w *Writer[T]) Write(e Edge[T]) error {
	pw := PairWidth[T]()
	w.buf = w.buf[:len(w.buf)+pw]
	putEdge(w.buf[len(w.buf)-pw:], e)
	w.written++
	if len(w.buf) == w.limit {
		return w.Flush()
	}
	return nil
}

func (w *Writer[T]) WriteAll(edges []Edge[T]) error {
	for i := range edges {
		if err := w.Write(edges[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer[T]) Flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	if _, err := w.w.Write(w.buf); err != nil {
		return errors.Wrap(err, "could not write pairs")
	}
	w.buf = w.buf[:0]
	return nil
}

// Written is the number of pairs accepted so far.
func (w *Writer[T]) Written() uint64 {
	return w.written
}

// WriteEdges writes edges to a new or truncated file at path.
func WriteEdges[T ID](path string, edges []Edge[T]) error {
	return writeEdges(path, edges, utils.CreateFile)
}

// WriteEdgesExclusive writes edges to path, failing if the file already exists.
func WriteEdgesExclusive[T ID](path string, edges []Edge[T]) error {
	return writeEdges(path, edges, utils.CreateExclusive)
}

func writeEdges[T ID](path string, edges []Edge[T], create func(string) (*os.File, error)) error {
	file, err := create(path)
	if err != nil {
		return err
	}
	w := NewWriter[T](file, DefaultBufferEdges)
	if err := w.WriteAll(edges); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "could not close "+path)
}

// ReadEdges loads a whole pair file into memory.
func ReadEdges[T ID](path string) ([]Edge[T], error) {
	file, err := utils.OpenSequential(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "could not stat "+path)
	}
	size := info.Size()
	pw := int64(PairWidth[T]())
	if size%pw != 0 {
		return nil, errors.Wrap(ErrMisaligned, path+" has "+utils.V(size)+" bytes")
	}

	edges := make([]Edge[T], 0, size/pw)
	buf := make([]byte, utils.Min(size, int64(DefaultBufferEdges)*pw))
	for remaining := size; remaining > 0; {
		n := utils.Min(remaining, int64(len(buf)))
		if _, err := io.ReadFull(file, buf[:n]); err != nil {
			return nil, errors.Wrap(err, "short read from "+path)
		}
		edges = append(edges, DecodeEdges[T](buf[:n])...)
		remaining -= n
	}
	return edges, nil
}
