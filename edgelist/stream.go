package edgelist

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ScottSallinen/hyperlink/utils"
)

// DefaultBufferEdges is the number of pairs a stream holds in memory at once.
const DefaultBufferEdges = 1 << 20

var ErrMisaligned = errors.New("file size is not a multiple of the pair width")

// PairStream is a read-only, front to back view over one file of sorted (U, V) pairs.
// It holds a fixed size buffer, refilled from the underlying reader whenever the
// cursor crosses a buffer boundary.
type PairStream[T ID] struct {
	name   string
	r      io.Reader
	closer io.Closer

	size int64  // Total bytes of pair data.
	cur  int64  // Byte position of the current head.
	buf  []byte // Holds the pairs in [cur - cur%len(buf), ...).

	head Edge[T]
}

// NewPairStream reads size bytes of pairs from r. The name is used in errors.
func NewPairStream[T ID](name string, r io.Reader, size int64, bufEdges int) (*PairStream[T], error) {
	pw := int64(PairWidth[T]())
	if size%pw != 0 {
		return nil, errors.Wrap(ErrMisaligned, name+" has "+utils.V(size)+" bytes")
	}
	if bufEdges <= 0 {
		bufEdges = DefaultBufferEdges
	}
	bufBytes := utils.Min(int64(bufEdges)*pw, size)
	if bufBytes == 0 {
		bufBytes = pw
	}

	s := &PairStream[T]{
		name: name,
		r:    r,
		size: size,
		buf:  make([]byte, bufBytes),
	}
	if err := s.refill(); err != nil {
		return nil, err
	}
	s.head = s.get()
	return s, nil
}

// OpenPairStream opens the pair file at path.
func OpenPairStream[T ID](path string, bufEdges int) (*PairStream[T], error) {
	file, err := utils.OpenSequential(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "could not stat "+path)
	}
	s, err := NewPairStream[T](path, file, info.Size(), bufEdges)
	if err != nil {
		file.Close()
		return nil, err
	}
	s.closer = file
	return s, nil
}

// OpenPairStreams opens every path, closing the already opened ones on failure.
func OpenPairStreams[T ID](paths []string, bufEdges int) ([]*PairStream[T], error) {
	streams := make([]*PairStream[T], 0, len(paths))
	for _, path := range paths {
		s, err := OpenPairStream[T](path, bufEdges)
		if err != nil {
			for _, o := range streams {
				o.Close()
			}
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}

// Loads the next min(len(buf), remaining) bytes into the front of the buffer.
func (s *PairStream[T]) refill() error {
	if s.cur == s.size {
		return nil
	}
	n := utils.Min(int64(len(s.buf)), s.size-s.cur)
	if _, err := io.ReadFull(s.r, s.buf[:n]); err != nil {
		return errors.Wrap(err, "short read from "+s.name+" at byte "+utils.V(s.cur))
	}
	return nil
}

func (s *PairStream[T]) get() Edge[T] {
	if s.cur == s.size {
		return Sentinel[T]()
	}
	return getEdge[T](s.buf[s.cur%int64(len(s.buf)):])
}

// Peek gives the current pair, or false once the stream is drained.
func (s *PairStream[T]) Peek() (Edge[T], bool) {
	return s.head, s.cur != s.size
}

// Head gives the current pair, or the sentinel once the stream is drained.
func (s *PairStream[T]) Head() Edge[T] {
	return s.head
}

func (s *PairStream[T]) Done() bool {
	return s.cur == s.size
}

// Advance moves past the current pair. The new head must not be smaller than the old one.
func (s *PairStream[T]) Advance() error {
	if s.cur == s.size {
		return nil
	}
	prev := s.head
	s.cur += int64(PairWidth[T]())
	if s.cur%int64(len(s.buf)) == 0 {
		if err := s.refill(); err != nil {
			return err
		}
	}
	s.head = s.get()
	if s.cur != s.size && s.head.Less(prev) {
		line := uint64(s.cur/int64(PairWidth[T]())) + 1
		return newUnsortedError(s.name, line, prev, s.head)
	}
	return nil
}

// Len is the total number of pairs in the stream.
func (s *PairStream[T]) Len() uint64 {
	return uint64(s.size / int64(PairWidth[T]()))
}

// Remaining is the number of pairs not yet advanced past.
func (s *PairStream[T]) Remaining() uint64 {
	return uint64((s.size - s.cur) / int64(PairWidth[T]()))
}

func (s *PairStream[T]) Name() string {
	return s.name
}

func (s *PairStream[T]) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return errors.Wrap(err, "could not close "+s.name)
	}
	return nil
}
