package edgelist

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ScottSallinen/hyperlink/utils"
)

var (
	ErrNoInputs     = errors.New("no input streams")
	ErrSizeMismatch = errors.New("input files have different sizes")
	ErrReservedID   = errors.New("input contains the reserved pair (max, max)")
)

// A tournament tree node: the smallest head among the streams below it, and which stream holds it.
type node[T ID] struct {
	key Edge[T]
	src int
}

func (a node[T]) less(b node[T]) bool {
	if a.key == b.key {
		return a.src < b.src
	}
	return a.key.Less(b.key)
}

func minNode[T ID](a, b node[T]) node[T] {
	if b.less(a) {
		return b
	}
	return a
}

// Merger combines B sorted streams into one sorted sequence.
// It is single use: a second pass over the same inputs needs fresh streams and a new Merger.
type Merger[T ID] struct {
	streams []*PairStream[T]
	tree    []node[T]
	emitted uint64
}

func NewMerger[T ID](streams []*PairStream[T]) (*Merger[T], error) {
	if len(streams) == 0 {
		return nil, ErrNoInputs
	}
	return &Merger[T]{streams: streams}, nil
}

// Builds the tree over the current stream heads.
//
// B = 4
// [0, 1, 2, 3, 4, 5, 6, 7]
//
//	         ^  ^  ^  ^     leaves B+b
//	      ^--------^--^
//	   ^-----^--^
//	^--^--^                 root at 1, slot 0 unused
func (m *Merger[T]) init() {
	B := len(m.streams)
	m.tree = make([]node[T], 2*B)
	for b := 0; b < B; b++ {
		m.tree[B+b] = node[T]{m.streams[b].Head(), b}
	}
	for i := B - 1; i > 0; i-- {
		m.tree[i] = minNode(m.tree[2*i], m.tree[2*i+1])
	}
}

// ForEachEdge calls fn with every pair of every stream exactly once, in ascending order.
// Equal pairs are all emitted; nothing is deduplicated.
func (m *Merger[T]) ForEachEdge(fn func(Edge[T])) error {
	if m.tree != nil {
		return errors.New("merger already consumed")
	}
	m.init()
	B := len(m.streams)
	sentinel := Sentinel[T]()

	for m.tree[1].key != sentinel {
		b := m.tree[1].src
		fn(m.tree[1].key)
		m.emitted++
		if err := m.streams[b].Advance(); err != nil {
			return err
		}

		// Replay only the path from this leaf to the root.
		i := B + b
		m.tree[i] = node[T]{m.streams[b].Head(), b}
		for i >>= 1; i > 0; i >>= 1 {
			m.tree[i] = minNode(m.tree[2*i], m.tree[2*i+1])
		}
	}
	for _, s := range m.streams {
		if !s.Done() {
			return errors.Wrap(ErrReservedID, s.Name()+" still has "+utils.V(s.Remaining())+" pairs")
		}
	}
	return nil
}

// Emitted is the number of pairs handed out so far.
func (m *Merger[T]) Emitted() uint64 {
	return m.emitted
}

// Close closes all streams, collecting every failure.
func (m *Merger[T]) Close() error {
	var result *multierror.Error
	for _, s := range m.streams {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Opener produces a fresh set of streams, each positioned at the start of its input.
type Opener[T ID] func() ([]*PairStream[T], error)

// FileOpener re-opens the given pair files on every call.
func FileOpener[T ID](paths []string, bufEdges int) Opener[T] {
	return func() ([]*PairStream[T], error) {
		return OpenPairStreams[T](paths, bufEdges)
	}
}

// MergeAll opens the inputs, runs one full merge pass, and closes them.
func MergeAll[T ID](open Opener[T], fn func(Edge[T])) (emitted uint64, err error) {
	streams, err := open()
	if err != nil {
		return 0, err
	}
	m, err := NewMerger(streams)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	err = m.ForEachEdge(fn)
	return m.Emitted(), err
}

// CheckSizes fails unless every path has the same size. Returns the common size.
func CheckSizes(paths []string) (int64, error) {
	var size int64
	for i, path := range paths {
		s, err := utils.FileSize(path)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			size = s
		} else if s != size {
			return 0, errors.Wrap(ErrSizeMismatch, paths[0]+" has "+utils.V(size)+" bytes, "+path+" has "+utils.V(s))
		}
	}
	return size, nil
}
