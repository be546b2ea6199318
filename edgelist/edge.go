package edgelist

import (
	"encoding/binary"
	"math"

	"github.com/ScottSallinen/hyperlink/utils"
)

// ID is a vertex identifier. A run uses one width throughout.
type ID interface {
	uint32 | uint64
}

// Edge is a directed (U, V) pair, ordered by U then V.
type Edge[T ID] struct {
	U T
	V T
}

func (e Edge[T]) Less(o Edge[T]) bool {
	return e.U < o.U || (e.U == o.U && e.V < o.V)
}

// Compare returns -1, 0, or +1.
func (e Edge[T]) Compare(o Edge[T]) int {
	if e.Less(o) {
		return -1
	} else if o.Less(e) {
		return 1
	}
	return 0
}

func (e Edge[T]) String() string {
	return "(" + utils.V(e.U) + ", " + utils.V(e.V) + ")"
}

// MaxID is the largest value of T. It is reserved for the exhausted stream marker.
func MaxID[T ID]() T {
	var zero T
	return ^zero
}

// Sentinel is the key an exhausted stream presents to the merge.
func Sentinel[T ID]() Edge[T] {
	return Edge[T]{MaxID[T](), MaxID[T]()}
}

// WidthOf gives the on-disk width of a single id, in bytes.
func WidthOf[T ID]() int {
	if uint64(MaxID[T]()) == math.MaxUint32 {
		return 4
	}
	return 8
}

// PairWidth gives the on-disk width of a single (U, V) pair, in bytes.
func PairWidth[T ID]() int {
	return 2 * WidthOf[T]()
}

// GetID decodes a little-endian id from the front of b.
func GetID[T ID](b []byte) T {
	if WidthOf[T]() == 4 {
		return T(binary.LittleEndian.Uint32(b))
	}
	return T(binary.LittleEndian.Uint64(b))
}

// PutID encodes a little-endian id at the front of b.
func PutID[T ID](b []byte, id T) {
	if WidthOf[T]() == 4 {
		binary.LittleEndian.PutUint32(b, uint32(id))
	} else {
		binary.LittleEndian.PutUint64(b, uint64(id))
	}
}

func getEdge[T ID](b []byte) Edge[T] {
	w := WidthOf[T]()
	return Edge[T]{GetID[T](b), GetID[T](b[w:])}
}

func putEdge[T ID](b []byte, e Edge[T]) {
	w := WidthOf[T]()
	PutID(b, e.U)
	PutID(b[w:], e.V)
}

// DecodeEdges decodes consecutive pairs from b. len(b) must be a multiple of the pair width.
func DecodeEdges[T ID](b []byte) []Edge[T] {
	pw := PairWidth[T]()
	edges := make([]Edge[T], len(b)/pw)
	for i := range edges {
		edges[i] = getEdge[T](b[i*pw:])
	}
	return edges
}

// EncodeEdges appends the encoding of edges to dst.
func EncodeEdges[T ID](dst []byte, edges []Edge[T]) []byte {
	pw := PairWidth[T]()
	start := len(dst)
	dst = append(dst, make([]byte, len(edges)*pw)...)
	for i := range edges {
		putEdge(dst[start+i*pw:], edges[i])
	}
	return dst
}

// UnsortedError reports the first pair found out of ascending (U, V) order.
type UnsortedError struct {
	Source string // File (or description) the pairs came from.
	Line   uint64 // 1-indexed record number of Cur.
	PrevU  uint64
	PrevV  uint64
	CurU   uint64
	CurV   uint64
}

func (e *UnsortedError) Error() string {
	return "not sorted: " + e.Source + " line " + utils.V(e.Line) +
		": previous edge (" + utils.V(e.PrevU) + ", " + utils.V(e.PrevV) +
		"), current edge (" + utils.V(e.CurU) + ", " + utils.V(e.CurV) + ")"
}

func newUnsortedError[T ID](source string, line uint64, prev, cur Edge[T]) *UnsortedError {
	return &UnsortedError{
		Source: source,
		Line:   line,
		PrevU:  uint64(prev.U),
		PrevV:  uint64(prev.V),
		CurU:   uint64(cur.U),
		CurV:   uint64(cur.V),
	}
}
