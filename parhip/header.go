// Package parhip reads and writes graphs in the binary ParHiP CSR format.
//
// Layout, all words little-endian:
//
//	[0, 8)    version (bit packed, see EncodeVersion)
//	[8, 16)   n
//	[16, 24)  m, the number of directed edges
//	xadj[]    n+1 entries of EdgeIDWidth bytes: absolute byte offsets of each adjacency list
//	adjncy[]  m entries of VertexIDWidth bytes
package parhip

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/ScottSallinen/hyperlink/utils"
)

const (
	wordSize   = 8
	HeaderSize = 3 * wordSize
)

var (
	ErrSizeMismatch = errors.New("file size does not match header")
	ErrBadHeader    = errors.New("malformed header")
)

// Version describes what a ParHiP file stores and how wide each field is.
type Version struct {
	HasEdgeWeights     bool
	HasVertexWeights   bool
	HasEdgeIDs32       bool
	HasVertexIDs32     bool
	HasVertexWeights32 bool
	HasEdgeWeights32   bool
}

const (
	bitNoEdgeWeights   = 1 << 0 // Inverted: 0 means present.
	bitNoVertexWeights = 1 << 1 // Inverted: 0 means present.
	bitEdgeIDs32       = 1 << 2
	bitVertexIDs32     = 1 << 3 // Shared with the vertex weight width.
	bitEdgeWeights32   = 1 << 4
)

// EncodeVersion packs v into the version word.
//
// The weight presence bits are negated: an unweighted graph encodes as 3.
// Vertex weight width has no bit of its own; it shares bit 3 with the vertex id width.
func EncodeVersion(v Version) uint64 {
	var word uint64
	if !v.HasEdgeWeights {
		word |= bitNoEdgeWeights
	}
	if !v.HasVertexWeights {
		word |= bitNoVertexWeights
	}
	if v.HasEdgeIDs32 {
		word |= bitEdgeIDs32
	}
	if v.HasVertexIDs32 || v.HasVertexWeights32 {
		word |= bitVertexIDs32
	}
	if v.HasEdgeWeights32 {
		word |= bitEdgeWeights32
	}
	return word
}

// DecodeVersion unpacks a version word. Bit 3 sets both the vertex id and vertex weight widths.
func DecodeVersion(word uint64) Version {
	return Version{
		HasEdgeWeights:     word&bitNoEdgeWeights == 0,
		HasVertexWeights:   word&bitNoVertexWeights == 0,
		HasEdgeIDs32:       word&bitEdgeIDs32 != 0,
		HasVertexIDs32:     word&bitVertexIDs32 != 0,
		HasVertexWeights32: word&bitVertexIDs32 != 0,
		HasEdgeWeights32:   word&bitEdgeWeights32 != 0,
	}
}

type Header struct {
	Version Version
	N       uint64 // Vertices.
	M       uint64 // Directed edges.
}

func widthShift(is32 bool) (int, int) {
	if is32 {
		return 4, 2
	}
	return 8, 3
}

// Vertex ids and vertex weights are stored with one shared width bit.
func (v Version) vertex32() bool {
	return v.HasVertexIDs32 || v.HasVertexWeights32
}

func (h Header) VertexIDWidth() int {
	w, _ := widthShift(h.Version.vertex32())
	return w
}

func (h Header) VertexIDShift() int {
	_, s := widthShift(h.Version.vertex32())
	return s
}

func (h Header) EdgeIDWidth() int {
	w, _ := widthShift(h.Version.HasEdgeIDs32)
	return w
}

func (h Header) EdgeIDShift() int {
	_, s := widthShift(h.Version.HasEdgeIDs32)
	return s
}

func (h Header) VertexWeightWidth() int {
	w, _ := widthShift(h.Version.vertex32())
	return w
}

func (h Header) VertexWeightShift() int {
	_, s := widthShift(h.Version.vertex32())
	return s
}

func (h Header) EdgeWeightWidth() int {
	w, _ := widthShift(h.Version.HasEdgeWeights32)
	return w
}

func (h Header) EdgeWeightShift() int {
	_, s := widthShift(h.Version.HasEdgeWeights32)
	return s
}

// XadjOffset is the byte position of xadj[0].
func (h Header) XadjOffset() int64 {
	return HeaderSize
}

// AdjncyOffset is the byte position of adjncy[0]. It is also the value stored in xadj[0].
func (h Header) AdjncyOffset() int64 {
	return HeaderSize + int64(h.N+1)*int64(h.EdgeIDWidth())
}

// FileSize is the exact size of an unweighted file with this header.
func (h Header) FileSize() int64 {
	return h.AdjncyOffset() + int64(h.M)*int64(h.VertexIDWidth())
}

// checkBounds rejects n and m whose file layout does not fit in an int64 byte offset.
func (h Header) checkBounds() error {
	limit := uint64(math.MaxInt64 - HeaderSize)
	if h.N >= limit/uint64(h.EdgeIDWidth()) {
		return errors.Wrap(ErrBadHeader, "n = "+utils.V(h.N)+" is too large")
	}
	rest := limit - (h.N+1)*uint64(h.EdgeIDWidth())
	if h.M > rest/uint64(h.VertexIDWidth()) {
		return errors.Wrap(ErrBadHeader, "m = "+utils.V(h.M)+" is too large for n = "+utils.V(h.N))
	}
	return nil
}

// Validate checks that a file of the given size can hold the graph the header describes.
func (h Header) Validate(size int64) error {
	if err := h.checkBounds(); err != nil {
		return err
	}
	if h.Version.HasVertexWeights || h.Version.HasEdgeWeights {
		if size < h.FileSize() {
			return errors.Wrap(ErrSizeMismatch, "expected at least "+utils.V(h.FileSize())+" bytes, have "+utils.V(size))
		}
		return nil
	}
	if size != h.FileSize() {
		return errors.Wrap(ErrSizeMismatch, "expected "+utils.V(h.FileSize())+" bytes, have "+utils.V(size))
	}
	return nil
}

func (h Header) String() string {
	return "{n: " + utils.V(h.N) + ", m: " + utils.V(h.M) + ", version: " + utils.F("%#x", EncodeVersion(h.Version)) + "}"
}

// ReadHeader decodes the 24 byte header at the start of r.
func ReadHeader(r io.ReaderAt) (Header, error) {
	var buf [HeaderSize]byte
	if err := readAt(r, buf[:], 0); err != nil {
		return Header{}, errors.Wrap(err, "failed to read header")
	}
	word := binary.LittleEndian.Uint64(buf[0:])
	if word>>5 != 0 {
		return Header{}, errors.Wrap(ErrBadHeader, "unknown version bits "+utils.F("%#x", word))
	}
	h := Header{
		Version: DecodeVersion(word),
		N:       binary.LittleEndian.Uint64(buf[8:]),
		M:       binary.LittleEndian.Uint64(buf[16:]),
	}
	if err := h.checkBounds(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// WriteHeader encodes h as the 24 byte header.
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:], EncodeVersion(h.Version))
	binary.LittleEndian.PutUint64(buf[8:], h.N)
	binary.LittleEndian.PutUint64(buf[16:], h.M)
	if _, err := w.Write(buf[:]); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	return nil
}
