package parhip

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"

	"github.com/ScottSallinen/hyperlink/utils"
)

var (
	ErrNoXadj = errors.New("xadj[] has not been read")
	ErrRange  = errors.New("vertex range out of bounds")
)

// Reader gives random access to a ParHiP graph. Call ReadXadj before ReadAdjncy.
type Reader struct {
	r       io.ReaderAt
	Header  Header
	raw     []uint64 // xadj[] as stored: absolute byte offsets.
	scratch []byte
}

// NewReader reads the header of r. When r reports its size (as *bytes.Reader and
// *io.SectionReader do) the header is validated against it.
func NewReader(r io.ReaderAt) (*Reader, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if sized, ok := r.(interface{ Size() int64 }); ok {
		if err := h.Validate(sized.Size()); err != nil {
			return nil, err
		}
	}
	return &Reader{r: r, Header: h}, nil
}

// ReadAt that treats a full read ending exactly at EOF as success.
func readAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if err == io.EOF && n == len(buf) {
		return nil
	}
	return err
}

func decodeWords(dst []uint64, src []byte, width int) []uint64 {
	count := len(src) / width
	dst = dst[:0]
	if width == 4 {
		for i := 0; i < count; i++ {
			dst = append(dst, uint64(binary.LittleEndian.Uint32(src[i*4:])))
		}
	} else {
		for i := 0; i < count; i++ {
			dst = append(dst, binary.LittleEndian.Uint64(src[i*8:]))
		}
	}
	return dst
}

// ReadXadj loads xadj[] and returns it normalized to edge ids: entry i is the index of
// vertex i's first neighbor in adjncy[], and entry n is m.
func (r *Reader) ReadXadj() ([]uint64, error) {
	h := r.Header
	nbytes := int64(h.N+1) * int64(h.EdgeIDWidth())
	buf := make([]byte, nbytes)
	if err := readAt(r.r, buf, h.XadjOffset()); err != nil {
		return nil, errors.Wrap(err, "failed to read xadj")
	}
	raw := decodeWords(make([]uint64, 0, h.N+1), buf, h.EdgeIDWidth())
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrBadHeader, "empty xadj")
	}
	if raw[0] != uint64(h.AdjncyOffset()) {
		return nil, errors.Wrap(ErrBadHeader, "xadj[0] is "+utils.V(raw[0])+", expected "+utils.V(h.AdjncyOffset()))
	}
	for i := 1; i < len(raw); i++ {
		if raw[i] < raw[i-1] {
			return nil, errors.Wrap(ErrBadHeader, "xadj[] decreases at vertex "+utils.V(i))
		}
	}
	r.raw = raw

	xadj := make([]uint64, len(raw))
	copy(xadj, raw)
	NormalizeOffsets(xadj, h.VertexIDShift())
	return xadj, nil
}

// EdgeID gives the normalized xadj[u] without materializing the normalized array.
func (r *Reader) EdgeID(u uint64) uint64 {
	return (r.raw[u] - r.raw[0]) >> r.Header.VertexIDShift()
}

// ReadAdjncy reads the neighbors of vertices [begin, end) into dst, reusing its storage.
// end is clamped to n. Returns the neighbors and the number of vertices covered.
// Only the bytes of the requested lists are read.
func (r *Reader) ReadAdjncy(begin uint64, end uint64, dst []uint64) ([]uint64, uint64, error) {
	if r.raw == nil {
		return dst[:0], 0, ErrNoXadj
	}
	end = utils.Min(end, r.Header.N)
	if begin > end {
		return dst[:0], 0, errors.Wrap(ErrRange, "["+utils.V(begin)+", "+utils.V(end)+") with n = "+utils.V(r.Header.N))
	}

	lo, hi := r.raw[begin], r.raw[end]
	nbytes := int(hi - lo)
	if cap(r.scratch) < nbytes {
		r.scratch = make([]byte, nbytes)
	}
	buf := r.scratch[:nbytes]
	if nbytes > 0 {
		if err := readAt(r.r, buf, int64(lo)); err != nil {
			return dst[:0], 0, errors.Wrap(err, "failed to read adjncy")
		}
	}
	return decodeWords(dst, buf, r.Header.VertexIDWidth()), end - begin, nil
}

// File is a Reader over a memory mapped ParHiP file.
type File struct {
	*Reader
	m *mmap.ReaderAt
}

// OpenFile maps the file at path and checks its size against the header.
func OpenFile(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open "+path)
	}
	r, err := NewReader(m)
	if err != nil {
		m.Close()
		return nil, errors.Wrap(err, path)
	}
	if err := r.Header.Validate(int64(m.Len())); err != nil {
		m.Close()
		return nil, errors.Wrap(err, path)
	}
	return &File{Reader: r, m: m}, nil
}

func (f *File) Close() error {
	return f.m.Close()
}
