// Package toker scans whitespace separated decimal integers out of a memory mapped file.
package toker

import (
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

var (
	ErrNotANumber = errors.New("expected a decimal integer")
	ErrOverflow   = errors.New("integer does not fit in 64 bits")
)

type Toker struct {
	data     []byte
	position int
	mapped   mmap.MMap
	file     *os.File
}

// New scans the given bytes.
func New(data []byte) *Toker {
	return &Toker{data: data}
}

// Open maps the file at path read-only. Close releases the mapping.
func Open(path string) (*Toker, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open "+path)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "could not stat "+path)
	}
	if info.Size() == 0 { // Zero length mappings are refused by the kernel.
		return &Toker{file: file}, nil
	}
	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "could not mmap "+path)
	}
	return &Toker{data: m, mapped: m, file: file}, nil
}

func (t *Toker) Close() error {
	var err error
	if t.mapped != nil {
		err = errors.Wrap(t.mapped.Unmap(), "munmap")
		t.mapped = nil
	}
	if t.file != nil {
		if cerr := t.file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close")
		}
		t.file = nil
	}
	t.data = nil
	return err
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (t *Toker) SkipSpaces() {
	for t.Valid() && isSpace(t.Current()) {
		t.Advance()
	}
}

// SkipLine moves past the next newline.
func (t *Toker) SkipLine() {
	for t.Valid() && t.Current() != '\n' {
		t.Advance()
	}
	if t.Valid() {
		t.Advance()
	}
}

// ScanUint reads an unsigned decimal integer and the whitespace after it.
func (t *Toker) ScanUint() (uint64, error) {
	start := t.position
	number := uint64(0)
	for t.Valid() && isDigit(t.Current()) {
		d := uint64(t.Current() - '0')
		if number > (math.MaxUint64-d)/10 {
			return 0, errors.Wrapf(ErrOverflow, "number starting at byte %d", start)
		}
		number = number*10 + d
		t.Advance()
	}
	if t.position == start {
		if t.Valid() {
			return 0, errors.Wrapf(ErrNotANumber, "got %q at byte %d", t.Current(), t.position)
		}
		return 0, errors.Wrapf(ErrNotANumber, "unexpected end of input at byte %d", t.position)
	}
	t.SkipSpaces()
	return number, nil
}

func (t *Toker) SkipUint() {
	for t.Valid() && isDigit(t.Current()) {
		t.Advance()
	}
	t.SkipSpaces()
}

func (t *Toker) Valid() bool {
	return t.position < len(t.data)
}

func (t *Toker) Current() byte {
	return t.data[t.position]
}

func (t *Toker) Advance() {
	t.position++
}

func (t *Toker) Position() int {
	return t.position
}

func (t *Toker) Length() int {
	return len(t.data)
}

// Bytes is the whole scanned input; it is only valid until Close.
func (t *Toker) Bytes() []byte {
	return t.data
}
