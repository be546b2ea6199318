package edgelist

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/hyperlink/toker"
	"github.com/ScottSallinen/hyperlink/utils"
)

var ErrIDRange = errors.New("vertex id does not fit the id width")

// Reads one "u v" pair. Lines starting with '#' are skipped.
func scanPair[T ID](t *toker.Toker) (e Edge[T], ok bool, err error) {
	for t.Valid() && t.Current() == '#' {
		t.SkipLine()
		t.SkipSpaces()
	}
	if !t.Valid() {
		return e, false, nil
	}
	u, err := t.ScanUint()
	if err != nil {
		return e, false, err
	}
	v, err := t.ScanUint()
	if err != nil {
		return e, false, err
	}
	if u >= uint64(MaxID[T]()) || v >= uint64(MaxID[T]()) {
		return e, false, errors.Wrapf(ErrIDRange, "(%d, %d) at byte %d", u, v, t.Position())
	}
	return Edge[T]{T(u), T(v)}, true, nil
}

// ParseText parses a whitespace separated text edge list, one pair per line, using up to workers goroutines.
// The returned pairs keep the input order.
func ParseText[T ID](data []byte, workers int) ([]Edge[T], error) {
	parts := splitLines(data, workers)
	results := make([][]Edge[T], len(parts))

	var g errgroup.Group
	for i := range parts {
		g.Go(func() error {
			t := toker.New(parts[i])
			t.SkipSpaces()
			edges := make([]Edge[T], 0, len(parts[i])/8)
			for {
				e, ok, err := scanPair[T](t)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				edges = append(edges, e)
			}
			results[i] = edges
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for i := range results {
		total += len(results[i])
	}
	if len(results) == 1 {
		return results[0], nil
	}
	edges := make([]Edge[T], 0, total)
	for i := range results {
		edges = append(edges, results[i]...)
		results[i] = nil
	}
	return edges, nil
}

// Cuts data into at most parts pieces, each ending just after a newline (or at the end of data).
func splitLines(data []byte, parts int) [][]byte {
	if parts < 1 {
		parts = 1
	}
	pieces := make([][]byte, 0, parts)
	start := 0
	for p := 1; p <= parts && start < len(data); p++ {
		end := len(data)
		if p < parts {
			end = utils.Max(start, len(data)*p/parts)
			if nl := bytes.IndexByte(data[end:], '\n'); nl >= 0 {
				end += nl + 1
			} else {
				end = len(data)
			}
		}
		pieces = append(pieces, data[start:end])
		start = end
	}
	if len(pieces) == 0 {
		pieces = append(pieces, data[:0])
	}
	return pieces
}

// TextStats summarizes a text edge list.
type TextStats struct {
	Edges      uint64
	MultiEdges uint64 // Pairs equal to the pair just before them.
	SelfLoops  uint64
	Forward    uint64 // u < v
	Backward   uint64 // u > v
}

// ScanTextStats reads every pair of t, failing at the first pair smaller than its predecessor.
func ScanTextStats(t *toker.Toker, source string) (stats TextStats, err error) {
	var prev Edge[uint64]
	t.SkipSpaces()
	for {
		cur, ok, err := scanPair[uint64](t)
		if err != nil {
			return stats, errors.Wrapf(err, "%s line %d", source, stats.Edges+1)
		}
		if !ok {
			return stats, nil
		}

		if stats.Edges > 0 && cur == prev {
			stats.MultiEdges++
		}
		if cur.U == cur.V {
			stats.SelfLoops++
		} else if cur.U < cur.V {
			stats.Forward++
		} else {
			stats.Backward++
		}
		stats.Edges++

		if cur.Less(prev) {
			return stats, newUnsortedError(source, stats.Edges, prev, cur)
		}
		prev = cur
	}
}
