package edgelist

import (
	"runtime"
	"sync"

	"github.com/jfcg/sorty"
)

// Sort orders edges ascending by (U, V), in place, using all cores. It returns when done.
func Sort[T ID](edges []Edge[T]) {
	sorty.Sort(len(edges), func(i, k, r, s int) bool {
		if edges[i].Less(edges[k]) {
			if r != s {
				edges[r], edges[s] = edges[s], edges[r]
			}
			return true
		}
		return false
	})
}

// IsSorted reports whether edges are in ascending (U, V) order.
func IsSorted[T ID](edges []Edge[T]) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i].Less(edges[i-1]) {
			return false
		}
	}
	return true
}

// Dedupe drops adjacent duplicates of a sorted slice. Returns the shortened slice.
func Dedupe[T ID](edges []Edge[T]) []Edge[T] {
	if len(edges) == 0 {
		return edges
	}
	w := 1
	for i := 1; i < len(edges); i++ {
		if edges[i] != edges[w-1] {
			edges[w] = edges[i]
			w++
		}
	}
	return edges[:w]
}

// Canonicalize orients every pair so that U < V and drops self loops.
// Returns the shortened slice and the number of self loops dropped.
func Canonicalize[T ID](edges []Edge[T]) ([]Edge[T], uint64) {
	w := 0
	for i := range edges {
		e := edges[i]
		if e.U == e.V {
			continue
		}
		if e.V < e.U {
			e.U, e.V = e.V, e.U
		}
		edges[w] = e
		w++
	}
	return edges[:w], uint64(len(edges) - w)
}

// Reverse swaps U and V of every pair, in parallel chunks.
func Reverse[T ID](edges []Edge[T]) {
	var wg sync.WaitGroup
	for _, r := range chunks(len(edges), runtime.NumCPU()) {
		part := edges[r[0]:r[1]]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range part {
				part[i].U, part[i].V = part[i].V, part[i].U
			}
		}()
	}
	wg.Wait()
}

// Splits [0, n) into at most parts contiguous ranges.
func chunks(n int, parts int) [][2]int {
	if parts < 1 {
		parts = 1
	}
	size := (n + parts - 1) / parts
	if size == 0 {
		return nil
	}
	ranges := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}
