package search

import (
	"container/heap"
	"sort"
)

const maxIntValue = int(^uint(0) >> 1)

// scoredCandidate carries the tie-break data the collector orders by.
type scoredCandidate struct {
	match        RankedMatch
	pathLength   int
	matchStart   int
	matchEnd     int
	matchCount   int
	wordHits     int
	pathSegments int
	inputOrder   int
}

type resultMinHeap []scoredCandidate

func (h resultMinHeap) Len() int           { return len(h) }
func (h resultMinHeap) Less(i, j int) bool { return compareResults(h[i], h[j]) > 0 }
func (h resultMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultMinHeap) Push(x any) {
	*h = append(*h, x.(scoredCandidate))
}

func (h *resultMinHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// topCollector keeps the best max results seen so far. The heap root is the
// worst kept result so a better candidate can evict it in O(log max).
type topCollector struct {
	max  int
	minH resultMinHeap
}

func newTopCollector(max int) *topCollector {
	if max <= 0 {
		max = DefaultLimit
	}
	tc := &topCollector{
		max:  max,
		minH: make(resultMinHeap, 0, max),
	}
	heap.Init(&tc.minH)
	return tc
}

func (tc *topCollector) Store(res scoredCandidate) {
	if tc.minH.Len() < tc.max {
		heap.Push(&tc.minH, res)
		return
	}

	if compareResults(res, tc.minH[0]) >= 0 {
		return
	}

	heap.Pop(&tc.minH)
	heap.Push(&tc.minH, res)
}

func (tc *topCollector) Results() []scoredCandidate {
	results := make([]scoredCandidate, tc.minH.Len())
	copy(results, tc.minH)

	sort.Slice(results, func(i, j int) bool {
		return compareResults(results[i], results[j]) < 0
	})

	return results
}

// compareResults orders best-first. Only the input order is guaranteed to
// differ between two candidates, which makes the ordering total.
func compareResults(a, b scoredCandidate) int {
	if diff := compareScore(a.match.Score, b.match.Score); diff != 0 {
		return diff
	}
	if diff := compareMatchSpan(a.matchStart, a.matchEnd, b.matchStart, b.matchEnd); diff != 0 {
		return diff
	}
	if diff := compareIntDesc(a.matchCount, b.matchCount); diff != 0 {
		return diff
	}
	if diff := compareIntDesc(a.wordHits, b.wordHits); diff != 0 {
		return diff
	}
	if diff := compareMatchIndexValues(a.matchStart, a.pathLength, b.matchStart, b.pathLength); diff != 0 {
		return diff
	}
	if diff := compareMatchIndexValues(a.matchEnd, a.pathLength, b.matchEnd, b.pathLength); diff != 0 {
		return diff
	}
	if diff := compareInt(a.pathSegments, b.pathSegments); diff != 0 {
		return diff
	}
	if diff := compareInt(a.pathLength, b.pathLength); diff != 0 {
		return diff
	}
	return compareInt(a.inputOrder, b.inputOrder)
}

// compareScore orders higher scores first. Scores are compared exactly; an
// epsilon band would make the ordering intransitive.
func compareScore(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareIntDesc(a, b int) int {
	return compareInt(b, a)
}

func compareMatchIndexValues(idxA, lenA, idxB, lenB int) int {
	return compareInt(normalizeMatchIndex(idxA, lenA), normalizeMatchIndex(idxB, lenB))
}

func normalizeMatchIndex(idx, pathLength int) int {
	if idx >= 0 {
		return idx
	}
	if pathLength > 0 {
		return pathLength
	}
	return maxIntValue
}

func matchSpanLength(start, end int) int {
	if start < 0 || end < start {
		return maxIntValue
	}
	return end - start
}

func compareMatchSpan(startA, endA, startB, endB int) int {
	return compareInt(matchSpanLength(startA, endA), matchSpanLength(startB, endB))
}
