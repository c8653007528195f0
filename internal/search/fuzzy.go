package search

import (
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
	"unsafe"
)

// MatchSpan represents the inclusive [Start, End] range of a match in rune indexes.
type MatchSpan struct {
	Start int
	End   int
}

// MatchDetails exposes additional metadata about a fuzzy match.
// Start/End are rune indexes into the target text; TargetLength
// is the total rune length of the target text, used for tie-breaks.
// Positions lists every rune index the matcher consumed, ascending.
type MatchDetails struct {
	Start        int
	End          int
	TargetLength int
	MatchCount   int
	WordHits     int
	Positions    []int
}

const (
	boundaryWord = 1 << iota
	boundaryStrong
)

// FuzzyMatcher performs fuzzy pattern matching
// Algorithm: Similar to fzf/sublime text
// Scoring:
//   - Consecutive characters: bonus per char
//   - Character at word boundary (uppercase/after /): bonus per char
//   - Non-consecutive: penalty per gap
//   - Contiguous substring and filename-local matches are preferred
type FuzzyMatcher struct {
	consecutiveBonus        float64
	wordBoundaryBonus       float64
	charBonus               float64
	gapPenalty              float64
	substringBonus          float64
	prefixBonus             float64
	finalSegmentBonus       float64
	startPenaltyFactor      float64
	crossSegmentPenalty     float64
	wordHitBonus            float64
	substringBoundaryFactor float64
	substringInteriorFactor float64
}

// NewFuzzyMatcher creates a new fuzzy matcher with default settings
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		consecutiveBonus:        1.2,
		wordBoundaryBonus:       0.6,
		charBonus:               1.2,
		gapPenalty:              0.18,
		substringBonus:          1.2,
		prefixBonus:             2.4,
		finalSegmentBonus:       2.0,
		startPenaltyFactor:      0.012,
		crossSegmentPenalty:     0.9,
		wordHitBonus:            3.2,
		substringBoundaryFactor: 0.3,
		substringInteriorFactor: 0.15,
	}
}

// MatchDetailedFromRunes lets callers reuse precomputed rune slices for both the pattern and target text.
// Callers are responsible for providing runes that already reflect any desired case folding.
func (fm *FuzzyMatcher) MatchDetailedFromRunes(patternRunes, textRunes []rune) (float64, bool, MatchDetails) {
	if len(patternRunes) == 0 {
		return 1.0, true, MatchDetails{
			Start:        0,
			End:          -1,
			TargetLength: len(textRunes),
		}
	}
	score, matched, details, _ := fm.matchWithRunes(patternRunes, textRunes)
	return score, matched, details
}

func (fm *FuzzyMatcher) matchWithRunes(patternRunes, textRunes []rune) (float64, bool, MatchDetails, int) {
	substringIdx := indexRunes(textRunes, patternRunes)
	baseScore := 0.0
	matched := false
	targetLen := len(textRunes)
	wordHits := 0
	var positions []int

	if substringIdx != -1 {
		contiguousScore, start, end, contiguousWordHits := fm.contiguousMatchScore(patternRunes, textRunes, substringIdx)
		if start >= 0 {
			baseScore = contiguousScore
			wordHits = contiguousWordHits
			positions = make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				positions = append(positions, i)
			}
			matched = true
		}
	}

	if !matched {
		boundaryBuf := acquireBoundaryBuffer(len(textRunes))
		var dpScore float64
		var dpMatched bool
		dpScore, dpMatched, positions, wordHits = fm.matchRunesDP(patternRunes, textRunes, boundaryBuf)
		releaseBoundaryBuffer(boundaryBuf)
		if dpMatched {
			baseScore = dpScore
			matched = true
		}
	}

	if !matched || len(positions) == 0 {
		return 0, false, MatchDetails{
			Start:        -1,
			End:          -1,
			TargetLength: targetLen,
		}, substringIdx
	}
	start, end := positions[0], positions[len(positions)-1]

	score := baseScore
	if substringIdx != -1 {
		substringBonus := fm.substringBonus
		if substringIdx > 0 {
			prev := textRunes[substringIdx-1]
			switch prev {
			case '/', '\\':
				// keep full bonus
			case '-', '_', ' ', '.', ':':
				substringBonus *= fm.substringBoundaryFactor
			default:
				substringBonus *= fm.substringInteriorFactor
			}
		}
		score += substringBonus
		if substringIdx == 0 {
			score += fm.prefixBonus
		}
	}

	crossSegments := 0
	for _, r := range textRunes[start : end+1] {
		if r == '/' {
			crossSegments++
		}
	}
	if crossSegments > 0 {
		score -= fm.crossSegmentPenalty * float64(crossSegments)
	}

	lastSlashRune := -1
	for idx, r := range textRunes {
		if r == '/' {
			lastSlashRune = idx
		}
	}
	if lastSlashRune != -1 && start <= lastSlashRune {
		score -= fm.startPenaltyFactor * float64(lastSlashRune-start)
	}

	inFinalSegment := lastSlashRune == -1 || start >= lastSlashRune+1
	if inFinalSegment || (substringIdx != -1 && substringIdx >= lastSlashRune+1) {
		score += fm.finalSegmentBonus
	}

	score += fm.wordHitBonus * float64(wordHits)

	return score, true, MatchDetails{
		Start:        start,
		End:          end,
		TargetLength: targetLen,
		MatchCount:   len(patternRunes),
		WordHits:     wordHits,
		Positions:    positions,
	}, substringIdx
}

const (
	dpBeamWidth  = 96
	dpBeamMargin = 48
)

// matchRunesDP runs a beam-limited alignment of pattern over text and returns
// the best score together with the rune positions that produced it. When the
// beam loses a match that exists (a gap wider than the beam), the alignment
// is repeated over the whole text.
func (fm *FuzzyMatcher) matchRunesDP(pattern, text []rune, boundaryBuf *boundaryBuffer) (float64, bool, []int, int) {
	score, matched, positions, wordHits := fm.matchRunesDPBeam(pattern, text, boundaryBuf, dpBeamWidth, dpBeamMargin)
	if matched || !isSubsequence(pattern, text) {
		return score, matched, positions, wordHits
	}
	return fm.matchRunesDPBeam(pattern, text, boundaryBuf, len(text), len(text))
}

// isSubsequence reports whether every pattern rune occurs in text in order.
func isSubsequence(pattern, text []rune) bool {
	i := 0
	for _, r := range text {
		if i == len(pattern) {
			break
		}
		if pattern[i] == r {
			i++
		}
	}
	return i == len(pattern)
}

func (fm *FuzzyMatcher) matchRunesDPBeam(pattern, text []rune, boundaryBuf *boundaryBuffer, beamWidth, beamMargin int) (float64, bool, []int, int) {
	m := len(pattern)
	n := len(text)
	if n == 0 || m > n {
		return 0.0, false, nil, 0
	}

	negInf := math.Inf(-1)
	scratch := acquireDPScratch(m, n)
	defer releaseDPScratch(scratch)
	dpPrev := scratch.dpPrev
	dpCurr := scratch.dpCurr
	for j := range dpPrev {
		dpPrev[j] = negInf
	}
	for j := range dpCurr {
		dpCurr[j] = negInf
	}
	backtrack := scratch.backtrack
	backtrackGen := scratch.backtrackGen
	cols := scratch.cols

	minActive := -1
	maxActive := -1
	for j := 0; j < n; j++ {
		if n-j < m {
			break
		}
		if pattern[0] != text[j] {
			continue
		}
		score := fm.charBonus
		if isWordBoundary(boundaryBuf, text, j) {
			score += fm.wordBoundaryBonus
		}
		score -= fm.gapPenalty * 0.02 * float64(j)
		dpPrev[j] = score
		if minActive == -1 {
			minActive = j
		}
		maxActive = j
	}

	if maxActive == -1 {
		return 0.0, false, nil, 0
	}

	for i := 1; i < m; i++ {
		for j := range dpCurr {
			dpCurr[j] = negInf
		}

		windowStart := max(minActive-beamWidth, 0)
		windowEnd := min(maxActive+beamWidth, n-1)

		bestScoreNorm := negInf
		bestIdx := -1
		nextMinActive := -1
		nextMaxActive := -1

		for j := windowStart; j <= windowEnd; j++ {
			if n-j < m-i {
				break
			}
			if bestIdx != -1 && bestScoreNorm > negInf/2 {
				bestScoreNorm -= fm.gapPenalty
			}
			if j > 0 && dpPrev[j-1] > bestScoreNorm {
				bestScoreNorm = dpPrev[j-1]
				bestIdx = j - 1
			}

			if pattern[i] != text[j] {
				continue
			}

			charScore := fm.charBonus
			if isWordBoundary(boundaryBuf, text, j) {
				charScore += fm.wordBoundaryBonus
			}

			bestScore := negInf
			prevIdx := -1

			if bestIdx != -1 && bestScoreNorm > negInf/2 {
				score := bestScoreNorm + charScore
				if bestIdx == j-1 {
					score += fm.consecutiveBonus
				}
				bestScore = score
				prevIdx = bestIdx
			}

			if j > 0 && dpPrev[j-1] > negInf/2 {
				score := dpPrev[j-1] + charScore + fm.consecutiveBonus
				if score > bestScore {
					bestScore = score
					prevIdx = j - 1
				}
			}

			if prevIdx == -1 || bestScore <= negInf/2 {
				continue
			}

			dpCurr[j] = bestScore
			cell := i*cols + j
			backtrack[cell] = prevIdx
			backtrackGen[cell] = scratch.generation
			if nextMinActive == -1 {
				nextMinActive = j
			}
			nextMaxActive = j
		}

		dpPrev, dpCurr = dpCurr, dpPrev
		if nextMaxActive == -1 {
			return 0.0, false, nil, 0
		}
		minActive = max(nextMinActive-beamMargin, 0)
		maxActive = min(nextMaxActive+beamMargin, n-1)
	}

	bestEnd := maxIndex(dpPrev)
	if bestEnd == -1 {
		return 0.0, false, nil, 0
	}

	positions := make([]int, m)
	k := bestEnd
	for i := m - 1; i >= 0; i-- {
		positions[i] = k
		if i > 0 {
			cell := i*cols + k
			if backtrackGen[cell] != scratch.generation {
				return 0.0, false, nil, 0
			}
			k = backtrack[cell]
			if k == -1 {
				return 0.0, false, nil, 0
			}
		}
	}

	bestScore := dpPrev[bestEnd]
	trailingLen := n - positions[m-1] - 1
	if trailingLen > 20 {
		bestScore -= fm.gapPenalty * 0.25 * float64((trailingLen-20)/10)
	}

	wordHits := 0
	for _, idx := range positions {
		if isStrongWordBoundary(boundaryBuf, text, idx) {
			wordHits++
		}
	}

	return bestScore, true, positions, wordHits
}

func (fm *FuzzyMatcher) contiguousMatchScore(patternRunes, textRunes []rune, start int) (float64, int, int, int) {
	matchLen := len(patternRunes)
	if matchLen == 0 {
		return 0, -1, -1, 0
	}
	end := start + matchLen - 1
	if end >= len(textRunes) {
		return 0, -1, -1, 0
	}

	score := 0.0
	wordHits := 0
	for i := 0; i < matchLen; i++ {
		idx := start + i
		charScore := fm.charBonus
		if isWordBoundaryRune(textRunes, idx) {
			charScore += fm.wordBoundaryBonus
			if isStrongWordBoundaryRune(textRunes, idx) {
				wordHits++
			}
		}
		if i == 0 {
			charScore -= fm.gapPenalty * 0.02 * float64(idx)
		} else {
			charScore += fm.consecutiveBonus
		}
		score += charScore
	}

	trailingLen := len(textRunes) - end - 1
	if trailingLen > 20 {
		score -= fm.gapPenalty * 0.25 * float64((trailingLen-20)/10)
	}

	return score, start, end, wordHits
}

func maxIndex(values []float64) int {
	best := math.Inf(-1)
	bestIdx := -1
	for i, v := range values {
		if v > best {
			best = v
			bestIdx = i
		}
	}
	if bestIdx == -1 || best <= math.Inf(-1)/2 {
		return -1
	}
	return bestIdx
}

func isWordBoundary(buf *boundaryBuffer, text []rune, idx int) bool {
	if buf != nil {
		return buf.boundaryBits(text, idx)&boundaryWord != 0
	}
	return isWordBoundaryRune(text, idx)
}

func isStrongWordBoundary(buf *boundaryBuffer, text []rune, idx int) bool {
	if buf != nil {
		return buf.boundaryBits(text, idx)&boundaryStrong != 0
	}
	return isStrongWordBoundaryRune(text, idx)
}

func isWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := text[idx-1]
	curr := text[idx]
	switch prev {
	case '/', '\\', '-', '_', ' ', '.', ':':
		return true
	}
	return letterTransition(prev, curr)
}

func isStrongWordBoundaryRune(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := text[idx-1]
	curr := text[idx]
	switch prev {
	case '/', '\\', ' ', '-':
		return true
	case '_', '.', ':':
		return false
	}
	return letterTransition(prev, curr)
}

// letterTransition reports a non-letter to letter step or a lower to upper step (camelCase).
func letterTransition(prev, curr rune) bool {
	if !isLetterRune(prev) && isLetterRune(curr) {
		return true
	}
	if prev <= unicode.MaxASCII && curr <= unicode.MaxASCII {
		return prev >= 'a' && prev <= 'z' && curr >= 'A' && curr <= 'Z'
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}

func isLetterByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isLetterRune(r rune) bool {
	if r <= unicode.MaxASCII {
		return isLetterByte(byte(r))
	}
	return unicode.IsLetter(r)
}

func runesAreASCII(rs []rune) bool {
	for _, r := range rs {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}
	if runesAreASCII(haystack) && runesAreASCII(needle) {
		return indexRunesASCII(haystack, needle)
	}
outer:
	for i := 0; i <= len(haystack)-len(needle); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		for j := 1; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

func indexRunesASCII(haystack, needle []rune) int {
	hBuf := acquireByteBuffer(len(haystack))
	defer releaseByteBuffer(hBuf)
	nBuf := acquireByteBuffer(len(needle))
	defer releaseByteBuffer(nBuf)
	for i, r := range haystack {
		hBuf.data[i] = byte(r)
	}
	for i, r := range needle {
		nBuf.data[i] = byte(r)
	}
	return strings.Index(asciiBytesToString(hBuf.data), asciiBytesToString(nBuf.data))
}

func asciiBytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

type runeBuffer struct {
	data []rune
}

type byteBuffer struct {
	data []byte
}

var runeBufferPool = sync.Pool{
	New: func() any {
		return &runeBuffer{}
	},
}

var byteBufferPool = sync.Pool{
	New: func() any {
		return &byteBuffer{}
	},
}

// acquireRunes decodes s into a pooled rune slice. Folding lowers each rune
// individually so indexes line up with the original text.
func acquireRunes(s string, fold bool) ([]rune, *runeBuffer) {
	buf := runeBufferPool.Get().(*runeBuffer)
	needed := utf8.RuneCountInString(s)
	runes := buf.data
	if cap(runes) < needed {
		runes = make([]rune, needed)
	} else {
		runes = runes[:needed]
	}
	idx := 0
	for _, r := range s {
		if fold {
			if r < utf8.RuneSelf {
				if r >= 'A' && r <= 'Z' {
					r += 'a' - 'A'
				}
			} else {
				r = unicode.ToLower(r)
			}
		}
		runes[idx] = r
		idx++
	}
	buf.data = runes
	return runes, buf
}

func releaseRunes(buf *runeBuffer) {
	if buf == nil {
		return
	}
	buf.data = buf.data[:0]
	runeBufferPool.Put(buf)
}

func acquireByteBuffer(length int) *byteBuffer {
	buf := byteBufferPool.Get().(*byteBuffer)
	if cap(buf.data) < length {
		buf.data = make([]byte, length)
	}
	buf.data = buf.data[:length]
	return buf
}

func releaseByteBuffer(buf *byteBuffer) {
	if buf == nil {
		return
	}
	buf.data = buf.data[:0]
	byteBufferPool.Put(buf)
}

type boundaryBuffer struct {
	flags      []uint8
	gens       []uint32
	generation uint32
}

var boundaryBufferPool = sync.Pool{
	New: func() any {
		return &boundaryBuffer{}
	},
}

func acquireBoundaryBuffer(length int) *boundaryBuffer {
	buf := boundaryBufferPool.Get().(*boundaryBuffer)
	if cap(buf.flags) < length {
		buf.flags = make([]uint8, length)
		buf.gens = make([]uint32, length)
	}
	buf.flags = buf.flags[:length]
	buf.gens = buf.gens[:length]
	buf.generation++
	if buf.generation == 0 {
		for i := range buf.gens {
			buf.gens[i] = 0
		}
		buf.generation = 1
	}
	return buf
}

func releaseBoundaryBuffer(buf *boundaryBuffer) {
	if buf == nil {
		return
	}
	buf.flags = buf.flags[:0]
	buf.gens = buf.gens[:0]
	boundaryBufferPool.Put(buf)
}

func (b *boundaryBuffer) boundaryBits(text []rune, idx int) uint8 {
	if b == nil || idx < 0 || idx >= len(b.flags) {
		return 0
	}
	if b.gens[idx] == b.generation {
		return b.flags[idx]
	}
	var value uint8
	if idx == 0 {
		value = boundaryWord | boundaryStrong
	} else {
		if isWordBoundaryRune(text, idx) {
			value |= boundaryWord
		}
		if isStrongWordBoundaryRune(text, idx) {
			value |= boundaryStrong
		}
	}
	b.flags[idx] = value
	b.gens[idx] = b.generation
	return value
}

type dpScratch struct {
	dpPrev       []float64
	dpCurr       []float64
	backtrack    []int
	backtrackGen []uint32
	cols         int
	rows         int
	generation   uint32
}

var dpScratchPool = sync.Pool{
	New: func() any {
		return &dpScratch{}
	},
}

func acquireDPScratch(rows, cols int) *dpScratch {
	s := dpScratchPool.Get().(*dpScratch)
	if cap(s.dpPrev) < cols {
		s.dpPrev = make([]float64, cols)
	}
	if cap(s.dpCurr) < cols {
		s.dpCurr = make([]float64, cols)
	}
	required := rows * cols
	if cap(s.backtrack) < required {
		s.backtrack = make([]int, required)
	}
	if cap(s.backtrackGen) < required {
		s.backtrackGen = make([]uint32, required)
	}
	s.dpPrev = s.dpPrev[:cols]
	s.dpCurr = s.dpCurr[:cols]
	s.backtrack = s.backtrack[:required]
	s.backtrackGen = s.backtrackGen[:required]
	s.generation++
	if s.generation == 0 {
		for i := range s.backtrackGen {
			s.backtrackGen[i] = 0
		}
		s.generation = 1
	}
	s.rows = rows
	s.cols = cols
	return s
}

func releaseDPScratch(s *dpScratch) {
	// Keep slices for reuse; simply reset bookkeeping.
	s.rows = 0
	s.cols = 0
	dpScratchPool.Put(s)
}

