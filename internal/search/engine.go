package search

import (
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// DefaultLimit is the number of results the panel asks for.
const DefaultLimit = 10

// Candidate is a file eligible for matching in one search pass.
type Candidate struct {
	Path string
	Name string
}

// RankedMatch is one search result. Index points back into the candidate
// slice the search ran over. Positions are rune offsets into Candidate.Path,
// which is NFC normalised.
type RankedMatch struct {
	Candidate Candidate
	Index     int
	Score     float64
	Positions []int
}

// Engine ranks candidate paths against a query. It holds no per-query state
// and may be shared between goroutines.
//
// Every call rescans the whole candidate slice. That is fine for vaults of a
// few tens of thousands of files; past that an index would be needed.
type Engine struct {
	matcher *FuzzyMatcher
	log     *logrus.Entry
}

func NewEngine() *Engine {
	return &Engine{
		matcher: NewFuzzyMatcher(),
		log:     logrus.WithField("component", "search"),
	}
}

type queryToken struct {
	runes []rune
}

// Search returns at most limit matches, best first. An empty or
// whitespace-only query returns nil. Every query token must match; there is
// no score floor beyond that.
func (e *Engine) Search(query string, candidates []Candidate, limit int) []RankedMatch {
	query = NormalizeText(strings.TrimSpace(query))
	if query == "" || len(candidates) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	started := time.Now()
	tokens := prepareQueryTokens(query)
	collector := newTopCollector(limit)
	matched := 0

	for idx, candidate := range candidates {
		relPath := NormalizeText(candidate.Path)
		score, ok, details := e.matchTokens(tokens, relPath)
		if !ok {
			continue
		}
		matched++
		score += computeSegmentBoost(query, relPath, details)

		pathLength := details.TargetLength
		if pathLength == 0 {
			pathLength = utf8.RuneCountInString(relPath)
		}
		name := candidate.Name
		if name == "" {
			name = path.Base(relPath)
		}

		collector.Store(scoredCandidate{
			match: RankedMatch{
				Candidate: Candidate{Path: relPath, Name: NormalizeText(name)},
				Index:     idx,
				Score:     score,
				Positions: details.Positions,
			},
			pathLength:   pathLength,
			matchStart:   details.Start,
			matchEnd:     details.End,
			matchCount:   details.MatchCount,
			wordHits:     details.WordHits,
			pathSegments: countPathSegments(relPath),
			inputOrder:   idx,
		})
	}

	results := collector.Results()
	out := make([]RankedMatch, len(results))
	for i, res := range results {
		out[i] = res.match
	}

	e.log.WithFields(logrus.Fields{
		"query":      query,
		"candidates": len(candidates),
		"matched":    matched,
		"returned":   len(out),
		"elapsed":    time.Since(started),
	}).Debug("search complete")

	return out
}

// matchTokens scores every token against the full path and against the file
// name alone, keeping whichever of the two scored better.
func (e *Engine) matchTokens(tokens []queryToken, relPath string) (float64, bool, MatchDetails) {
	pathRunes, pathBuf := acquireRunes(relPath, true)
	defer releaseRunes(pathBuf)

	bestScore, bestDetails, ok := e.aggregateTokenMatches(tokens, pathRunes)
	if !ok {
		return 0, false, MatchDetails{}
	}

	if slash := strings.LastIndexByte(relPath, '/'); slash >= 0 {
		fileOffset := utf8.RuneCountInString(relPath[:slash+1])
		fileScore, fileDetails, fileOK := e.aggregateTokenMatches(tokens, pathRunes[fileOffset:])
		if fileOK && fileScore > bestScore {
			bestScore = fileScore
			fileDetails.Start += fileOffset
			fileDetails.End += fileOffset
			for i := range fileDetails.Positions {
				fileDetails.Positions[i] += fileOffset
			}
			fileDetails.TargetLength = len(pathRunes)
			bestDetails = fileDetails
		}
	}

	if bestDetails.TargetLength == 0 {
		bestDetails.TargetLength = len(pathRunes)
	}

	return bestScore / float64(len(tokens)), true, bestDetails
}

func (e *Engine) aggregateTokenMatches(tokens []queryToken, textRunes []rune) (float64, MatchDetails, bool) {
	totalScore := 0.0
	agg := MatchDetails{
		Start:        -1,
		End:          -1,
		TargetLength: len(textRunes),
	}

	for _, token := range tokens {
		score, matched, details := e.matcher.MatchDetailedFromRunes(token.runes, textRunes)
		if !matched {
			return 0, MatchDetails{}, false
		}
		totalScore += score
		agg.MatchCount += details.MatchCount
		agg.WordHits += details.WordHits
		agg.Positions = mergePositions(agg.Positions, details.Positions)
		if details.Start >= 0 && (agg.Start == -1 || details.Start < agg.Start) {
			agg.Start = details.Start
		}
		if details.End > agg.End {
			agg.End = details.End
		}
	}

	return totalScore, agg, true
}

func prepareQueryTokens(query string) []queryToken {
	fields := strings.FieldsFunc(query, unicode.IsSpace)
	tokens := make([]queryToken, 0, len(fields))
	for _, field := range fields {
		runes, buf := acquireRunes(field, true)
		tokens = append(tokens, queryToken{runes: append([]rune(nil), runes...)})
		releaseRunes(buf)
	}
	return tokens
}

// NormalizeText converts s to NFC so decomposed file names (as stored by
// macOS) compare equal to composed keyboard input.
func NormalizeText(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
